package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Build merges a symptoms CSV and a precautions CSV into a Dataset.
//
// Both files carry the disease name in their first column; every remaining
// column is a symptom (or precaution) slot, blank where unused. Symptom cells
// are trimmed and underscores rewritten to spaces, then deduplicated per
// disease in first-seen order. Diseases appear in the output in the order the
// symptoms file first mentions them; precautions for diseases the symptoms
// file never mentions are skipped with a warning.
func Build(symptoms, precautions io.Reader, log zerolog.Logger) (Dataset, error) {
	bySymptom, order, err := readSymptoms(symptoms)
	if err != nil {
		return nil, fmt.Errorf("read symptoms: %w", err)
	}

	byPrecaution, err := readPrecautions(precautions)
	if err != nil {
		return nil, fmt.Errorf("read precautions: %w", err)
	}

	for name := range byPrecaution {
		if _, ok := bySymptom[name]; !ok {
			log.Warn().Str("disease", name).Msg("precautions listed for a disease missing from the symptoms file, skipping")
		}
	}

	out := make(Dataset, 0, len(order))
	for _, name := range order {
		precs := byPrecaution[name]
		if precs == nil {
			precs = []string{}
		}
		out = append(out, Disease{
			Name:        name,
			Symptoms:    bySymptom[name],
			Precautions: precs,
		})
	}
	return out, nil
}

func readSymptoms(r io.Reader) (map[string][]string, []string, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, nil, err
	}

	byDisease := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	var order []string

	for _, row := range rows {
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		if seen[name] == nil {
			seen[name] = make(map[string]bool)
			byDisease[name] = []string{}
			order = append(order, name)
		}
		for _, cell := range row[1:] {
			symptom := cleanSymptom(cell)
			if symptom == "" || seen[name][symptom] {
				continue
			}
			seen[name][symptom] = true
			byDisease[name] = append(byDisease[name], symptom)
		}
	}

	return byDisease, order, nil
}

func readPrecautions(r io.Reader) (map[string][]string, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	byDisease := make(map[string][]string)
	for _, row := range rows {
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		for _, cell := range row[1:] {
			precaution := strings.TrimSpace(cell)
			if precaution == "" {
				continue
			}
			byDisease[name] = append(byDisease[name], precaution)
		}
	}
	return byDisease, nil
}

// readRows parses a CSV and returns its data rows, header excluded. Ragged
// rows are tolerated since the export pads symptom slots unevenly.
func readRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}
	return rows[1:], nil
}

func cleanSymptom(cell string) string {
	return strings.ReplaceAll(strings.TrimSpace(cell), "_", " ")
}
