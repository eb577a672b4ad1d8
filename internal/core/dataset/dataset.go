// Package dataset defines the disease knowledge base used by the triage
// responder: per-disease symptom lists and recommended precautions.
package dataset

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Disease is one knowledge base entry.
type Disease struct {
	Name        string   `json:"disease"`
	Symptoms    []string `json:"symptoms"`
	Precautions []string `json:"precautions"`
}

// Dataset is an ordered collection of diseases. Its JSON form is a top-level
// array, the medical_dataset.json layout produced by Build.
type Dataset []Disease

// Find returns the entry whose name matches, ignoring case.
func (d Dataset) Find(name string) (Disease, bool) {
	for _, disease := range d {
		if strings.EqualFold(disease.Name, name) {
			return disease, true
		}
	}
	return Disease{}, false
}

// Validate checks the dataset for entries the triage pipeline cannot use.
func (d Dataset) Validate() error {
	if len(d) == 0 {
		return criterio.NewFieldErrors("diseases", fmt.Errorf("dataset is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool)

	for i, disease := range d {
		field := fmt.Sprintf("diseases[%d]", i)

		name := strings.TrimSpace(disease.Name)
		if name == "" {
			errs = errs.Append(field+".disease", fmt.Errorf("name is required"))
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			errs = errs.Append(field+".disease", fmt.Errorf("duplicate disease %q", disease.Name))
			continue
		}
		seen[key] = true

		if len(disease.Symptoms) == 0 {
			errs = errs.Append(field+".symptoms", fmt.Errorf("at least one symptom is required"))
			continue
		}
		for j, symptom := range disease.Symptoms {
			if strings.TrimSpace(symptom) == "" {
				errs = errs.Append(fmt.Sprintf("%s.symptoms[%d]", field, j), fmt.Errorf("symptom is blank"))
			}
		}
	}

	return errs.ToError()
}
