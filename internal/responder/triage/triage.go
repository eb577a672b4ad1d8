// Package triage provides a dataset-backed responder that matches reported
// symptoms against a disease knowledge base and renders an assessment with
// recommended precautions. Matching is lexical: queries are split into
// sentences and compared to symptom names by stemmed word overlap.
package triage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mediqhq/mediq/internal/core/dataset"
)

// NoMatchReply is returned when no symptom clears the similarity threshold.
const NoMatchReply = "Could not identify any symptoms from the query. Please describe your symptoms more clearly."

// Strategy selects how candidate diseases are scored.
type Strategy string

const (
	// StrategyVector scores diseases from per-sentence symptom matches alone.
	StrategyVector Strategy = "vector"
	// StrategyHybrid blends symptom-graph connectivity with whole-query
	// similarity.
	StrategyHybrid Strategy = "hybrid"
)

// Options configures a Responder. Zero values select the defaults.
type Options struct {
	// Strategy defaults to StrategyVector.
	Strategy Strategy
	// Threshold is the minimum similarity for a symptom match. Defaults to 0.45.
	Threshold float64
	// TopK caps how many candidate diseases a response mentions. Defaults to 3.
	TopK int
	// Alpha weighs the graph score against the vector score for
	// StrategyHybrid. Defaults to 0.6.
	Alpha float64
	// Logger receives match diagnostics.
	Logger zerolog.Logger
}

// Responder answers symptom descriptions from a disease dataset.
type Responder struct {
	strategy  Strategy
	threshold float64
	topK      int
	alpha     float64
	log       zerolog.Logger

	diseases []diseaseEntry
	// adjacency maps a symptom name to the diseases listing it.
	adjacency map[string][]int
	// symptoms holds each unique symptom once, in first-appearance order.
	symptoms []symptomNode
}

type diseaseEntry struct {
	dataset.Disease
	// tokens is parallel to Symptoms.
	tokens []tokenSet
	// distinct is the number of unique symptom names.
	distinct int
}

type symptomNode struct {
	name   string
	tokens tokenSet
}

// New indexes the dataset for matching.
func New(ds dataset.Dataset, opts Options) (*Responder, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	r := &Responder{
		strategy:  opts.Strategy,
		threshold: opts.Threshold,
		topK:      opts.TopK,
		alpha:     opts.Alpha,
		log:       opts.Logger,
		adjacency: make(map[string][]int),
	}
	if r.strategy == "" {
		r.strategy = StrategyVector
	}
	if r.threshold == 0 {
		r.threshold = 0.45
	}
	if r.topK == 0 {
		r.topK = 3
	}
	if r.alpha == 0 {
		r.alpha = 0.6
	}

	switch r.strategy {
	case StrategyVector, StrategyHybrid:
	default:
		return nil, fmt.Errorf("unknown strategy %q", opts.Strategy)
	}

	seen := make(map[string]bool)
	for di, d := range ds {
		entry := diseaseEntry{Disease: d, tokens: make([]tokenSet, len(d.Symptoms))}
		perDisease := make(map[string]bool)
		for si, symptom := range d.Symptoms {
			entry.tokens[si] = stemmedTokens(symptom)
			if perDisease[symptom] {
				continue
			}
			perDisease[symptom] = true
			if !seen[symptom] {
				seen[symptom] = true
				r.symptoms = append(r.symptoms, symptomNode{name: symptom, tokens: stemmedTokens(symptom)})
			}
			r.adjacency[symptom] = append(r.adjacency[symptom], di)
		}
		entry.distinct = len(perDisease)
		r.diseases = append(r.diseases, entry)
	}

	return r, nil
}

// Respond assesses the described symptoms and renders the reply. A query with
// no recognizable symptoms gets a clarification prompt, not an error.
func (r *Responder) Respond(ctx context.Context, text string) (string, error) {
	var result diagnosis
	switch r.strategy {
	case StrategyHybrid:
		result = r.diagnoseHybrid(text)
	default:
		result = r.diagnoseVector(text)
	}

	if len(result.Candidates) == 0 {
		r.log.Debug().Msg("no symptoms matched")
		return NoMatchReply, nil
	}

	r.log.Debug().
		Str("best", result.Candidates[0].Name).
		Int("candidates", len(result.Candidates)).
		Msg("triage complete")

	return renderResponse(result)
}

// diagnosis is the ranked outcome of a triage pass.
type diagnosis struct {
	Candidates []candidate
}

// candidate is one scored disease.
type candidate struct {
	Name            string
	Score           float64
	MatchedSymptoms []string
	TotalSymptoms   int
	Precautions     []string
}
