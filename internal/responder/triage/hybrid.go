package triage

import "sort"

// diagnoseHybrid blends two signals per disease: how strongly its symptoms
// connect to the matched ones (graph score, normalized by the disease's
// symptom count) and how similar the whole query is to its symptom list on
// average (vector score). Alpha weighs graph against vector.
func (r *Responder) diagnoseHybrid(query string) diagnosis {
	sims := make(map[string]float64)
	var matched []string

	for _, sentence := range splitSentences(query) {
		tokens := stemmedTokens(sentence)
		for _, node := range r.symptoms {
			sim := coverage(node.tokens, tokens)
			if sim < r.threshold {
				continue
			}
			prev, ok := sims[node.name]
			if !ok {
				matched = append(matched, node.name)
			}
			if sim > prev {
				sims[node.name] = sim
			}
		}
	}
	if len(matched) == 0 {
		return diagnosis{}
	}
	sort.SliceStable(matched, func(i, j int) bool { return sims[matched[i]] > sims[matched[j]] })

	graph := make(map[int]float64)
	symptomsFor := make(map[int][]string)
	var order []int

	for _, name := range matched {
		for _, di := range r.adjacency[name] {
			if _, ok := graph[di]; !ok {
				order = append(order, di)
			}
			graph[di] += sims[name]
			symptomsFor[di] = append(symptomsFor[di], name)
		}
	}
	for di := range graph {
		graph[di] /= float64(r.diseases[di].distinct)
	}

	queryTokens := stemmedTokens(query)

	candidates := make([]candidate, 0, len(order))
	for _, di := range order {
		d := r.diseases[di]

		var sum float64
		for _, symptomTokens := range d.tokens {
			sum += coverage(symptomTokens, queryTokens)
		}
		vector := sum / float64(len(d.tokens))

		candidates = append(candidates, candidate{
			Name:            d.Name,
			Score:           r.alpha*graph[di] + (1-r.alpha)*vector,
			MatchedSymptoms: symptomsFor[di],
			TotalSymptoms:   d.distinct,
			Precautions:     d.Precautions,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > r.topK {
		candidates = candidates[:r.topK]
	}
	return diagnosis{Candidates: candidates}
}
