package triage

import "sort"

// hit is one symptom match above the threshold.
type hit struct {
	disease int
	symptom int
	score   float64
}

// diagnoseVector matches each sentence against every symptom and scores
// diseases by how many of their symptoms were reported, weighted by match
// similarity and discounted by how many symptoms the disease has overall.
func (r *Responder) diagnoseVector(query string) diagnosis {
	hits := r.matchSentences(splitSentences(query))
	if len(hits) == 0 {
		return diagnosis{}
	}

	names := make(map[string]bool)
	for _, h := range hits {
		names[r.diseases[h.disease].Symptoms[h.symptom]] = true
	}
	totalMatched := len(names)

	type group struct {
		matched []string
		score   float64
	}
	byDisease := make(map[int]*group)
	var order []int

	for _, h := range hits {
		g := byDisease[h.disease]
		if g == nil {
			g = &group{}
			byDisease[h.disease] = g
			order = append(order, h.disease)
		}
		d := r.diseases[h.disease]
		base := 1.0/float64(len(d.Symptoms)) + 1.0/float64(totalMatched)
		g.score += base * h.score
		g.matched = append(g.matched, d.Symptoms[h.symptom])
	}

	candidates := make([]candidate, 0, len(order))
	for _, di := range order {
		d := r.diseases[di]
		g := byDisease[di]
		candidates = append(candidates, candidate{
			Name:            d.Name,
			Score:           g.score,
			MatchedSymptoms: g.matched,
			TotalSymptoms:   len(d.Symptoms),
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

// matchSentences returns every (disease, symptom) pair some sentence matched,
// keeping the best similarity per pair, sorted by similarity.
func (r *Responder) matchSentences(sentences []string) []hit {
	var hits []hit
	index := make(map[[2]int]int)

	for _, sentence := range sentences {
		tokens := stemmedTokens(sentence)
		for di, d := range r.diseases {
			for si, symptomTokens := range d.tokens {
				sim := coverage(symptomTokens, tokens)
				if sim < r.threshold {
					continue
				}
				key := [2]int{di, si}
				if pos, ok := index[key]; ok {
					if sim > hits[pos].score {
						hits[pos].score = sim
					}
					continue
				}
				index[key] = len(hits)
				hits = append(hits, hit{disease: di, symptom: si, score: sim})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	return hits
}
