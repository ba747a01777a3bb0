package detector

import "sort"

// Suppress runs greedy non-maximum suppression. Candidates are visited in
// descending confidence (ties keep input order) and every later box whose IoU
// with a kept box exceeds threshold is dropped. When classAware is false boxes
// of different classes suppress each other.
func Suppress(candidates []Candidate, threshold float64, classAware bool) []Candidate {
	n := len(candidates)
	if n == 0 {
		return []Candidate{}
	}

	sorted := append([]Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := make([]Candidate, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := sorted[i]
		kept = append(kept, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if classAware && sorted[j].ClassID != anchor.ClassID {
				continue
			}
			if IoU(anchor.Box, sorted[j].Box) > threshold {
				used[j] = true
			}
		}
	}

	return kept
}
