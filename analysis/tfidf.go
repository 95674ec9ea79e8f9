package analysis

import (
	"math"
	"sort"
)

// maxVocabulary caps the TF-IDF vocabulary at the most frequent corpus terms
const maxVocabulary = 1000

// tfidfMatrix is a dense document-term weight matrix with its vocabulary
type tfidfMatrix struct {
	terms []string    // vocabulary, index-aligned with row columns
	rows  [][]float64 // one L2-normalized weight vector per document
}

// vectorize builds a TF-IDF representation over tokenized documents.
// Returns false when the corpus yields an empty vocabulary, which callers
// treat as "no clustering possible" rather than an error.
func vectorize(docs [][]string) (tfidfMatrix, bool) {
	// total term frequency across the corpus decides which terms survive
	// the vocabulary cap
	termTotals := map[string]int{}
	docFreq := map[string]int{}
	for _, doc := range docs {
		seen := map[string]bool{}
		for _, t := range doc {
			termTotals[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}
	if len(termTotals) == 0 {
		return tfidfMatrix{}, false
	}

	terms := make([]string, 0, len(termTotals))
	for t := range termTotals {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termTotals[terms[i]] != termTotals[terms[j]] {
			return termTotals[terms[i]] > termTotals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}
	// column order independent of frequency ties
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		// smoothed IDF keeps terms present in every document from zeroing out
		idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	rows := make([][]float64, len(docs))
	for d, doc := range docs {
		row := make([]float64, len(terms))
		for _, t := range doc {
			if i, ok := index[t]; ok {
				row[i]++
			}
		}
		var sumSquares float64
		for i := range row {
			row[i] *= idf[i]
			sumSquares += row[i] * row[i]
		}
		if sumSquares > 0 {
			length := math.Sqrt(sumSquares)
			for i := range row {
				row[i] /= length
			}
		}
		rows[d] = row
	}

	return tfidfMatrix{terms: terms, rows: rows}, true
}
