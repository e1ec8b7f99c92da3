// Scentmatch - Fragrance Catalog Matching and Recommendation
// Copyright 2026 Scentmatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package matcher

import (
	"errors"
	"math"
)

// ErrEmptyCorpus is returned by FitVectorSpace when there are no
// documents to fit on.
var ErrEmptyCorpus = errors.New("vector space: empty corpus")

// Vector is a sparse document vector keyed by vocabulary index. Vectors
// produced by VectorSpace are L2-normalized, so cosine similarity
// reduces to a dot product.
type Vector map[int]float64

// VectorSpace is a TF-IDF model over unigrams and adjacent-pair bigrams.
// It is immutable after fit: Transform uses only the fitted vocabulary
// and document-frequency statistics, and terms outside the vocabulary
// are ignored.
type VectorSpace struct {
	vocabulary map[string]int
	idf        []float64
	numDocs    int
}

// FitVectorSpace builds a vector space from the token sequences of the
// catalog corpus. IDF uses the smooth formulation ln((1+n)/(1+df)) + 1,
// which keeps terms present in every document at a positive weight.
func FitVectorSpace(docs [][]string) (*VectorSpace, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	vocabulary := make(map[string]int)
	df := make([]int, 0, 256)

	for _, tokens := range docs {
		seen := make(map[int]struct{})
		for _, gram := range ngrams(tokens) {
			idx, ok := vocabulary[gram]
			if !ok {
				idx = len(vocabulary)
				vocabulary[gram] = idx
				df = append(df, 0)
			}
			if _, dup := seen[idx]; !dup {
				df[idx]++
				seen[idx] = struct{}{}
			}
		}
	}

	n := len(docs)
	idf := make([]float64, len(df))
	for i, count := range df {
		idf[i] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	return &VectorSpace{
		vocabulary: vocabulary,
		idf:        idf,
		numDocs:    n,
	}, nil
}

// Transform converts a token sequence into a normalized sparse TF-IDF
// vector using the fitted statistics. Out-of-vocabulary grams contribute
// nothing. An empty input yields an empty (zero) vector.
func (vs *VectorSpace) Transform(tokens []string) Vector {
	vec := make(Vector)
	for _, gram := range ngrams(tokens) {
		if idx, ok := vs.vocabulary[gram]; ok {
			vec[idx]++
		}
	}
	for idx := range vec {
		vec[idx] *= vs.idf[idx]
	}
	normalize(vec)
	return vec
}

// VocabularySize returns the number of fitted unigram and bigram terms.
func (vs *VectorSpace) VocabularySize() int {
	return len(vs.vocabulary)
}

// DocumentCount returns the corpus size the space was fitted on.
func (vs *VectorSpace) DocumentCount() int {
	return vs.numDocs
}

// ngrams expands a token sequence into unigrams plus adjacent-pair
// bigrams, preserving order.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	grams := make([]string, 0, 2*len(tokens)-1)
	grams = append(grams, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}
	return grams
}

// normalize scales a vector to unit L2 length in place. Zero vectors are
// left untouched.
func normalize(v Vector) {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for idx := range v {
		v[idx] /= norm
	}
}

// Dot returns the dot product of two sparse vectors. For vectors
// produced by Transform this equals their cosine similarity.
func Dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, w := range a {
		if other, ok := b[idx]; ok {
			sum += w * other
		}
	}
	return sum
}
