// Package model evaluates the feed-forward pass of a pre-trained skip-gram
// word-embedding model: word index -> embedding row -> output scores ->
// softmax distribution -> top-k context words.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"skipgram-query/internal/vocab"
)

var (
	// ErrUnknownWord is returned when the query word is not in the vocabulary.
	ErrUnknownWord = errors.New("model: word not in vocabulary")

	// ErrInvalidInput is returned on a vector/matrix dimension mismatch
	// or an out-of-range index or k.
	ErrInvalidInput = errors.New("model: invalid input")

	// ErrMalformedWeights is returned at construction when the weight
	// matrices disagree on shape or contain non-finite values.
	ErrMalformedWeights = errors.New("model: malformed weights")
)

// Prediction pairs an output word with its softmax probability.
type Prediction struct {
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
}

// Evaluator is the query contract served by the HTTP and NATS surfaces.
type Evaluator interface {
	Evaluate(word string, k int) ([]Prediction, error)
}

// Model holds a loaded vocabulary and the two [V, D] weight matrices.
// It is immutable after construction, so concurrent Evaluate calls need
// no locking.
type Model struct {
	vocab      *vocab.Vocabulary
	projection *mat.Dense // V x D, row i is the embedding of word i
	output     *mat.Dense // V x D, used transposed during scoring
	dim        int
}

// New validates the weight matrices against the vocabulary and builds a
// Model. Both matrices must be [V, D] with V equal to the vocabulary size,
// and every entry must be finite.
func New(v *vocab.Vocabulary, projection, output *mat.Dense) (*Model, error) {
	if v == nil || projection == nil || output == nil {
		return nil, fmt.Errorf("%w: nil vocabulary or matrix", ErrMalformedWeights)
	}
	pr, pc := projection.Dims()
	or, oc := output.Dims()
	if pr != v.Size() || or != v.Size() {
		return nil, fmt.Errorf("%w: projection %dx%d and output %dx%d for vocabulary of %d words",
			ErrMalformedWeights, pr, pc, or, oc, v.Size())
	}
	if pc != oc {
		return nil, fmt.Errorf("%w: embedding dimension disagreement: projection D=%d, output D=%d",
			ErrMalformedWeights, pc, oc)
	}
	if !finite(projection) || !finite(output) {
		return nil, fmt.Errorf("%w: non-finite value in weight matrix", ErrMalformedWeights)
	}
	return &Model{vocab: v, projection: projection, output: output, dim: pc}, nil
}

func finite(m *mat.Dense) bool {
	for _, v := range m.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// VocabSize returns V.
func (m *Model) VocabSize() int { return m.vocab.Size() }

// Dim returns D, the embedding dimension.
func (m *Model) Dim() int { return m.dim }

// Vocab returns the loaded vocabulary.
func (m *Model) Vocab() *vocab.Vocabulary { return m.vocab }

// Projection returns the embedding for word index i: a copy of row i of the
// projection matrix. The layer is pure coordinate selection, no activation
// and no bias, so the returned values are exactly the stored weights.
func (m *Model) Projection(i int) ([]float64, error) {
	if i < 0 || i >= m.vocab.Size() {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidInput, i, m.vocab.Size())
	}
	return mat.Row(nil, i, m.projection), nil
}

// ProjectionOneHot computes the same embedding as Projection by
// materializing a one-hot row vector and multiplying it against the full
// projection matrix. It exists for the walkthrough surface and the
// equivalence test; query paths use Projection.
func (m *Model) ProjectionOneHot(i int) ([]float64, error) {
	if i < 0 || i >= m.vocab.Size() {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrInvalidInput, i, m.vocab.Size())
	}
	oneHot := mat.NewDense(1, m.vocab.Size(), nil)
	oneHot.Set(0, i, 1)

	var product mat.Dense
	product.Mul(oneHot, m.projection)
	return mat.Row(nil, 0, &product), nil
}

// OutputDistribution scores the embedding against every output-matrix row
// and softmax-normalizes the scores. The result has length V, every entry
// in (0, 1), and sums to 1 within floating-point tolerance.
func (m *Model) OutputDistribution(embedding []float64) ([]float64, error) {
	if len(embedding) != m.dim {
		return nil, fmt.Errorf("%w: embedding length %d, want %d", ErrInvalidInput, len(embedding), m.dim)
	}
	e := mat.NewVecDense(m.dim, embedding)
	scores := mat.NewVecDense(m.vocab.Size(), nil)
	scores.MulVec(m.output, e)
	return softmax(scores.RawVector().Data), nil
}

// softmax normalizes in a fresh slice, subtracting the max score before
// exponentiating so large magnitudes cannot overflow exp.
func softmax(scores []float64) []float64 {
	maxScore := floats.Max(scores)
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		v := math.Exp(s - maxScore)
		out[i] = v
		sum += v
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// TopK returns the k highest-probability words in strictly descending
// probability order; equal probabilities order by ascending vocabulary
// index so results are reproducible.
func (m *Model) TopK(dist []float64, k int) ([]Prediction, error) {
	if len(dist) != m.vocab.Size() {
		return nil, fmt.Errorf("%w: distribution length %d, want %d", ErrInvalidInput, len(dist), m.vocab.Size())
	}
	if k <= 0 || k > len(dist) {
		return nil, fmt.Errorf("%w: k=%d with vocabulary of %d words", ErrInvalidInput, k, len(dist))
	}

	order := make([]int, len(dist))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if dist[order[a]] != dist[order[b]] {
			return dist[order[a]] > dist[order[b]]
		}
		return order[a] < order[b]
	})

	preds := make([]Prediction, k)
	for i := 0; i < k; i++ {
		w, err := m.vocab.Word(order[i])
		if err != nil {
			return nil, err
		}
		preds[i] = Prediction{Word: w, Probability: dist[order[i]]}
	}
	return preds, nil
}

// Evaluate runs the full pipeline for one word: vocabulary lookup,
// projection, output distribution, top-k. It is a pure function over the
// loaded state.
func (m *Model) Evaluate(word string, k int) ([]Prediction, error) {
	i, ok := m.vocab.Index(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	embedding, err := m.Projection(i)
	if err != nil {
		return nil, err
	}
	dist, err := m.OutputDistribution(embedding)
	if err != nil {
		return nil, err
	}
	return m.TopK(dist, k)
}
