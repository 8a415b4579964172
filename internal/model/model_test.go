package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"skipgram-query/internal/vocab"
	"skipgram-query/internal/weights"
)

// newTestModel builds the 4-word scenario model: D=2, projection and output
// both [[1,0],[0,1],[1,1],[-1,-1]].
func newTestModel(t *testing.T) *Model {
	t.Helper()
	v, err := vocab.New([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	data := []float64{1, 0, 0, 1, 1, 1, -1, -1}
	m, err := New(v,
		mat.NewDense(4, 2, append([]float64(nil), data...)),
		mat.NewDense(4, 2, append([]float64(nil), data...)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestEvaluateScenario(t *testing.T) {
	m := newTestModel(t)

	// Embedding of "c" is row 2, scores are [1, 1, 2, -2], and the
	// normalized distribution follows from exp(score - 2).
	embedding, err := m.Projection(2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(embedding, []float64{1, 1}) {
		t.Fatalf("Projection(2) = %v, want [1 1]", embedding)
	}

	dist, err := m.OutputDistribution(embedding)
	if err != nil {
		t.Fatal(err)
	}
	// exp(-1)+exp(-1)+1+exp(-4), normalized.
	z := 2*math.Exp(-1) + 1 + math.Exp(-4)
	want := []float64{math.Exp(-1) / z, math.Exp(-1) / z, 1 / z, math.Exp(-4) / z}
	for i := range want {
		if math.Abs(dist[i]-want[i]) > 1e-9 {
			t.Errorf("dist[%d] = %v, want %v", i, dist[i], want[i])
		}
	}

	top, err := m.Evaluate("c", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Word != "c" {
		t.Fatalf("Evaluate(c, 1) = %v, want [{c ...}]", top)
	}
	if math.Abs(top[0].Probability-0.5701) > 1e-3 {
		t.Errorf("P(c) = %v, want ~0.5701", top[0].Probability)
	}
}

func TestNormalizationAndPositivity(t *testing.T) {
	m := newTestModel(t)

	embeddings := [][]float64{
		{0, 0},
		{1, 1},
		{-3.5, 2.25},
		{100, -100},
	}
	for _, e := range embeddings {
		dist, err := m.OutputDistribution(e)
		if err != nil {
			t.Fatalf("OutputDistribution(%v) error = %v", e, err)
		}
		var sum float64
		for i, p := range dist {
			if p <= 0 || p >= 1 {
				t.Errorf("embedding %v: dist[%d] = %v, want in (0, 1)", e, i, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("embedding %v: sum = %v, want 1 within 1e-6", e, sum)
		}
	}
}

func TestSoftmaxOverflowGuard(t *testing.T) {
	// Scores around 1000 overflow a naive exp; max subtraction keeps the
	// distribution finite and normalized.
	v, err := vocab.New([]string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	m, err := New(v,
		mat.NewDense(2, 1, []float64{1000, 999}),
		mat.NewDense(2, 1, []float64{1000, 999}))
	if err != nil {
		t.Fatal(err)
	}
	dist, err := m.OutputDistribution([]float64{1})
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range dist {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("dist[%d] = %v, want finite", i, p)
		}
	}
	// softmax([1000, 999]) == softmax([1, 0])
	want := 1 / (1 + math.Exp(-1))
	if math.Abs(dist[0]-want) > 1e-9 {
		t.Errorf("dist[0] = %v, want %v", dist[0], want)
	}
	if math.Abs(dist[0]+dist[1]-1) > 1e-6 {
		t.Errorf("sum = %v, want 1", dist[0]+dist[1])
	}
}

func TestProjectionEquivalence(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < m.VocabSize(); i++ {
		direct, err := m.Projection(i)
		if err != nil {
			t.Fatal(err)
		}
		naive, err := m.ProjectionOneHot(i)
		if err != nil {
			t.Fatal(err)
		}
		for j := range direct {
			if math.Abs(direct[j]-naive[j]) > 1e-9 {
				t.Errorf("index %d dim %d: row lookup %v, one-hot multiply %v", i, j, direct[j], naive[j])
			}
		}
	}
}

func TestProjectionReturnsCopy(t *testing.T) {
	m := newTestModel(t)
	e, err := m.Projection(0)
	if err != nil {
		t.Fatal(err)
	}
	e[0] = 42
	again, err := m.Projection(0)
	if err != nil {
		t.Fatal(err)
	}
	if again[0] == 42 {
		t.Error("Projection aliases the weight storage; expected a copy")
	}
}

func TestTopKOrderingAndTies(t *testing.T) {
	m := newTestModel(t)

	// Indices 0 and 1 tie; index 2 wins. Expected order: 2, then 0 before 1.
	dist := []float64{0.2, 0.2, 0.5, 0.1}
	preds, err := m.TopK(dist, 4)
	if err != nil {
		t.Fatal(err)
	}
	wantWords := []string{"c", "a", "b", "d"}
	for i, w := range wantWords {
		if preds[i].Word != w {
			t.Errorf("preds[%d].Word = %q, want %q", i, preds[i].Word, w)
		}
	}
	for i := 1; i < len(preds); i++ {
		if preds[i].Probability > preds[i-1].Probability {
			t.Errorf("probabilities not non-increasing at %d: %v > %v", i, preds[i].Probability, preds[i-1].Probability)
		}
	}
}

func TestTopKInvalidArguments(t *testing.T) {
	m := newTestModel(t)
	dist := []float64{0.25, 0.25, 0.25, 0.25}

	if _, err := m.TopK(dist, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("k=0: expected ErrInvalidInput, got %v", err)
	}
	if _, err := m.TopK(dist, 5); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("k>V: expected ErrInvalidInput, got %v", err)
	}
	if _, err := m.TopK([]float64{0.5, 0.5}, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short distribution: expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	m := newTestModel(t)
	first, err := m.Evaluate("c", 4)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Evaluate("c", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Evaluate differs:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestEvaluateUnknownWord(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.Evaluate("zzz", 1); !errors.Is(err, ErrUnknownWord) {
		t.Errorf("expected ErrUnknownWord, got %v", err)
	}
}

func TestOutputDistributionDimensionMismatch(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.OutputDistribution([]float64{1, 2, 3}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewMalformedWeights(t *testing.T) {
	v, err := vocab.New([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name               string
		projection, output *mat.Dense
	}{
		{
			name:       "vocab size mismatch",
			projection: mat.NewDense(3, 2, nil),
			output:     mat.NewDense(2, 2, nil),
		},
		{
			name:       "embedding dimension disagreement",
			projection: mat.NewDense(2, 2, nil),
			output:     mat.NewDense(2, 3, nil),
		},
		{
			name:       "non-finite value",
			projection: mat.NewDense(2, 2, []float64{1, math.NaN(), 0, 1}),
			output:     mat.NewDense(2, 2, nil),
		},
		{
			name:       "infinite value in output",
			projection: mat.NewDense(2, 2, nil),
			output:     mat.NewDense(2, 2, []float64{0, math.Inf(1), 0, 0}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(v, tt.projection, tt.output); !errors.Is(err, ErrMalformedWeights) {
				t.Errorf("expected ErrMalformedWeights, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, VocabFile), []byte(`{"a":0,"b":1,"c":2,"d":3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	data := []float64{1, 0, 0, 1, 1, 1, -1, -1}
	if err := weights.WriteFile(filepath.Join(dir, ProjectionFile), mat.NewDense(4, 2, data)); err != nil {
		t.Fatal(err)
	}
	if err := weights.WriteFile(filepath.Join(dir, OutputFile), mat.NewDense(4, 2, data)); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.VocabSize() != 4 || m.Dim() != 2 {
		t.Fatalf("loaded model V=%d D=%d, want 4 and 2", m.VocabSize(), m.Dim())
	}
	top, err := m.Evaluate("c", 1)
	if err != nil {
		t.Fatal(err)
	}
	if top[0].Word != "c" {
		t.Errorf("Evaluate(c, 1) = %v, want c first", top)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing model directory")
	}
}
