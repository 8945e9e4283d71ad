package classifier

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func testVectorizer() *Vectorizer {
	return &Vectorizer{
		Version:      ArtifactVersion,
		Lowercase:    true,
		TokenPattern: defaultTokenPattern,
		StopWords:    []string{"and", "with"},
		Vocabulary:   map[string]int{"python": 0, "figma": 1, "sql": 2, "and": 3},
		IDF:          []float64{1.5, 2, 1, 1},
		Norm:         "l2",
	}
}

func testBayes() *NaiveBayes {
	return &NaiveBayes{
		Version:       ArtifactVersion,
		Classes:       []string{"Data Scientist", "UX Designer"},
		ClassLogPrior: []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{
			{math.Log(0.6), math.Log(0.05), math.Log(0.3), math.Log(0.05)},
			{math.Log(0.1), math.Log(0.7), math.Log(0.1), math.Log(0.1)},
		},
	}
}

func TestModelPredict(t *testing.T) {
	t.Parallel()

	model, err := NewModel(testVectorizer(), testBayes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		text   string
		expect string
	}{
		{text: "Python and SQL with pandas", expect: "Data Scientist"},
		{text: "Prototyping in FIGMA", expect: "UX Designer"},
		{text: "", expect: "Data Scientist"},
	}

	for _, tt := range tests {
		got, err := model.Predict(tt.text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.expect {
			t.Fatalf("expected %q for %q, got %q", tt.expect, tt.text, got)
		}
	}
}

func TestVectorizerTransform(t *testing.T) {
	t.Parallel()

	v := testVectorizer()
	if err := v.prepare(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x := v.Transform("Python python SQL and")
	if _, ok := x[3]; ok {
		t.Fatal("stop words must be ignored")
	}

	// tf-idf: python 2*1.5=3, sql 1*1 = 1, l2 norm sqrt(10)
	norm := math.Sqrt(10)
	if math.Abs(x[0]-3/norm) > 1e-9 || math.Abs(x[2]-1/norm) > 1e-9 {
		t.Fatalf("unexpected weights: %v", x)
	}

	v.SublinearTF = true
	x = v.Transform("python python")
	if math.Abs(x[0]-1) > 1e-9 {
		t.Fatalf("expected a unit vector, got %v", x)
	}
}

func TestNewModelValidatesShapes(t *testing.T) {
	t.Parallel()

	v := testVectorizer()
	v.IDF = v.IDF[:2]
	if _, err := NewModel(v, testBayes()); err == nil {
		t.Fatal("expected vocabulary/idf mismatch error")
	}

	nb := testBayes()
	nb.FeatureLogProb[1] = nb.FeatureLogProb[1][:3]
	if _, err := NewModel(testVectorizer(), nb); err == nil {
		t.Fatal("expected feature count mismatch error")
	}

	nb = testBayes()
	nb.ClassLogPrior = nb.ClassLogPrior[:1]
	if _, err := NewModel(testVectorizer(), nb); err == nil {
		t.Fatal("expected prior count mismatch error")
	}
}

func writeArtifacts(t *testing.T, v *Vectorizer, nb *NaiveBayes) Paths {
	t.Helper()

	dir := t.TempDir()
	paths := Paths{
		Vectorizer: filepath.Join(dir, "vectorizer.json"),
		Model:      filepath.Join(dir, "model.json"),
	}
	for path, artifact := range map[string]any{paths.Vectorizer: v, paths.Model: nb} {
		data, err := json.Marshal(artifact)
		if err != nil {
			t.Fatalf("encode artifact: %v", err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatalf("write artifact: %v", err)
		}
	}
	return paths
}

func TestLoad(t *testing.T) {
	t.Parallel()

	model, err := Load(writeArtifacts(t, testVectorizer(), testBayes()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := model.Predict("figma"); got != "UX Designer" {
		t.Fatalf("unexpected prediction: %q", got)
	}

	old := testBayes()
	old.Version = 0
	if _, err := Load(writeArtifacts(t, testVectorizer(), old)); err == nil {
		t.Fatal("expected version mismatch error")
	}

	if _, err := Load(Paths{}); err == nil {
		t.Fatal("expected error for unconfigured paths")
	}
}

func TestLazyLoadsOnce(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	lazy := newLazy(func() (*Model, error) {
		loads.Add(1)
		return NewModel(testVectorizer(), testBayes())
	}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, err := lazy.Predict("python"); err != nil || got != "Data Scientist" {
				t.Errorf("unexpected prediction %q, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if n := loads.Load(); n != 1 {
		t.Fatalf("expected a single load, got %d", n)
	}
}

func TestLazyCachesLoadError(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	lazy := newLazy(func() (*Model, error) {
		loads.Add(1)
		return nil, os.ErrNotExist
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := lazy.Predict("python")
		if !errors.Is(err, ErrUnavailable) || !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected wrapped unavailable error, got %v", err)
		}
	}
	if n := loads.Load(); n != 1 {
		t.Fatalf("expected a single load attempt, got %d", n)
	}
}

func TestNewLazyMissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lazy := NewLazy(Paths{Vectorizer: filepath.Join(dir, "v.json"), Model: filepath.Join(dir, "m.json")}, nil)
	if _, err := lazy.Predict("anything"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
