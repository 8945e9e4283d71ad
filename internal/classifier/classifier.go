// Package classifier predicts a job role from resume text with a TF-IDF
// vectorizer and a multinomial naive Bayes model trained offline.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
)

// ArtifactVersion is the artifact format this package reads.
const ArtifactVersion = 1

// ErrUnavailable is returned when the model artifacts could not be loaded.
var ErrUnavailable = errors.New("classifier unavailable")

// Predictor labels a document.
type Predictor interface {
	Predict(text string) (string, error)
}

// Paths locates the two artifact files.
type Paths struct {
	Vectorizer string `mapstructure:"vectorizer"`
	Model      string `mapstructure:"model"`
}

// Model is a loaded vectorizer and classifier pair. It is safe for
// concurrent use.
type Model struct {
	vectorizer *Vectorizer
	bayes      *NaiveBayes
}

// Load reads and validates both artifacts.
func Load(paths Paths) (*Model, error) {
	vectorizer := &Vectorizer{}
	if err := readArtifact(paths.Vectorizer, vectorizer, func() int { return vectorizer.Version }); err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}
	bayes := &NaiveBayes{}
	if err := readArtifact(paths.Model, bayes, func() int { return bayes.Version }); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	return NewModel(vectorizer, bayes)
}

// NewModel checks that the vectorizer and classifier fit together.
func NewModel(vectorizer *Vectorizer, bayes *NaiveBayes) (*Model, error) {
	if err := vectorizer.prepare(); err != nil {
		return nil, fmt.Errorf("invalid vectorizer: %w", err)
	}
	if err := bayes.validate(len(vectorizer.IDF)); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &Model{vectorizer: vectorizer, bayes: bayes}, nil
}

func readArtifact(path string, target any, version func() int) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if v := version(); v != ArtifactVersion {
		return fmt.Errorf("%s has version %d, expected %d", path, v, ArtifactVersion)
	}
	return nil
}

// Predict returns the most likely role for text.
func (m *Model) Predict(text string) (string, error) {
	return m.bayes.Predict(m.vectorizer.Transform(text)), nil
}

// Classes returns the labels the model can predict.
func (m *Model) Classes() []string {
	return append([]string(nil), m.bayes.Classes...)
}

// Lazy loads the model on first use. Concurrent first calls wait for a single
// load; afterwards the model or the load error is reused without locking.
type Lazy struct {
	once   sync.Once
	load   func() (*Model, error)
	model  *Model
	err    error
	logger *zap.Logger
}

// NewLazy returns a predictor that loads the artifacts at paths when first
// asked for a prediction.
func NewLazy(paths Paths, log *zap.Logger) *Lazy {
	return newLazy(func() (*Model, error) { return Load(paths) }, log)
}

func newLazy(load func() (*Model, error), log *zap.Logger) *Lazy {
	return &Lazy{load: load, logger: logger.OrNop(log)}
}

// Predict implements Predictor. It returns ErrUnavailable when loading failed.
func (l *Lazy) Predict(text string) (string, error) {
	l.once.Do(func() {
		l.model, l.err = l.load()
		if l.err != nil {
			l.logger.Warn("classifier artifacts not loaded", zap.Error(l.err))
			return
		}
		l.logger.Debug("classifier artifacts loaded", zap.Strings("classes", l.model.Classes()))
	})

	if l.err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, l.err)
	}
	return l.model.Predict(text)
}
