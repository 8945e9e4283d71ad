package classifier

import (
	"errors"
	"fmt"
	"math"
)

// NaiveBayes is a fitted multinomial naive Bayes model.
type NaiveBayes struct {
	Version        int         `json:"version"`
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

func (nb *NaiveBayes) validate(features int) error {
	if len(nb.Classes) == 0 {
		return errors.New("model has no classes")
	}
	if len(nb.ClassLogPrior) != len(nb.Classes) {
		return fmt.Errorf("%d classes but %d priors", len(nb.Classes), len(nb.ClassLogPrior))
	}
	if len(nb.FeatureLogProb) != len(nb.Classes) {
		return fmt.Errorf("%d classes but %d feature rows", len(nb.Classes), len(nb.FeatureLogProb))
	}
	for i, row := range nb.FeatureLogProb {
		if len(row) != features {
			return fmt.Errorf("class %q has %d features, vectorizer has %d", nb.Classes[i], len(row), features)
		}
	}
	return nil
}

// Predict returns the class with the highest joint log likelihood for x.
func (nb *NaiveBayes) Predict(x map[int]float64) string {
	best, bestScore := 0, math.Inf(-1)
	for c, prior := range nb.ClassLogPrior {
		score := prior
		row := nb.FeatureLogProb[c]
		for index, weight := range x {
			score += weight * row[index]
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return nb.Classes[best]
}
