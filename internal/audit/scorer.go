package audit

import "i18ncheck/internal/config"

// Scorer applies the linear penalty model. It is a build-time signal, not a
// calibrated quality metric.
type Scorer struct {
	weights config.ScoringConfig
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights config.ScoringConfig) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns max(0, 100 - penalties) for r.
func (s *Scorer) Score(r *LanguageReport) int {
	score := 100 -
		s.weights.MissingWeight*r.MissingCount() -
		s.weights.IdenticalWeight*r.IdenticalCount() -
		s.weights.UntranslatedWeight*r.UntranslatedCount() -
		s.weights.LengthWeight*r.LengthIssueCount()
	if score < 0 {
		return 0
	}
	return score
}
