package services

import (
	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

// metaRecencyBoost is the metadata key adapters use to fold a bounded
// freshness boost into scoring (news posts set it).
const metaRecencyBoost = "recencyBoost"

// maxRecencyBoost caps how much freshness can add to a score.
const maxRecencyBoost = 0.05

// Scorer normalises heterogeneous adapter scores to a common [0,1] scale.
// All normalisation rules live here so they are defined once and testable
// in isolation; adapters only emit raw scores.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns the candidate's normalised relevance in [0,1].
//
// Lexical raw scores are already designed in [0,1] by the adapters and
// pass through. Semantic raw scores are cosine similarities in [-1,1],
// rescaled via (raw+1)/2. A bounded recency boost from candidate
// metadata is added after normalisation.
func (s *Scorer) Score(c domain.Candidate) float64 {
	score := c.RawScore
	if c.Semantic {
		score = (score + 1) / 2
	}

	if boost, ok := c.Metadata[metaRecencyBoost].(float64); ok && boost > 0 {
		if boost > maxRecencyBoost {
			boost = maxRecencyBoost
		}
		score += boost
	}

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
