package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

func TestScorer_LexicalPassthrough(t *testing.T) {
	scorer := NewScorer()

	for _, raw := range []float64{0, 0.25, 0.5, 1} {
		c := domain.Candidate{RawScore: raw}
		assert.InDelta(t, raw, scorer.Score(c), 1e-9)
	}
}

func TestScorer_SemanticNormalisation(t *testing.T) {
	scorer := NewScorer()

	cases := []struct {
		raw  float64
		want float64
	}{
		{-1, 0},
		{0, 0.5},
		{1, 1},
		{0.5, 0.75},
	}

	for _, tc := range cases {
		c := domain.Candidate{RawScore: tc.raw, Semantic: true}
		assert.InDelta(t, tc.want, scorer.Score(c), 1e-9)
	}
}

func TestScorer_ClampsOutOfRange(t *testing.T) {
	scorer := NewScorer()

	assert.InDelta(t, 1.0, scorer.Score(domain.Candidate{RawScore: 1.7}), 1e-9)
	assert.InDelta(t, 0.0, scorer.Score(domain.Candidate{RawScore: -0.3}), 1e-9)
}

func TestScorer_RecencyBoost(t *testing.T) {
	scorer := NewScorer()

	boosted := domain.Candidate{
		RawScore: 0.6,
		Metadata: map[string]any{"recencyBoost": 0.03},
	}
	assert.InDelta(t, 0.63, scorer.Score(boosted), 1e-9)

	// Boost is capped.
	excessive := domain.Candidate{
		RawScore: 0.6,
		Metadata: map[string]any{"recencyBoost": 0.4},
	}
	assert.InDelta(t, 0.65, scorer.Score(excessive), 1e-9)

	// Boost never pushes above 1.
	top := domain.Candidate{
		RawScore: 0.99,
		Metadata: map[string]any{"recencyBoost": 0.05},
	}
	assert.InDelta(t, 1.0, scorer.Score(top), 1e-9)
}
