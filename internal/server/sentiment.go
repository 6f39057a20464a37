package server

import govader "github.com/jonreiter/govader"

// SentimentScorer maps free text to a compound polarity score in [-1, 1].
type SentimentScorer interface {
	Score(text string) float64
}

type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() SentimentScorer {
	return &vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *vaderScorer) Score(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}
