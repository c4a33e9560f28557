// Package scoring maps questionnaire responses to clinical screening scores.
//
// The scorers are total, pure functions: any response slice (including nil)
// produces a result, unknown question ids and out-of-range answers contribute
// nothing, and the input is never modified.
package scoring

import (
	"math"

	"github.com/harrison/neuroscreen/internal/questions"
)

// Response is a single answer: the chosen option position for a question.
type Response struct {
	QuestionID    string `json:"questionId" validate:"required"`
	ResponseIndex int    `json:"responseIndex" validate:"gte=0"`
}

// RiskLevel is the ordered risk tier used to select interpretation text.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Rank orders risk levels: low < moderate < high.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	default:
		return -1
	}
}

// Outcome is the overall screening result.
type Outcome string

const (
	Positive Outcome = "positive"
	Negative Outcome = "negative"
)

func outcome(positive bool) Outcome {
	if positive {
		return Positive
	}
	return Negative
}

// latest collapses a response slice to one answer per question id, keeping
// the last one. Order of first appearance is preserved.
func latest(responses []Response) []Response {
	pos := make(map[string]int, len(responses))
	out := make([]Response, 0, len(responses))
	for _, r := range responses {
		if i, ok := pos[r.QuestionID]; ok {
			out[i] = r
			continue
		}
		pos[r.QuestionID] = len(out)
		out = append(out, r)
	}
	return out
}

// scoringMatch resolves a response against the bank. It returns the question
// and whether the answer counts toward the score.
func scoringMatch(instrument questions.Instrument, r Response) (questions.Question, bool, bool) {
	q, ok := questions.Find(instrument, r.QuestionID)
	if !ok {
		return questions.Question{}, false, false
	}
	return q, q.ValidOption(r.ResponseIndex) && q.IsScoring(r.ResponseIndex), true
}

// UnknownResponses returns the responses whose question id is not part of the
// instrument's bank or whose answer index is not a valid option.
func UnknownResponses(instrument questions.Instrument, responses []Response) []Response {
	var unknown []Response
	for _, r := range responses {
		q, ok := questions.Find(instrument, r.QuestionID)
		if !ok || !q.ValidOption(r.ResponseIndex) {
			unknown = append(unknown, r)
		}
	}
	return unknown
}

// Percentage converts a score into a rounded percentage of outOf.
func Percentage(score, outOf int) int {
	if outOf <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(outOf) * 100))
}
