package tts

import (
	"fmt"
	"strings"

	"github.com/harrison/neuroscreen/internal/questionnaire"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
)

// Speaker is anything that can say a sentence.
type Speaker interface {
	Speak(text string)
}

// Announcer turns questionnaire views and results into spoken sentences.
type Announcer struct {
	client Speaker
}

// NewAnnouncer creates an Announcer speaking through client.
func NewAnnouncer(client Speaker) *Announcer {
	return &Announcer{
		client: client,
	}
}

// Question reads the current question and its numbered options.
func (a *Announcer) Question(v questionnaire.View) {
	if v.Loading || v.Question.ID == "" {
		return
	}
	choices := make([]string, len(v.Question.Options))
	for i, opt := range v.Question.Options {
		choices[i] = fmt.Sprintf("%d for %s", i, opt)
	}
	msg := fmt.Sprintf("Question %d of %d. %s Answer %s.",
		v.Index+1, v.Total, sentence(v.Question.Text), joinChoices(choices))
	a.client.Speak(msg)
}

// Result reads the headline of a scored submission.
func (a *Announcer) Result(i questions.Instrument, responses []scoring.Response) {
	var msg string
	switch i {
	case questions.ADHD:
		res := scoring.ScoreADHD(responses)
		maxA, _, _ := scoring.ADHDMax()
		msg = fmt.Sprintf("Screening complete. Part A score %d of %d. %s likelihood.",
			res.PartAScore, maxA, capitalize(string(res.RiskLevel)))
	case questions.Autism:
		res := scoring.ScoreAutism(responses)
		msg = fmt.Sprintf("Screening complete. Score %d of %d. %s likelihood.",
			res.TotalScore, res.MaxScore, capitalize(string(res.RiskLevel)))
	default:
		return
	}
	a.client.Speak(msg + " This is a screening tool, not a diagnosis.")
}

// joinChoices creates a spoken list ("a, b, or c").
func joinChoices(choices []string) string {
	switch len(choices) {
	case 0:
		return ""
	case 1:
		return choices[0]
	case 2:
		return choices[0] + " or " + choices[1]
	}
	return strings.Join(choices[:len(choices)-1], ", ") + ", or " + choices[len(choices)-1]
}

func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s[len(s)-1:], ".?!") {
		return s
	}
	return s + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
