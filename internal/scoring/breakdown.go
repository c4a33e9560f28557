package scoring

import "github.com/harrison/neuroscreen/internal/questions"

const notAnswered = "Not answered"

// ItemDetail describes how one question was answered.
type ItemDetail struct {
	Number         int    `json:"questionNumber"`
	QuestionID     string `json:"questionId"`
	Question       string `json:"question"`
	Response       string `json:"response"`
	IsScoring      bool   `json:"isScoring"`
	ScoringPattern string `json:"scoringPattern,omitempty"`
}

// ADHDBreakdown holds per-question details split by part.
type ADHDBreakdown struct {
	PartA []ItemDetail `json:"partA"`
	PartB []ItemDetail `json:"partB"`
}

// BreakdownADHD explains every ASRS item against the given responses.
func BreakdownADHD(responses []Response) ADHDBreakdown {
	var b ADHDBreakdown
	for _, d := range breakdown(questions.ADHD, responses) {
		q, _ := questions.Find(questions.ADHD, d.QuestionID)
		if q.Part == questions.PartA {
			b.PartA = append(b.PartA, d)
		} else {
			b.PartB = append(b.PartB, d)
		}
	}
	return b
}

// BreakdownAutism explains every AQ-10 item, including its scoring pattern.
func BreakdownAutism(responses []Response) []ItemDetail {
	return breakdown(questions.Autism, responses)
}

func breakdown(instrument questions.Instrument, responses []Response) []ItemDetail {
	answers := make(map[string]int, len(responses))
	for _, r := range responses {
		answers[r.QuestionID] = r.ResponseIndex
	}

	bank := questions.List(instrument)
	details := make([]ItemDetail, 0, len(bank))
	for i, q := range bank {
		d := ItemDetail{
			Number:         i + 1,
			QuestionID:     q.ID,
			Question:       q.Text,
			Response:       notAnswered,
			ScoringPattern: q.ScoringPattern(),
		}
		if idx, ok := answers[q.ID]; ok && q.ValidOption(idx) {
			d.Response = q.OptionLabel(idx)
			d.IsScoring = q.IsScoring(idx)
		}
		details = append(details, d)
	}
	return details
}
