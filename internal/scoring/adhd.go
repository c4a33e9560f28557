package scoring

import (
	"fmt"

	"github.com/harrison/neuroscreen/internal/questions"
)

const (
	adhdPartAMax = 6
	adhdPartBMax = 12
	adhdTotalMax = adhdPartAMax + adhdPartBMax
)

// ADHDResult is the ASRS-v1.1 score for one submission.
type ADHDResult struct {
	PartAScore      int       `json:"partAScore"`
	PartBScore      int       `json:"partBScore"`
	TotalScore      int       `json:"totalScore"`
	PartAPositive   bool      `json:"partAPositive"`
	OverallResult   Outcome   `json:"overallResult"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Interpretation  string    `json:"interpretation"`
	Recommendations []string  `json:"recommendations"`
}

// ScoreADHD scores responses against the ASRS-v1.1 bank.
func ScoreADHD(responses []Response) ADHDResult {
	var partA, partB int
	for _, r := range latest(responses) {
		q, scoring, known := scoringMatch(questions.ADHD, r)
		if !known || !scoring {
			continue
		}
		switch q.Part {
		case questions.PartA:
			partA++
		case questions.PartB:
			partB++
		}
	}

	positive := partA >= questions.ADHDPartAThreshold
	risk := adhdRisk(partA, partB, positive)

	return ADHDResult{
		PartAScore:      partA,
		PartBScore:      partB,
		TotalScore:      partA + partB,
		PartAPositive:   positive,
		OverallResult:   outcome(positive),
		RiskLevel:       risk,
		Interpretation:  adhdInterpretation(partA, partB, positive, risk),
		Recommendations: adhdRecommendations(positive, risk),
	}
}

// adhdRisk derives the tier. A positive Part A is at least moderate; it is
// high only when Part A >= 5 and Part B >= 8.
func adhdRisk(partA, partB int, positive bool) RiskLevel {
	if positive {
		if partA >= 5 && partB >= 8 {
			return RiskHigh
		}
		return RiskModerate
	}
	if partA >= 2 || partB >= 6 {
		return RiskModerate
	}
	return RiskLow
}

func adhdInterpretation(partA, partB int, positive bool, risk RiskLevel) string {
	switch {
	case positive:
		return fmt.Sprintf("Your responses suggest symptoms highly consistent with ADHD in adults. "+
			"You scored %d out of %d on the most predictive questions (Part A), which meets the threshold for further evaluation. "+
			"The additional symptoms in Part B (%d out of %d) provide further insight into your experiences.",
			partA, adhdPartAMax, partB, adhdPartBMax)
	case risk == RiskModerate:
		return fmt.Sprintf("While you didn't meet the threshold on the most predictive questions (Part A: %d/%d), "+
			"you did report some ADHD-related symptoms (Part B: %d/%d). "+
			"Consider discussing these experiences with a healthcare provider if they impact your daily life.",
			partA, adhdPartAMax, partB, adhdPartBMax)
	default:
		return fmt.Sprintf("Your responses suggest fewer symptoms consistent with ADHD. "+
			"You scored %d out of %d on Part A and %d out of %d on Part B. "+
			"If you continue to have concerns about attention or hyperactivity, consider speaking with a healthcare provider.",
			partA, adhdPartAMax, partB, adhdPartBMax)
	}
}

var adhdBaseRecommendations = []string{
	"Remember that this is a screening tool, not a diagnostic test",
	"Only a qualified healthcare professional can provide an ADHD diagnosis",
}

func adhdRecommendations(positive bool, risk RiskLevel) []string {
	var specific []string
	switch {
	case positive:
		specific = []string{
			"Consider scheduling an appointment with your primary care physician or a mental health professional",
			"Bring these results and the official ASRS-v1.1 questionnaire to your appointment",
			"Keep a symptom diary noting when ADHD symptoms affect your daily activities",
			"Consider asking about comprehensive ADHD assessment options",
		}
	case risk == RiskModerate:
		specific = []string{
			"Consider discussing your concerns with a healthcare provider if symptoms affect your daily life",
			"Keep track of situations where you notice attention or concentration difficulties",
			"Consider lifestyle factors that might affect focus (sleep, stress, diet)",
		}
	default:
		specific = []string{
			"Continue monitoring your symptoms if you have ongoing concerns",
			"Consider other factors that might affect attention and concentration",
			"Speak with a healthcare provider if symptoms worsen or interfere with daily activities",
		}
	}
	return append(specific, adhdBaseRecommendations...)
}

// ADHDMax returns the maximum Part A, Part B and total scores.
func ADHDMax() (partA, partB, total int) {
	return adhdPartAMax, adhdPartBMax, adhdTotalMax
}
