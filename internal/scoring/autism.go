package scoring

import (
	"fmt"

	"github.com/harrison/neuroscreen/internal/questions"
)

// AutismResult is the AQ-10 score for one submission.
type AutismResult struct {
	TotalScore      int       `json:"totalScore"`
	MaxScore        int       `json:"maxScore"`
	AboveThreshold  bool      `json:"aboveThreshold"`
	OverallResult   Outcome   `json:"overallResult"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	Interpretation  string    `json:"interpretation"`
	Recommendations []string  `json:"recommendations"`
}

// ScoreAutism scores responses against the AQ-10 bank.
func ScoreAutism(responses []Response) AutismResult {
	total := 0
	for _, r := range latest(responses) {
		if _, scoring, known := scoringMatch(questions.Autism, r); known && scoring {
			total++
		}
	}

	above := total >= questions.AutismThreshold
	risk := autismRisk(total, above)
	maxScore := questions.Count(questions.Autism)

	return AutismResult{
		TotalScore:      total,
		MaxScore:        maxScore,
		AboveThreshold:  above,
		OverallResult:   outcome(above),
		RiskLevel:       risk,
		Interpretation:  autismInterpretation(total, maxScore, above, risk),
		Recommendations: autismRecommendations(above, risk),
	}
}

func autismRisk(total int, above bool) RiskLevel {
	if above {
		if total >= 8 {
			return RiskHigh
		}
		return RiskModerate
	}
	if total >= 4 {
		return RiskModerate
	}
	return RiskLow
}

func autismInterpretation(total, maxScore int, above bool, risk RiskLevel) string {
	switch {
	case above && risk == RiskHigh:
		return fmt.Sprintf("Your score of %d out of %d is significantly above the threshold for autism screening. "+
			"This suggests that a comprehensive autism assessment should be strongly considered. "+
			"Many autistic adults find that understanding their neurodivergence helps them better understand themselves and access appropriate support.",
			total, maxScore)
	case above:
		return fmt.Sprintf("Your score of %d out of %d is above the threshold of %d, which suggests that an autism assessment should be considered. "+
			"This screening tool indicates that you may have some traits commonly associated with autism spectrum conditions.",
			total, maxScore, questions.AutismThreshold)
	case risk == RiskModerate:
		return fmt.Sprintf("Your score of %d out of %d is below the screening threshold, but you do show some traits associated with autism. "+
			"If you continue to have questions about autism or if these traits significantly impact your daily life, "+
			"you may still wish to discuss this with a healthcare professional who specializes in autism.",
			total, maxScore)
	default:
		return fmt.Sprintf("Your score of %d out of %d suggests fewer traits typically associated with autism spectrum conditions. "+
			"However, if you have ongoing concerns about autism or social communication challenges, "+
			"you can still discuss these with a healthcare professional.",
			total, maxScore)
	}
}

var autismBaseRecommendations = []string{
	"Remember that this is a screening tool, not a diagnostic assessment",
	"Only qualified professionals can conduct comprehensive autism evaluations",
	"Autism presents differently in different people, especially in adults",
}

var autismPositiveRecommendations = []string{
	"Consider contacting an autism specialist or developmental psychologist",
	"Look for professionals who have experience with adult autism assessments",
	"Consider connecting with autistic communities and support groups",
	"Learn about autism in adults and self-advocacy resources",
}

func autismRecommendations(above bool, risk RiskLevel) []string {
	var out []string
	switch {
	case above && risk == RiskHigh:
		out = append(out, "Strongly consider seeking a comprehensive autism assessment")
		out = append(out, autismPositiveRecommendations...)
		out = append(out, "Explore autism-friendly strategies that might help in daily life")
	case above:
		out = append(out, "Consider discussing autism assessment options with a healthcare provider")
		out = append(out, autismPositiveRecommendations...)
	case risk == RiskModerate:
		out = append(out,
			"Consider speaking with a healthcare provider if social communication challenges affect your daily life",
			"You might benefit from learning about different neurodivergent traits and coping strategies",
			"Keep track of situations where you notice social or communication difficulties",
		)
	default:
		out = append(out,
			"Continue to monitor your experiences if you have ongoing concerns",
			"Consider other factors that might affect social communication and daily functioning",
			"Speak with a healthcare provider if concerns persist or worsen",
		)
	}
	return append(out, autismBaseRecommendations...)
}
