package questions

// AutismThreshold is the published AQ-10 referral threshold: six or more
// points out of ten.
const AutismThreshold = 6

var agreementOptions = []string{"Definitely agree", "Slightly agree", "Slightly disagree", "Definitely disagree"}

var (
	agreeScores    = []int{0, 1}
	disagreeScores = []int{2, 3}
)

// autismQuestions is the AQ-10 bank. Items 1, 7, 8 and 10 score on agreement,
// the rest score on disagreement.
var autismQuestions = []Question{
	aq("aq1", "I often notice small sounds when others do not.", agreeScores),
	aq("aq2", "I usually concentrate more on the whole picture, rather than the small details.", disagreeScores),
	aq("aq3", "I find it easy to do more than one thing at once.", disagreeScores),
	aq("aq4", "If there is an interruption, I can switch back to what I was doing very quickly.", disagreeScores),
	aq("aq5", "I find it easy to 'read between the lines' when someone is talking to me.", disagreeScores),
	aq("aq6", "I know how to tell if someone listening to me is getting bored.", disagreeScores),
	aq("aq7", "When I'm reading a story, I find it difficult to work out the characters' intentions.", agreeScores),
	aq("aq8", "I like to collect information about categories of things (e.g. types of car, types of bird, types of train, types of plant, etc.).", agreeScores),
	aq("aq9", "I find it easy to work out what someone is thinking or feeling just by looking at their face.", disagreeScores),
	aq("aq10", "I find it difficult to work out people's intentions.", agreeScores),
}

func aq(id, text string, scoring []int) Question {
	return Question{
		ID:             id,
		Text:           text,
		Options:        agreementOptions,
		ScoringIndices: scoring,
	}
}
