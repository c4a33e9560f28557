package questions

// ADHDPartAThreshold is the published ASRS-v1.1 screening threshold:
// four or more scoring answers among the six Part A questions.
const ADHDPartAThreshold = 4

var frequencyOptions = []string{"Never", "Rarely", "Sometimes", "Often", "Very Often"}

// adhdQuestions is the ASRS-v1.1 bank. The first six items are Part A.
var adhdQuestions = []Question{
	adhd("q1", PartA, "How often do you have trouble wrapping up the final details of a project, once the challenging parts have been done?", 3, 4),
	adhd("q2", PartA, "How often do you have difficulty getting things in order when you have to do a task that requires organization?", 3, 4),
	adhd("q3", PartA, "How often do you have problems remembering appointments or obligations?", 3, 4),
	adhd("q4", PartA, "When you have a task that requires a lot of thought, how often do you avoid or delay getting started?", 3, 4),
	adhd("q5", PartA, "How often do you fidget or squirm with your hands or feet when you have to sit down for a long time?", 3, 4),
	adhd("q6", PartA, "How often do you feel overly active and compelled to do things, like you were driven by a motor?", 4),

	adhd("q7", PartB, "How often do you make careless mistakes when you have to work on a boring or difficult project?", 3, 4),
	adhd("q8", PartB, "How often do you have difficulty keeping your attention when you are doing boring or repetitive work?", 3, 4),
	adhd("q9", PartB, "How often do you have difficulty concentrating on what people say to you, even when they are speaking to you directly?", 2, 3, 4),
	adhd("q10", PartB, "How often do you misplace or have difficulty finding things at home or at work?", 3, 4),
	adhd("q11", PartB, "How often are you distracted by activity or noise around you?", 2, 3, 4),
	adhd("q12", PartB, "How often do you leave your seat in meetings or other situations in which you are expected to remain seated?", 2, 3, 4),
	adhd("q13", PartB, "How often do you feel restless or fidgety?", 3, 4),
	adhd("q14", PartB, "How often do you have difficulty unwinding and relaxing when you have time to yourself?", 3, 4),
	adhd("q15", PartB, "How often do you find yourself talking too much when you are in social situations?", 3, 4),
	adhd("q16", PartB, "When you're in a conversation, how often do you find yourself finishing the sentences of the people you are talking to, before they can finish them themselves?", 2, 3, 4),
	adhd("q17", PartB, "How often do you have difficulty waiting your turn in situations when turn taking is required?", 3, 4),
	adhd("q18", PartB, "How often do you interrupt others when they are busy?", 2, 3, 4),
}

func adhd(id string, part Part, text string, scoring ...int) Question {
	return Question{
		ID:             id,
		Text:           text,
		Part:           part,
		Options:        frequencyOptions,
		ScoringIndices: scoring,
	}
}

// PartitionByPart splits the ADHD bank into its Part A and Part B questions,
// each in presentation order.
func PartitionByPart() (partA, partB []Question) {
	for _, q := range adhdQuestions {
		switch q.Part {
		case PartA:
			partA = append(partA, q.clone())
		case PartB:
			partB = append(partB, q.clone())
		}
	}
	return partA, partB
}
