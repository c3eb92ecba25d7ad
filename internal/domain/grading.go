package domain

// LiveFeedback marks options once the learner has answered: the chosen option is
// correct or incorrect, the right option is always marked correct.
func LiveFeedback(q Question, selected Answer) []Feedback {
	marks := make([]Feedback, len(q.Options))
	for i := range q.Options {
		switch {
		case i == q.Correct:
			marks[i] = FeedbackCorrect
		case Answer(i) == selected:
			marks[i] = FeedbackIncorrect
		}
	}
	return marks
}

// Grade pairs each question with its recorded answer.
func Grade(questions []Question, answers []Answer) []QuestionResult {
	results := make([]QuestionResult, 0, len(questions))
	for i, q := range questions {
		selected := TimeoutAnswer
		if i < len(answers) {
			selected = answers[i]
		}
		results = append(results, QuestionResult{
			Prompt:   q.Prompt,
			Options:  q.Options,
			Selected: selected,
			Correct:  q.Correct,
			IsRight:  int(selected) == q.Correct,
		})
	}
	return results
}

// Score counts correct results.
func Score(results []QuestionResult) int {
	n := 0
	for _, r := range results {
		if r.IsRight {
			n++
		}
	}
	return n
}
