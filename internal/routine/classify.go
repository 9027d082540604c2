package routine

import (
	"regexp"

	"github.com/julianstephens/cohort/internal/models"
)

var (
	submissionRe = regexp.MustCompile(`(?i)\b(submissions?|submit(ted)?|deadlines?|due|deliverables?|assignments?|hand[- ]?in)\b`)
	examRe       = regexp.MustCompile(`(?i)\b(exams?|examinations?|mid[- ]?terms?|mid[- ]?sems?|end[- ]?sems?|end[- ]?terms?|finals?|quiz(zes)?|tests?|viva|assessments?|presentations?|events?)\b`)
)

// Classify labels subject text as a submission, an exam/event or a class.
// Submissions win over exams so that "Final project submission" is a
// deadline, not an exam.
func Classify(text string) models.EntryType {
	switch {
	case submissionRe.MatchString(text):
		return models.EntrySubmission
	case examRe.MatchString(text):
		return models.EntryExam
	default:
		return models.EntryClass
	}
}
