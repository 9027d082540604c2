package routine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/cohort/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want models.EntryType
	}{
		{"ERP", models.EntryClass},
		{"STATISTICS", models.EntryClass},
		{"Latest Trends", models.EntryClass},
		{"Guest Session", models.EntryClass},
		{"Mid Term IFM", models.EntryExam},
		{"MID-TERM ERP", models.EntryExam},
		{"End Sem MST", models.EntryExam},
		{"IFM Quiz 2", models.EntryExam},
		{"Viva", models.EntryExam},
		{"Orientation Event", models.EntryExam},
		{"Project submission", models.EntrySubmission},
		{"Final project submission", models.EntrySubmission},
		{"Assignment due", models.EntrySubmission},
		{"Report deadline", models.EntrySubmission},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text), tt.text)
	}
}
