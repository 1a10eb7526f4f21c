package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		align  string
		hours  float64
		tokens int
		hasTok bool
	}{
		{"prose", "The work looks complete. Answer: yes. Hours: 12.", "yes", 12, 0, false},
		{"token self report", "no, 8, 450", "no", 8, 450, true},
		{"nothing", "I am unable to judge this.", "none", 0, 0, false},
		{"number first", "16 hours. YES", "yes", 16, 0, false},
		{"decimal hours", "Yes\n2.5", "yes", 2.5, 0, false},
		{"first yes/no wins", "No. Although yes, partly. 4", "no", 4, 0, false},
		{"words containing no", "Nothing notable; known issue. yes 3", "yes", 3, 0, false},
		{"fractional token count truncated", "yes 1 99.9", "yes", 1, 99, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnswer(tt.text)
			assert.Equal(t, tt.align, got.Alignment)
			assert.Equal(t, tt.hours, got.EstimatedHours)
			assert.Equal(t, tt.tokens, got.ReportedTokens)
			assert.Equal(t, tt.hasTok, got.HasReportedTokens)
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens("abc"))
	assert.Equal(t, 2, EstimateTokens("abcdefghi"))
	assert.Equal(t, 1, EstimateTokens("äöüß"))
}
