package verdict

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	AlignmentYes  = "yes"
	AlignmentNo   = "no"
	AlignmentNone = "none"
)

var answerToken = regexp.MustCompile(`(?i)\b(yes|no|\d+(?:\.\d+)?)\b`)

// Answer is what could be read out of a judge's free-text reply.
type Answer struct {
	Alignment      string
	EstimatedHours float64
	// ReportedTokens is the second number in the reply, if any. It is only
	// ever logged.
	ReportedTokens    int
	HasReportedTokens bool
}

// ParseAnswer scans text left to right for yes/no words and decimal numbers.
// The first yes/no becomes the alignment and the first number the hours;
// the two categories are read independently, so their relative order in the
// reply does not matter.
func ParseAnswer(text string) Answer {
	ans := Answer{Alignment: AlignmentNone}

	var numbers []float64
	for _, tok := range answerToken.FindAllString(text, -1) {
		lower := strings.ToLower(tok)
		if lower == AlignmentYes || lower == AlignmentNo {
			if ans.Alignment == AlignmentNone {
				ans.Alignment = lower
			}
			continue
		}
		if n, err := strconv.ParseFloat(tok, 64); err == nil {
			numbers = append(numbers, n)
		}
	}

	if len(numbers) >= 1 {
		ans.EstimatedHours = numbers[0]
	}
	if len(numbers) >= 2 {
		ans.ReportedTokens = int(numbers[1])
		ans.HasReportedTokens = true
	}
	return ans
}
