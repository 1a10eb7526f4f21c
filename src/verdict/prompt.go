package verdict

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stake-plus/commitaudit/src/evidence"
)

// The alignment question must stay ahead of the hours question.
const instruction = "Based on the commit details below, provide a single overall answer for the following:\n" +
	"Does the combined work in these commits align with the description? Output only 'yes' or 'no'.\n" +
	"How much time would an industry developer take for this code work, in hours? Output only a number."

const missingDiff = "(diff unavailable)"

// BuildPrompt renders every record as one block, joins the blocks with a
// blank line and wraps them with the fixed instruction and description.
func BuildPrompt(records []evidence.Record, description string) string {
	blocks := make([]string, 0, len(records))
	for _, rec := range records {
		blocks = append(blocks, renderRecord(rec))
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\nDescription: ")
	b.WriteString(description)
	b.WriteString("\n\nCommit Details (all relevant commits):\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n")
	return b.String()
}

func renderRecord(rec evidence.Record) string {
	diff := missingDiff
	if rec.CodeDiff != nil {
		diff = *rec.CodeDiff
	}
	return fmt.Sprintf("Commit message: %s\nAuthor: %s <%s>\nCode diff:\n%s",
		rec.Message, rec.AuthorUsername, rec.AuthorEmail, diff)
}

// EstimateTokens approximates the token cost of text as characters / 4.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}
