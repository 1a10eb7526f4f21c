package evidence

import (
	"net/http"
	"strings"
)

// Record is the evidence gathered for one matching commit.
type Record struct {
	Hash           string  `json:"hash"`
	Message        string  `json:"message"`
	AuthorUsername string  `json:"author_username"`
	AuthorEmail    string  `json:"author_email"`
	FunctionID     string  `json:"function_id"`
	CodeDiff       *string `json:"code_diff"`
}

// HasDiff reports whether the diff was retrieved.
func (r Record) HasDiff() bool {
	return r.CodeDiff != nil
}

// Result is the outcome of one collection run.
//
// Status is http.StatusOK when Records is non-empty, http.StatusNotFound when
// every page was read but nothing matched, and the upstream status when the
// first page could not be read. Upstream separates a first-page failure
// from the zero-match case even when Bitbucket itself answered 404.
type Result struct {
	Status   int
	Records  []Record
	Pages    int
	Upstream bool
}

// NoMatches reports the zero-match outcome.
func (r Result) NoMatches() bool {
	return !r.Upstream && r.Status == http.StatusNotFound
}

// SplitAuthor splits "Name <email>" on the first '<'. Without a '<' the
// whole trimmed string is the name and the email is empty.
func SplitAuthor(raw string) (name, email string) {
	left, right, found := strings.Cut(raw, "<")
	if !found {
		return strings.TrimSpace(raw), ""
	}
	email = strings.TrimSpace(right)
	email = strings.TrimSuffix(email, ">")
	return strings.TrimSpace(left), strings.TrimSpace(email)
}
