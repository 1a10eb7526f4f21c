package evidence

import (
	"regexp"
	"strings"
)

// TagPattern matches a tag block such as "testcase: [TC1, TC2]".
var TagPattern = regexp.MustCompile(`(?i)testcase\s*:\s*\[([^\]]+)\]`)

// Criteria selects commits by the test-case ids named in their tag block.
type Criteria struct {
	requested map[string]struct{}
	ordered   []string
	pattern   *regexp.Regexp
}

// NewCriteria builds criteria from requested ids. Ids are trimmed; blanks and
// duplicates are dropped.
func NewCriteria(ids []string) Criteria {
	c := Criteria{requested: make(map[string]struct{}, len(ids)), pattern: TagPattern}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := c.requested[id]; dup {
			continue
		}
		c.requested[id] = struct{}{}
		c.ordered = append(c.ordered, id)
	}
	return c
}

// ParseIDs splits a comma-separated id list such as "TC1, TC2".
func ParseIDs(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// IDs returns the requested ids in the order given.
func (c Criteria) IDs() []string {
	return append([]string(nil), c.ordered...)
}

// Empty reports whether no id was requested.
func (c Criteria) Empty() bool {
	return len(c.ordered) == 0
}

// Tags extracts the ids of the first tag block in message, in written order.
// ok is false when the message carries no tag block.
func (c Criteria) Tags(message string) (ids []string, ok bool) {
	m := c.pattern.FindStringSubmatch(message)
	if m == nil {
		return nil, false
	}
	for _, part := range strings.Split(m[1], ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, true
}

// Match returns the tag ids that were also requested, keeping the commit's
// own order. An empty result means the commit does not match.
func (c Criteria) Match(message string) []string {
	tags, ok := c.Tags(message)
	if !ok {
		return nil
	}
	var matched []string
	seen := make(map[string]struct{}, len(tags))
	for _, id := range tags {
		if _, want := c.requested[id]; !want {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		matched = append(matched, id)
	}
	return matched
}
