package chatbot

import (
	"strings"

	"golang.org/x/text/cases"
)

type compiledEntry struct {
	id       string
	response string
	keywords []string
}

// Matcher selects canned responses by counting keyword hits. It is immutable
// after construction and safe for concurrent use.
type Matcher struct {
	greeting string
	fallback string
	entries  []compiledEntry
}

// NewMatcher validates the knowledge base and precomputes folded keywords.
func NewMatcher(kb KnowledgeBase) (*Matcher, error) {
	if err := kb.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		greeting: strings.TrimSpace(kb.Greeting),
		fallback: strings.TrimSpace(kb.Fallback),
		entries:  make([]compiledEntry, 0, len(kb.Entries)),
	}

	for _, entry := range kb.Entries {
		compiled := compiledEntry{
			id:       strings.TrimSpace(entry.ID),
			response: strings.TrimSpace(entry.Response),
		}
		seen := make(map[string]struct{}, len(entry.Keywords))
		for _, keyword := range entry.Keywords {
			folded := fold(keyword)
			if folded == "" {
				continue
			}
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}
			compiled.keywords = append(compiled.keywords, folded)
		}
		m.entries = append(m.entries, compiled)
	}

	return m, nil
}

// Match returns the entry with the most distinct keyword hits. Ties go to the
// earliest entry; no hits yields the fallback.
func (m *Matcher) Match(input string) Result {
	text := fold(input)
	if text == "" {
		return Result{Reply: m.fallback}
	}

	best := -1
	bestHits := 0
	for i, entry := range m.entries {
		hits := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			best = i
			bestHits = hits
		}
	}

	if best < 0 {
		return Result{Reply: m.fallback}
	}

	winner := m.entries[best]
	return Result{
		Reply:   winner.response,
		Matched: true,
		EntryID: winner.id,
		Hits:    bestHits,
	}
}

// Reply returns only the response text for input.
func (m *Matcher) Reply(input string) string {
	return m.Match(input).Reply
}

// Greeting returns the widget greeting, or the fallback when none is set.
func (m *Matcher) Greeting() string {
	if m.greeting == "" {
		return m.fallback
	}
	return m.greeting
}

// Size returns the number of entries.
func (m *Matcher) Size() int {
	return len(m.entries)
}

// fold normalizes text for matching. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}
