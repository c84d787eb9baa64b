package chatbot

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKnowledgeBase() KnowledgeBase {
	return KnowledgeBase{
		Greeting: "Hello!",
		Fallback: "Sorry, I don't know.",
		Entries: []Entry{
			{ID: "booking", Keywords: []string{"book", "appointment"}, Response: "Booking reply"},
			{ID: "pricing", Keywords: []string{"price", "cost", "how much"}, Response: "Pricing reply"},
			{ID: "hours", Keywords: []string{"open", "hours"}, Response: "Hours reply"},
			{ID: "academy", Keywords: []string{"course", "price"}, Response: "Academy reply"},
		},
	}
}

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(testKnowledgeBase())
	require.NoError(t, err)
	return m
}

func TestMatchFallsBackWithoutKeywords(t *testing.T) {
	m := newTestMatcher(t)

	for _, input := range []string{"", "   ", "tell me a joke", "\n\t"} {
		result := m.Match(input)
		assert.False(t, result.Matched, input)
		assert.Equal(t, "Sorry, I don't know.", result.Reply, input)
		assert.Empty(t, result.EntryID, input)
	}
}

func TestMatchSingleEntry(t *testing.T) {
	m := newTestMatcher(t)

	result := m.Match("Can I book an appointment for Friday?")
	assert.True(t, result.Matched)
	assert.Equal(t, "booking", result.EntryID)
	assert.Equal(t, "Booking reply", result.Reply)
	assert.Equal(t, 2, result.Hits)
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	m := newTestMatcher(t)
	assert.Equal(t, "Hours reply", m.Reply("WHEN ARE YOU OPEN?"))
	assert.Equal(t, "Pricing reply", m.Reply("How   MUCH does it cost"))
}

func TestMatchStrictlyHigherHitCountWins(t *testing.T) {
	m := newTestMatcher(t)

	// pricing: price, cost (2) vs academy: price (1)
	result := m.Match("what is the price and cost")
	assert.Equal(t, "pricing", result.EntryID)

	// academy: course, price (2) vs pricing: price (1)
	result = m.Match("course price please")
	assert.Equal(t, "academy", result.EntryID)
}

func TestMatchTieGoesToEarliestEntry(t *testing.T) {
	m := newTestMatcher(t)

	// booking: book (1), hours: open (1)
	result := m.Match("book when open")
	assert.Equal(t, "booking", result.EntryID)

	// pricing and academy both hit "price" once
	result = m.Match("price")
	assert.Equal(t, "pricing", result.EntryID)
}

func TestMatchCountsEachKeywordOnce(t *testing.T) {
	m := newTestMatcher(t)

	// "book" repeated still counts once; hours has two distinct hits
	result := m.Match("book book book book, open hours")
	assert.Equal(t, "hours", result.EntryID)
	assert.Equal(t, 2, result.Hits)
}

func TestMatchDuplicateKeywordsDoNotInflateHits(t *testing.T) {
	kb := KnowledgeBase{
		Fallback: "fallback",
		Entries: []Entry{
			{ID: "a", Keywords: []string{"nails", "gel"}, Response: "A"},
			{ID: "b", Keywords: []string{"lash", "LASH", " lash "}, Response: "B"},
		},
	}
	m, err := NewMatcher(kb)
	require.NoError(t, err)

	assert.Equal(t, "a", m.Match("gel nails or lash").EntryID)
}

func TestGreetingFallsBackToFallback(t *testing.T) {
	m := newTestMatcher(t)
	assert.Equal(t, "Hello!", m.Greeting())

	kb := testKnowledgeBase()
	kb.Greeting = ""
	m2, err := NewMatcher(kb)
	require.NoError(t, err)
	assert.Equal(t, kb.Fallback, m2.Greeting())
}

func TestMatcherConcurrentUse(t *testing.T) {
	m := newTestMatcher(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "booking", m.Match("book").EntryID)
			}
		}()
	}
	wg.Wait()
}

func TestDefaultKnowledgeBase(t *testing.T) {
	kb := DefaultKnowledgeBase()
	require.NoError(t, kb.Validate())

	m, err := NewMatcher(kb)
	require.NoError(t, err)
	assert.Equal(t, len(kb.Entries), m.Size())
	assert.Equal(t, "hours", m.Match("What are your opening hours?").EntryID)
	assert.False(t, m.Match("xyzzy").Matched)
	assert.NotEmpty(t, m.Greeting())
}

func TestParseKnowledgeBaseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "document is empty"},
		{"no fallback", "entries: []\n", "fallback is required"},
		{"missing id", "fallback: x\nentries:\n  - keywords: [a]\n    response: r\n", "entry 1: id is required"},
		{"no keywords", "fallback: x\nentries:\n  - id: a\n    keywords: ['  ']\n    response: r\n", "at least one keyword"},
		{"no response", "fallback: x\nentries:\n  - id: a\n    keywords: [a]\n", "response is required"},
		{"duplicate", "fallback: x\nentries:\n  - {id: a, keywords: [a], response: r}\n  - {id: a, keywords: [b], response: s}\n", "duplicate id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKnowledgeBase(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidKnowledgeBase)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseKnowledgeBaseRejectsUnknownFields(t *testing.T) {
	_, err := ParseKnowledgeBase(strings.NewReader("fallback: x\nentries: []\nanswers: []\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidKnowledgeBase)
}

func TestSchemaDescribesEntries(t *testing.T) {
	raw, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fallback"`)
	assert.Contains(t, string(raw), `"keywords"`)
}
