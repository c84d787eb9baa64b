package chatbot

// Entry is one canned answer and the keywords that select it.
type Entry struct {
	ID       string   `yaml:"id" json:"id" jsonschema:"required,minLength=1,description=Stable identifier recorded on transcript lines"`
	Keywords []string `yaml:"keywords" json:"keywords" jsonschema:"required,minItems=1,description=Case-insensitive substrings that select this entry"`
	Response string   `yaml:"response" json:"response" jsonschema:"required,minLength=1"`
}

// KnowledgeBase is the full chatbot configuration. Entry order matters: on a
// tie the earliest entry wins.
type KnowledgeBase struct {
	Greeting string  `yaml:"greeting" json:"greeting,omitempty" jsonschema:"description=Message shown when the widget opens"`
	Fallback string  `yaml:"fallback" json:"fallback" jsonschema:"required,minLength=1,description=Reply used when no keyword matches"`
	Entries  []Entry `yaml:"entries" json:"entries" jsonschema:"required"`
}

// Result is the outcome of matching one visitor message.
type Result struct {
	Reply   string `json:"reply"`
	Matched bool   `json:"matched"`
	EntryID string `json:"entry_id,omitempty"`
	Hits    int    `json:"-"`
}

// Responder produces chatbot replies. Implementations must be safe for
// concurrent use.
type Responder interface {
	Match(input string) Result
	Greeting() string
}
