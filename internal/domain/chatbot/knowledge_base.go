package chatbot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed default_knowledge_base.yaml
var defaultKnowledgeBaseYAML []byte

// ErrInvalidKnowledgeBase wraps every validation failure.
var ErrInvalidKnowledgeBase = errors.New("invalid knowledge base")

// DefaultKnowledgeBase returns the knowledge base compiled into the binary.
func DefaultKnowledgeBase() KnowledgeBase {
	kb, err := ParseKnowledgeBase(bytes.NewReader(defaultKnowledgeBaseYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded knowledge base is invalid: %v", err))
	}
	return kb
}

// ParseKnowledgeBase decodes and validates a YAML knowledge base.
func ParseKnowledgeBase(r io.Reader) (KnowledgeBase, error) {
	var kb KnowledgeBase
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&kb); err != nil {
		if errors.Is(err, io.EOF) {
			return KnowledgeBase{}, fmt.Errorf("%w: document is empty", ErrInvalidKnowledgeBase)
		}
		return KnowledgeBase{}, fmt.Errorf("decode knowledge base: %w", err)
	}
	if err := kb.Validate(); err != nil {
		return KnowledgeBase{}, err
	}
	return kb, nil
}

// LoadKnowledgeBase reads the YAML file at path; an empty path selects the
// embedded default.
func LoadKnowledgeBase(path string) (KnowledgeBase, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultKnowledgeBase(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return KnowledgeBase{}, fmt.Errorf("open knowledge base: %w", err)
	}
	defer f.Close()
	return ParseKnowledgeBase(f)
}

// Validate checks that the knowledge base can drive a Matcher.
func (kb KnowledgeBase) Validate() error {
	var problems []string
	if strings.TrimSpace(kb.Fallback) == "" {
		problems = append(problems, "fallback is required")
	}

	ids := make(map[string]int, len(kb.Entries))
	for i, entry := range kb.Entries {
		pos := i + 1
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			problems = append(problems, fmt.Sprintf("entry %d: id is required", pos))
		} else if first, dup := ids[id]; dup {
			problems = append(problems, fmt.Sprintf("entry %d: duplicate id %q (first used by entry %d)", pos, id, first))
		} else {
			ids[id] = pos
		}

		hasKeyword := false
		for _, keyword := range entry.Keywords {
			if strings.TrimSpace(keyword) != "" {
				hasKeyword = true
				break
			}
		}
		if !hasKeyword {
			problems = append(problems, fmt.Sprintf("entry %d: at least one keyword is required", pos))
		}
		if strings.TrimSpace(entry.Response) == "" {
			problems = append(problems, fmt.Sprintf("entry %d: response is required", pos))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidKnowledgeBase, strings.Join(problems, "; "))
	}
	return nil
}

// Schema returns the JSON Schema describing the knowledge base file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&KnowledgeBase{})
	schema.Title = "Chatbot knowledge base"
	return json.MarshalIndent(schema, "", "  ")
}
