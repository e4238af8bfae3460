package file

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jotkit/jot/pkg/core"
)

// Serializer defines how to read and write a slot payload in one format.
// The payload is always the bare note list; metadata lives in the journal,
// never inside the slot file.
type Serializer interface {
	// Decode parses data into a note list.
	Decode(data []byte) (core.Notes, error)
	// Encode converts the list to bytes.
	Encode(notes core.Notes) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by
// file extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": &JSONSerializer{},
		".yaml": &YAMLSerializer{},
		".yml":  &YAMLSerializer{},
	}
}

// --- JSON Serializer ---

// JSONSerializer handles the default slot format: a bare JSON array of
// {"id": ..., "text": ...} objects.
type JSONSerializer struct{}

func (s *JSONSerializer) Decode(data []byte) (core.Notes, error) {
	var notes core.Notes
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return notes, nil
}

func (s *JSONSerializer) Encode(notes core.Notes) ([]byte, error) {
	if notes == nil {
		// An empty list must land on disk as [], not null.
		notes = core.Notes{}
	}
	return json.MarshalIndent(notes, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer stores the list as a YAML sequence. Field names lowercase
// to id/text, so a YAML slot stays interchangeable with a JSON one.
type YAMLSerializer struct{}

func (s *YAMLSerializer) Decode(data []byte) (core.Notes, error) {
	var notes core.Notes
	if err := yaml.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return notes, nil
}

func (s *YAMLSerializer) Encode(notes core.Notes) ([]byte, error) {
	if notes == nil {
		notes = core.Notes{}
	}
	return yaml.Marshal(notes)
}
