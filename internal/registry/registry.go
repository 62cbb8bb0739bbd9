// Package registry holds the static, process-wide form configuration:
// one field-set definition per message type plus the channel
// availability table. Loaded at init, never mutated.
package registry

import (
	"errors"
	"fmt"

	"github.com/omnimsg/composer/internal/model"
)

// ErrUnknownMessageType is returned when a message type has no
// registered field set. Callers render it as an inline "form not
// found" state, not a crash.
var ErrUnknownMessageType = errors.New("form not found")

// Kind is the semantic type of a form field.
type Kind string

const (
	KindString     Kind = "string"
	KindNumber     Kind = "number"
	KindDuration   Kind = "duration" // number or numeric string, > 0
	KindEnum       Kind = "enum"
	KindURL        Kind = "url"
	KindEmail      Kind = "email"
	KindRecipients Kind = "recipients"
	KindObject     Kind = "object"
	KindArray      Kind = "array"
)

// Field declares one form field and its validation constraints.
// Object fields nest via Fields; array fields describe their element
// via Elem and carry an item Template for add-item operations.
type Field struct {
	Name     string `json:"name,omitempty"`
	Kind     Kind   `json:"kind"`
	Required bool   `json:"required,omitempty"`

	MinLen  int      `json:"minLen,omitempty"`  // strings
	Pattern string   `json:"pattern,omitempty"` // strings, anchored regex
	Enum    []string `json:"enum,omitempty"`    // closed value set
	Min     *float64 `json:"min,omitempty"`     // numbers, inclusive
	Max     *float64 `json:"max,omitempty"`     // numbers, inclusive
	Suffix  string   `json:"suffix,omitempty"`  // case-insensitive URL suffix

	// Msg overrides the generated error message for format constraints
	// (pattern, suffix) where the UI shows a specific wording.
	Msg string `json:"msg,omitempty"`

	Fields []Field `json:"fields,omitempty"`
	Elem   *Field  `json:"elem,omitempty"`

	MinItems int `json:"minItems,omitempty"`
	MaxItems int `json:"maxItems,omitempty"` // 0 = unlimited

	Default  any `json:"default,omitempty"`
	Template any `json:"template,omitempty"`
}

// FieldSet is the full declarative schema for one message type's form.
type FieldSet struct {
	Type   model.MessageType `json:"type"`
	Fields []Field           `json:"fields"`
}

// Field finds a top-level field by name.
func (fs FieldSet) Field(name string) (Field, bool) {
	for _, f := range fs.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults builds the initial value map for a freshly mounted form.
// Values are deep-copied so form instances never share state.
func (fs FieldSet) Defaults() map[string]any {
	out := make(map[string]any, len(fs.Fields))
	for _, f := range fs.Fields {
		if f.Default == nil {
			continue
		}
		out[f.Name] = deepCopy(f.Default)
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = deepCopy(e)
		}
		return s
	default:
		return v
	}
}

// Lookup returns the field set for a message type.
func Lookup(t model.MessageType) (FieldSet, error) {
	fs, ok := fieldSets[t]
	if !ok {
		return FieldSet{}, fmt.Errorf("%w for %s", ErrUnknownMessageType, t)
	}
	return fs, nil
}

// Registered reports whether a type has a field set. Audio is a valid
// message type with a channel entry but no form, mirroring the UI.
func Registered(t model.MessageType) bool {
	_, ok := fieldSets[t]
	return ok
}
