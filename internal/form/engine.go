package form

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/omnimsg/composer/internal/model"
	"github.com/omnimsg/composer/internal/registry"
)

// State is one mounted form instance: the field-set it was mounted
// with, the selected channel and the current values. A State is
// exclusively owned by its form session; all access goes through the
// mutex so concurrent API calls against the same session stay safe.
type State struct {
	ID      string
	Type    model.MessageType
	def     registry.FieldSet
	channel model.Channel

	mu         sync.Mutex
	values     map[string]any
	recipients TokenEditor
	inFlight   bool
	updatedAt  time.Time
}

// Mount initializes a form for a message type. When no channel is
// given the first available one is auto-selected. Mounting fails for
// types without a registered field set (the "form not found" state)
// and for channels outside the type's availability list.
func Mount(id string, t model.MessageType, channel model.Channel) (*State, error) {
	def, err := registry.Lookup(t)
	if err != nil {
		return nil, err
	}

	if channel == "" {
		ch, ok := registry.DefaultChannel(t)
		if !ok {
			return nil, fmt.Errorf("no channels available for %s", t)
		}
		channel = ch
	} else if !registry.ChannelAvailable(t, channel) {
		return nil, fmt.Errorf("channel %s not available for %s", channel, t)
	}

	return &State{
		ID:        id,
		Type:      t,
		def:       def,
		channel:   channel,
		values:    def.Defaults(),
		updatedAt: time.Now(),
	}, nil
}

// Channel returns the currently selected channel.
func (s *State) Channel() model.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

// SelectChannel switches the channel; it must be available for the
// form's type. Field values are kept.
func (s *State) SelectChannel(c model.Channel) error {
	if !registry.ChannelAvailable(s.Type, c) {
		return fmt.Errorf("channel %s not available for %s", c, s.Type)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = c
	s.touch()
	return nil
}

// EditRecipients feeds keystrokes into the session's tag-chip
// recipient editor: input text first (spaces commit), then the named
// key. The resulting recipient list is written back to the "to" field,
// so chip entry and comma-separated entry converge on the same value.
func (s *State) EditRecipients(input, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input != "" {
		s.recipients.Insert(input)
	}
	switch key {
	case "":
	case "enter":
		s.recipients.Enter()
	case "backspace":
		s.recipients.Backspace()
	default:
		return nil, fmt.Errorf("unknown key %q", key)
	}

	list := s.recipients.Recipients()
	to := make([]any, len(list))
	for i, r := range list {
		to[i] = r
	}
	s.values["to"] = to
	s.touch()
	return list, nil
}

// SetField updates a single field or nested array element by path.
func (s *State) SetField(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := setPath(s.values, path, value); err != nil {
		return err
	}
	s.touch()
	return nil
}

// AddItem appends the declared template to the array field at path.
// Adding past the array's cap is a no-op; the second return is the
// resulting length either way.
func (s *State) AddItem(path string) (added bool, length int, err error) {
	def, err := s.arrayField(path)
	if err != nil {
		return false, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := getPath(s.values, path)
	if err != nil {
		return false, 0, err
	}
	items, _ := cur.([]any)

	if def.MaxItems > 0 && len(items) >= def.MaxItems {
		return false, len(items), nil
	}

	var tmpl any
	if def.Template != nil {
		tmpl = copyValue(def.Template)
	} else {
		tmpl = map[string]any{}
	}
	items = append(items, tmpl)
	if err := setPath(s.values, path, items); err != nil {
		return false, 0, err
	}
	s.touch()
	return true, len(items), nil
}

// RemoveItem removes the array element at index; the remaining items
// re-index with no gaps.
func (s *State) RemoveItem(path string, index int) (length int, err error) {
	if _, err := s.arrayField(path); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := getPath(s.values, path)
	if err != nil {
		return 0, err
	}
	items, ok := cur.([]any)
	if !ok {
		return 0, fmt.Errorf("%q is not an array", path)
	}
	if index < 0 || index >= len(items) {
		return 0, fmt.Errorf("index %d out of range for %q", index, path)
	}

	items = append(items[:index], items[index+1:]...)
	if err := setPath(s.values, path, items); err != nil {
		return 0, err
	}
	s.touch()
	return len(items), nil
}

// Values returns a deep copy of the current raw values.
func (s *State) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyValue(s.values).(map[string]any)
}

// Validate runs the field-set rules against the current values.
func (s *State) Validate() (map[string]any, []FieldError) {
	return Validate(s.def, s.Values())
}

// BeginSubmit marks the form in-flight. It returns false when a
// submit is already running; duplicate submits are dropped rather
// than queued.
func (s *State) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

// EndSubmit clears the in-flight mark.
func (s *State) EndSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.touch()
}

// UpdatedAt is the time of the last mutation, used for TTL pruning.
func (s *State) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *State) touch() { s.updatedAt = time.Now() }

// arrayField resolves the registry definition of the array field a
// path addresses, stepping through numeric segments via element
// definitions.
func (s *State) arrayField(path string) (registry.Field, error) {
	segs, err := splitPath(path)
	if err != nil {
		return registry.Field{}, err
	}

	fields := s.def.Fields
	var cur registry.Field
	seen := false
	for _, seg := range segs {
		if _, ok := isIndex(seg); ok {
			if !seen || cur.Kind != registry.KindArray || cur.Elem == nil {
				return registry.Field{}, fmt.Errorf("path %q does not address an array", path)
			}
			cur = *cur.Elem
			fields = cur.Fields
			continue
		}
		found := false
		for _, f := range fields {
			if f.Name == seg {
				cur = f
				fields = f.Fields
				found = true
				break
			}
		}
		if !found {
			return registry.Field{}, fmt.Errorf("unknown field %q in path %q", seg, path)
		}
		seen = true
	}
	if cur.Kind != registry.KindArray {
		return registry.Field{}, fmt.Errorf("%q is not an array field", strings.Join(segs, "."))
	}
	return cur, nil
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = copyValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = copyValue(e)
		}
		return s
	default:
		return v
	}
}
