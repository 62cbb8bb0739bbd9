package form

import "strings"

// TokenEditor models the tag-chip recipient input: typed text
// accumulates in a pending buffer, space or Enter commits the buffer
// as a new recipient chip, and Backspace on an empty buffer removes
// the last chip. It is the incremental-entry counterpart to the
// comma-separated mode; both produce the same recipient list.
type TokenEditor struct {
	tokens  []string
	pending string
}

// Insert feeds typed text into the editor. Spaces inside the text act
// as commit keystrokes.
func (e *TokenEditor) Insert(text string) {
	for _, r := range text {
		if r == ' ' {
			e.commit()
			continue
		}
		e.pending += string(r)
	}
}

// Enter commits the pending buffer as a chip.
func (e *TokenEditor) Enter() { e.commit() }

// Backspace deletes the last pending rune, or pops the last chip when
// the buffer is empty.
func (e *TokenEditor) Backspace() {
	if e.pending != "" {
		rs := []rune(e.pending)
		e.pending = string(rs[:len(rs)-1])
		return
	}
	if len(e.tokens) > 0 {
		e.tokens = e.tokens[:len(e.tokens)-1]
	}
}

func (e *TokenEditor) commit() {
	t := strings.TrimSpace(e.pending)
	e.pending = ""
	if t == "" {
		return
	}
	e.tokens = append(e.tokens, t)
}

// Recipients returns the committed chips plus any pending text, the
// list a submit would use.
func (e *TokenEditor) Recipients() []string {
	out := make([]string, len(e.tokens))
	copy(out, e.tokens)
	if t := strings.TrimSpace(e.pending); t != "" {
		out = append(out, t)
	}
	return out
}
