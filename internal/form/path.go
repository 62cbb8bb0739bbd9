package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Field paths use dotted segments; numeric segments index into arrays,
// e.g. "items.2.buttons.0.title".

func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty field path")
	}
	segs := strings.Split(path, ".")
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("invalid field path %q", path)
		}
	}
	return segs, nil
}

func isIndex(seg string) (int, bool) {
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// getPath resolves a path inside a value tree of maps and slices.
func getPath(root map[string]any, path string) (any, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	var cur any = root
	for _, seg := range segs {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			i, ok := isIndex(seg)
			if !ok || i >= len(node) {
				return nil, fmt.Errorf("no element %q in array at %q", seg, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("path %q does not resolve", path)
		}
	}
	return cur, nil
}

// setPath writes a value at a path, creating intermediate objects as
// needed (setting "button.title" materializes the button object).
// Array elements must already exist; growing arrays goes through
// AddItem so caps and templates apply.
func setPath(root map[string]any, path string, value any) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}

	var cur any = root
	for n, seg := range segs[:len(segs)-1] {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok || next == nil {
				child := map[string]any{}
				node[seg] = child
				cur = child
				continue
			}
			cur = next
		case []any:
			i, ok := isIndex(seg)
			if !ok || i >= len(node) {
				return fmt.Errorf("no element %q in array at %q", seg, strings.Join(segs[:n+1], "."))
			}
			cur = node[i]
		default:
			return fmt.Errorf("cannot descend into %q at %q", seg, path)
		}
	}

	last := segs[len(segs)-1]
	switch node := cur.(type) {
	case map[string]any:
		node[last] = value
	case []any:
		i, ok := isIndex(last)
		if !ok || i >= len(node) {
			return fmt.Errorf("no element %q in array at %q", last, path)
		}
		node[i] = value
	default:
		return fmt.Errorf("cannot set %q on a scalar", path)
	}
	return nil
}
