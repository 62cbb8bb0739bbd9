package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/omnimsg/composer/internal/model"
	"github.com/omnimsg/composer/internal/registry"
)

// FieldError is one field-level validation failure, addressed by path.
type FieldError struct {
	Path string `json:"field"`
	Msg  string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Msg) }

// vd handles the format primitives (url, email) the same way the HTTP
// binding layer would.
var vd = validator.New()

// patternCache memoizes compiled field patterns. Validate runs from
// concurrent handler goroutines, so access is mutex-guarded.
var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

func compiled(pattern string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patternCache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile(pattern)
	patternCache[pattern] = re
	return re
}

// Validate runs a field set's rules against raw values. On success it
// returns the transformed value tree: recipients normalized to
// []string, numbers coerced to float64, optional empties left in place
// for the shaping step to drop. Validation and transformation are one
// pass; the transformed values are only meaningful when errs is empty.
func Validate(fs registry.FieldSet, values map[string]any) (map[string]any, []FieldError) {
	var errs []FieldError
	out := make(map[string]any, len(fs.Fields))

	for _, f := range fs.Fields {
		raw := values[f.Name]
		v, ok := checkField(f, f.Name, raw, &errs)
		if ok {
			out[f.Name] = v
		}
	}
	return out, errs
}

// checkField validates one field and returns its transformed value.
// The bool reports whether the value should appear in the output at
// all (absent optionals are dropped).
func checkField(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	switch f.Kind {
	case registry.KindRecipients:
		return checkRecipients(path, raw, errs)
	case registry.KindString:
		return checkString(f, path, raw, errs)
	case registry.KindURL, registry.KindEmail:
		return checkFormat(f, path, raw, errs)
	case registry.KindEnum:
		return checkEnum(f, path, raw, errs)
	case registry.KindNumber:
		return checkNumber(f, path, raw, errs)
	case registry.KindDuration:
		return checkDuration(f, path, raw, errs)
	case registry.KindObject:
		return checkObject(f, path, raw, errs)
	case registry.KindArray:
		return checkArray(f, path, raw, errs)
	default:
		fail(errs, path, fmt.Sprintf("unknown field kind %q", f.Kind))
		return nil, false
	}
}

func fail(errs *[]FieldError, path, msg string) {
	*errs = append(*errs, FieldError{Path: path, Msg: msg})
}

func checkRecipients(path string, raw any, errs *[]FieldError) (any, bool) {
	const msg = "at least one recipient is required"

	var list []string
	switch v := raw.(type) {
	case nil:
		fail(errs, path, msg)
		return nil, false
	case string:
		// comma-separated mode: split, trim, drop empties, then
		// re-check non-emptiness on the result
		list = model.SplitRecipients(v)
	case []string:
		list = v
	case []any:
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				fail(errs, path, "recipients must be strings")
				return nil, false
			}
			list = append(list, s)
		}
	default:
		fail(errs, path, "recipients must be a string or a list of strings")
		return nil, false
	}

	for _, r := range list {
		if r == "" {
			fail(errs, path, "recipient must not be empty")
			return nil, false
		}
	}
	if len(list) == 0 {
		fail(errs, path, msg)
		return nil, false
	}
	return list, true
}

func asString(raw any) (string, bool) {
	if raw == nil {
		return "", true
	}
	s, ok := raw.(string)
	return s, ok
}

func checkString(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	s, ok := asString(raw)
	if !ok {
		fail(errs, path, "must be a string")
		return nil, false
	}
	if s == "" {
		if f.Required {
			fail(errs, path, "required")
			return nil, false
		}
		return s, true
	}
	if f.MinLen > 0 && len(s) < f.MinLen {
		fail(errs, path, fmt.Sprintf("must be at least %d characters", f.MinLen))
		return nil, false
	}
	if f.Pattern != "" && !compiled(f.Pattern).MatchString(s) {
		fail(errs, path, constraintMsg(f, "invalid format"))
		return nil, false
	}
	return s, true
}

func checkFormat(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	s, ok := asString(raw)
	if !ok {
		fail(errs, path, "must be a string")
		return nil, false
	}
	if s == "" {
		if f.Required {
			fail(errs, path, "required")
			return nil, false
		}
		// optional format fields pass when absent
		return s, true
	}

	tag := "url"
	badMsg := "must be a valid URL"
	if f.Kind == registry.KindEmail {
		tag = "email"
		badMsg = "invalid email"
	}
	if err := vd.Var(s, tag); err != nil {
		fail(errs, path, badMsg)
		return nil, false
	}
	if f.Suffix != "" && !strings.HasSuffix(strings.ToLower(s), f.Suffix) {
		fail(errs, path, constraintMsg(f, fmt.Sprintf("must end with %s", f.Suffix)))
		return nil, false
	}
	return s, true
}

func checkEnum(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	s, ok := asString(raw)
	if !ok {
		fail(errs, path, "must be a string")
		return nil, false
	}
	if s == "" && !f.Required {
		return s, true
	}
	for _, e := range f.Enum {
		if s == e {
			return s, true
		}
	}
	fail(errs, path, fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", ")))
	return nil, false
}

func coerceNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func checkNumber(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	if raw == nil && !f.Required {
		return nil, false
	}
	n, ok := coerceNumber(raw)
	if !ok {
		fail(errs, path, "must be a number")
		return nil, false
	}
	if f.Min != nil && n < *f.Min || f.Max != nil && n > *f.Max {
		fail(errs, path, constraintMsg(f, rangeMsg(f)))
		return nil, false
	}
	return n, true
}

func rangeMsg(f registry.Field) string {
	if f.Min != nil && f.Max != nil {
		return fmt.Sprintf("must be between %g and %g", *f.Min, *f.Max)
	}
	if f.Min != nil {
		return fmt.Sprintf("must be at least %g", *f.Min)
	}
	return fmt.Sprintf("must be at most %g", *f.Max)
}

func checkDuration(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	n, ok := coerceNumber(raw)
	if !ok || n <= 0 {
		fail(errs, path, "duration must be a positive number")
		return nil, false
	}
	return n, true
}

func checkObject(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	if raw == nil {
		if f.Required {
			fail(errs, path, "required")
			return nil, false
		}
		return nil, false
	}
	m, ok := raw.(map[string]any)
	if !ok {
		fail(errs, path, "must be an object")
		return nil, false
	}
	out := make(map[string]any, len(f.Fields))
	before := len(*errs)
	for _, sub := range f.Fields {
		v, keep := checkField(sub, path+"."+sub.Name, m[sub.Name], errs)
		if keep {
			out[sub.Name] = v
		}
	}
	return out, len(*errs) == before
}

func checkArray(f registry.Field, path string, raw any, errs *[]FieldError) (any, bool) {
	var items []any
	switch v := raw.(type) {
	case nil:
		// fall through to the min-items check
	case []any:
		items = v
	default:
		fail(errs, path, "must be an array")
		return nil, false
	}

	if len(items) < f.MinItems {
		fail(errs, path, fmt.Sprintf("at least %d entry required", f.MinItems))
		return nil, false
	}
	if f.MaxItems > 0 && len(items) > f.MaxItems {
		fail(errs, path, fmt.Sprintf("maximum %d entries allowed", f.MaxItems))
		return nil, false
	}

	out := make([]any, 0, len(items))
	before := len(*errs)
	for i, item := range items {
		elem := *f.Elem
		v, keep := checkField(elem, fmt.Sprintf("%s.%d", path, i), item, errs)
		if keep {
			out = append(out, v)
		}
	}
	return out, len(*errs) == before
}

func constraintMsg(f registry.Field, fallback string) string {
	if f.Msg != "" {
		return f.Msg
	}
	return fallback
}
