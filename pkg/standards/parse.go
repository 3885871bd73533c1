package standards

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ErrInvalidDocument is wrapped by every error Parse returns.
var ErrInvalidDocument = errors.New("invalid standards document")

// ValidationError pinpoints the first record that does not have the expected
// shape. Index is -1 for problems with the document as a whole.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidDocument, e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: record %d: %s", ErrInvalidDocument, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: record %d: field %q: %s", ErrInvalidDocument, e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }

var textFields = []string{"label", "cat", "helpText", "docsDescription", "executiveText", "powershellEquivalent", "impactColour"}

var listFields = []string{"tag", "recommendedBy"}

// Validate checks that data is a JSON array of records with the Standard
// shape. It does not decode anything.
func Validate(data []byte) error {
	if !gjson.ValidBytes(data) {
		return &ValidationError{Index: -1, Reason: "not valid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !isArray(root) {
		return &ValidationError{Index: -1, Reason: "top-level value is not an array"}
	}

	var verr *ValidationError
	seen := make(map[string]int)
	idx := 0
	root.ForEach(func(_, rec gjson.Result) bool {
		verr = validateRecord(idx, rec, seen)
		idx++
		return verr == nil
	})
	if verr != nil {
		return verr
	}
	return nil
}

func validateRecord(idx int, rec gjson.Result, seen map[string]int) *ValidationError {
	if !isObject(rec) {
		return &ValidationError{Index: idx, Reason: "not an object"}
	}

	name := rec.Get("name")
	if name.Type != gjson.String || strings.TrimSpace(name.Str) == "" {
		return &ValidationError{Index: idx, Field: "name", Reason: "missing or not a non-empty string"}
	}
	if prev, dup := seen[name.Str]; dup {
		return &ValidationError{Index: idx, Field: "name", Reason: fmt.Sprintf("duplicate of record %d (%s)", prev, name.Str)}
	}
	seen[name.Str] = idx

	impact := rec.Get("impact")
	if impact.Type != gjson.String || !Impact(impact.Str).Valid() {
		return &ValidationError{Index: idx, Field: "impact", Reason: fmt.Sprintf("unknown impact %q", impact.String())}
	}

	for _, f := range textFields {
		if v := rec.Get(f); present(v) && v.Type != gjson.String {
			return &ValidationError{Index: idx, Field: f, Reason: "not a string"}
		}
	}

	for _, f := range listFields {
		v := rec.Get(f)
		if !present(v) {
			continue
		}
		if !isArray(v) {
			return &ValidationError{Index: idx, Field: f, Reason: "not an array"}
		}
		for _, item := range v.Array() {
			if item.Type != gjson.String {
				return &ValidationError{Index: idx, Field: f, Reason: "contains a non-string element"}
			}
		}
	}

	if v := rec.Get("addedComponent"); present(v) && !isArray(v) {
		return &ValidationError{Index: idx, Field: "addedComponent", Reason: "not an array"}
	}

	if v := rec.Get("addedDate"); present(v) {
		if v.Type != gjson.String {
			return &ValidationError{Index: idx, Field: "addedDate", Reason: "not a string"}
		}
		if strings.TrimSpace(v.Str) != "" {
			if _, ok := parseDate(v.Str); !ok {
				return &ValidationError{Index: idx, Field: "addedDate", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", v.Str)}
			}
		}
	}
	return nil
}

// Parse validates data and decodes it into records, preserving input order.
func Parse(data []byte) ([]Standard, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var out []Standard
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if out == nil {
		out = []Standard{}
	}
	return out, nil
}

// Format indents a raw document the way the bundled file is stored. Keys,
// their order and fields Standard does not model are kept as they are.
func Format(data []byte) []byte {
	return pretty.PrettyOptions(data, &pretty.Options{Indent: "  "})
}

// Names returns the set of record names.
func Names(records []Standard) map[string]struct{} {
	out := make(map[string]struct{}, len(records))
	for _, s := range records {
		out[s.Name] = struct{}{}
	}
	return out
}

func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

func isArray(v gjson.Result) bool {
	return v.Type == gjson.JSON && strings.HasPrefix(v.Raw, "[")
}

func isObject(v gjson.Result) bool {
	return v.Type == gjson.JSON && strings.HasPrefix(v.Raw, "{")
}
