package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a task. It holds the id text exactly as the remote sent
// it and is used verbatim in request paths, so string ids such as "0012"
// survive. Only comparison is numeric: Equal treats "03", 3 and 3.0 as the
// same task.
type ID string

// inputPrefix marks the element id of a task's title input.
const inputPrefix = "listid"

// ParseID turns text from a command line, path or attribute into an ID.
// Surrounding space is dropped; nothing else is rewritten.
func ParseID(s string) ID { return ID(strings.TrimSpace(s)) }

// Key is the comparison form of id: integral values become their base-10
// text, anything else is kept trimmed.
func (id ID) Key() string {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// Equal reports whether id and other name the same task.
func (id ID) Equal(other ID) bool { return id.Key() == other.Key() }

// IntID builds an ID from a number.
func IntID(n int64) ID { return ID(strconv.FormatInt(n, 10)) }

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id == "" }

// Int returns the numeric value of an integral id.
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// MarshalJSON writes ids already in plain base-10 form as JSON numbers and
// everything else, "0012" included, as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string. Strings are
// kept verbatim; integral numbers are stored in base-10 form.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(ID(n.String()).Key())
	return nil
}

// InputElementID is the element id of the title input rendered for id.
func InputElementID(id ID) string { return inputPrefix + string(id) }

// IDFromInputElement recovers the task id from a title-input element id.
func IDFromInputElement(elementID string) (ID, bool) {
	rest, ok := strings.CutPrefix(elementID, inputPrefix)
	if !ok || strings.TrimSpace(rest) == "" {
		return "", false
	}
	return ParseID(rest), true
}
