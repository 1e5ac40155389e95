// Package lenient decodes JSON scalars that storefront clients send loosely typed,
// such as phone numbers posted as numbers or prices posted as strings.
package lenient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var null = []byte("null")

// String accepts a JSON string, number or boolean. Numbers keep their literal digits.
// null, false and zero read as empty, the way the storefront treats missing fields.
type String string

func (s *String) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = ""
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = String(text)
	case 't':
		*s = "true"
	case 'f':
	case '{', '[':
		return fmt.Errorf("lenient: expected a string or number, got %s", data[:1])
	default:
		number, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("lenient: invalid number %s: %w", data, err)
		}
		if number != 0 {
			*s = String(data)
		}
	}
	return nil
}

// Number accepts a JSON number or a numeric string. Anything else reads as unset.
type Number struct {
	Value *float64
}

func (n *Number) UnmarshalJSON(data []byte) error {
	n.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		n.Value = &number
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			n.Value = &parsed
		}
	}
	return nil
}
