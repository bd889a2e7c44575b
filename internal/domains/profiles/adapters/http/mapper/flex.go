package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string, number or null and keeps it as a string.
// Integers keep their literal digits. Decimals take their shortest form, so 12.50 becomes "12.5".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if !json.Valid(data) {
			return fmt.Errorf("invalid number %s", data)
		}
		if !bytes.ContainsAny(data, ".eE") {
			*f = FlexString(data)
			return nil
		}
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", data, err)
		}
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	default:
		return fmt.Errorf("expected string or number, got %s", data)
	}
}

// String returns the underlying value.
func (f FlexString) String() string {
	return string(f)
}
