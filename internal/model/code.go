package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Code is a server-assigned identifier. The API may send it either as a JSON
// string or as a number; both decode to the same textual form.
type Code string

// UnmarshalJSON accepts strings, numbers and null.
func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("code must be a string or a number, got %s", b)
	}
	*c = Code(n.String())
	return nil
}

func (c Code) String() string { return string(c) }
