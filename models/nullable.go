package models

import (
	"bytes"
	"encoding/json"
)

// NullableInt distinguishes a JSON field that was left out (Set == false)
// from one that was sent as null (Set == true, Value == nil).
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// IntPtr is a small helper for building optional values in code and tests.
func IntPtr(v int) *int {
	return &v
}

func StringPtr(v string) *string {
	return &v
}
