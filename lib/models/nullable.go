package models

import (
	"encoding/json"
	"fmt"
	"time"

	"dealflow/lib/util"
)

// Nullable field types for PATCH bodies. Plain pointers cannot tell an
// explicit JSON null apart from an omitted key, and that distinction is the
// whole contract of the section update operations: absent leaves the column
// untouched, null clears it, a value replaces it.
//
// Set reports whether the key was present at all; Valid reports whether the
// value was non-null.

// NullableString is a tri-state string field.
type NullableString struct {
	Set   bool
	Valid bool
	Value string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// NullableInt is a tri-state integer field.
type NullableInt struct {
	Set   bool
	Valid bool
	Value int64
}

func (n *NullableInt) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// NullableFloat is a tri-state float field.
type NullableFloat struct {
	Set   bool
	Valid bool
	Value float64
}

func (n *NullableFloat) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// NullableBool is a tri-state boolean field.
type NullableBool struct {
	Set   bool
	Valid bool
	Value bool
}

func (n *NullableBool) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// NullableDate is a tri-state date field accepting YYYY-MM-DD strings,
// parsed as UTC midnight.
type NullableDate struct {
	Set   bool
	Valid bool
	Value time.Time
}

func (n *NullableDate) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a YYYY-MM-DD string: %w", err)
	}
	parsed, err := util.ParseDateUTC(s)
	if err != nil {
		return err
	}
	n.Value = parsed
	n.Valid = true
	return nil
}
