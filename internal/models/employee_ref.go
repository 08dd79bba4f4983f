package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// legacyUnassigned is the placeholder id older fixture files use for open shifts.
const legacyUnassigned = "TBD"

// EmployeeRef is an optional employee id. The zero value is unassigned.
type EmployeeRef struct {
	id string
}

// AssignedTo references the given employee. A blank or legacy placeholder id yields Unassigned.
func AssignedTo(id string) EmployeeRef {
	id = strings.TrimSpace(id)
	if id == "" || id == legacyUnassigned {
		return Unassigned()
	}
	return EmployeeRef{id: id}
}

func Unassigned() EmployeeRef { return EmployeeRef{} }

func (r EmployeeRef) IsAssigned() bool { return r.id != "" }

// ID returns the employee id and whether one is set.
func (r EmployeeRef) ID() (string, bool) { return r.id, r.id != "" }

// Is reports whether r references employee id.
func (r EmployeeRef) Is(id string) bool { return r.id != "" && r.id == id }

func (r EmployeeRef) Equal(other EmployeeRef) bool { return r.id == other.id }

func (r EmployeeRef) String() string {
	if r.id == "" {
		return "unassigned"
	}
	return r.id
}

// Ptr returns nil when unassigned.
func (r EmployeeRef) Ptr() *string {
	if r.id == "" {
		return nil
	}
	id := r.id
	return &id
}

func (r EmployeeRef) MarshalJSON() ([]byte, error) {
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *EmployeeRef) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Unassigned()
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("employee id must be a string or null: %w", err)
	}
	*r = AssignedTo(id)
	return nil
}

func (r EmployeeRef) MarshalYAML() (interface{}, error) {
	if r.id == "" {
		return nil, nil
	}
	return r.id, nil
}

// UnmarshalYAML accepts a scalar id; null, empty and "TBD" mean unassigned.
func (r *EmployeeRef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var id *string
	if err := unmarshal(&id); err != nil {
		return fmt.Errorf("employee id must be a scalar: %w", err)
	}
	if id == nil {
		*r = Unassigned()
		return nil
	}
	*r = AssignedTo(*id)
	return nil
}

func (r EmployeeRef) Value() (driver.Value, error) {
	if r.id == "" {
		return nil, nil
	}
	return r.id, nil
}

func (r *EmployeeRef) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = Unassigned()
	case string:
		*r = AssignedTo(v)
	case []byte:
		*r = AssignedTo(string(v))
	default:
		return fmt.Errorf("cannot scan %T into EmployeeRef", src)
	}
	return nil
}
