package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRefJSON(t *testing.T) {
	var s struct {
		A EmployeeRef `json:"a"`
		B EmployeeRef `json:"b"`
		C EmployeeRef `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"e1","b":null,"c":"TBD"}`), &s))

	assert.True(t, s.A.Is("e1"))
	assert.False(t, s.B.IsAssigned())
	assert.False(t, s.C.IsAssigned())

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"e1","b":null,"c":null}`, string(out))
}

func TestEmployeeRefSQL(t *testing.T) {
	v, err := Unassigned().Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var ref EmployeeRef
	require.NoError(t, ref.Scan(nil))
	assert.False(t, ref.IsAssigned())
	require.NoError(t, ref.Scan([]byte("e7")))
	id, ok := ref.ID()
	assert.True(t, ok)
	assert.Equal(t, "e7", id)
	assert.Equal(t, "e7", *ref.Ptr())
}

func TestUnassignedNeverMatches(t *testing.T) {
	assert.False(t, Unassigned().Is(""))
	assert.Nil(t, Unassigned().Ptr())
}
