package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_DecodeNullLinks(t *testing.T) {
	raw := `{"count": 25, "next": "http://api/stacks/?page=2", "previous": null, "results": [{"id": 1}, {"id": 2}]}`

	var p Page
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, 25, p.Count)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrevious())
	assert.Nil(t, p.Previous)
	assert.Len(t, p.Results, 2)
	assert.JSONEq(t, `{"id": 1}`, string(p.Results[0]))
}

func TestPage_EmptyLinkIsNotALink(t *testing.T) {
	empty := ""
	p := Page{Next: &empty}
	assert.False(t, p.HasNext())
}

func TestActivity_Transitional(t *testing.T) {
	assert.True(t, ActivityLaunching.Transitional())
	assert.True(t, ActivityTerminating.Transitional())
	assert.False(t, ActivityIdle.Transitional())
	assert.False(t, ActivityDead.Transitional())
	assert.False(t, Activity("bogus").Valid())
	assert.True(t, ActivityPaused.Valid())
}

func TestNormalizeHealth(t *testing.T) {
	assert.Equal(t, HealthHealthy, NormalizeHealth(" Healthy "))
	assert.Equal(t, HealthDegraded, NormalizeHealth("degraded"))
	assert.Equal(t, HealthUnknown, NormalizeHealth(""))
	assert.Equal(t, HealthUnknown, NormalizeHealth("weird"))
}

func TestObjectIDs(t *testing.T) {
	assert.Equal(t, "42", Stack{ID: 42}.ObjectID())
	assert.Equal(t, "7", SecurityGroup{ID: 7}.ObjectID())
	assert.Equal(t, "prod", Environment{Name: "prod"}.ObjectID())
}
