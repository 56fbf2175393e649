package screens

import (
	"encoding/json"
	"testing"

	apperrors "github.com/stackdio/console/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultFilter_Invalid(t *testing.T) {
	_, err := NewResultFilter("health ==")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "filter", apperrors.GetField(err))
}

func TestResultFilter_Keep(t *testing.T) {
	raw := json.RawMessage(`{"id": 3, "title": "web", "health": "healthy", "host_count": 4, "labels": {}}`)

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{name: "empty keeps", expr: "", want: true},
		{name: "equality true", expr: "health == 'healthy'", want: true},
		{name: "equality false", expr: "health == 'unhealthy'", want: false},
		{name: "numeric comparison", expr: "host_count > `2`", want: true},
		{name: "missing field is null", expr: "missing", want: false},
		{name: "empty object is falsy", expr: "labels", want: false},
		{name: "non-empty string is truthy", expr: "title", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewResultFilter(tt.expr)
			require.NoError(t, err)
			got, err := f.Keep(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultFilter_KeepUndecodable(t *testing.T) {
	f, err := NewResultFilter("title")
	require.NoError(t, err)
	_, err = f.Keep(json.RawMessage(`not json`))
	assert.Error(t, err)
}
