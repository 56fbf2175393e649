package screens

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	apperrors "github.com/stackdio/console/internal/errors"
)

// ResultFilter keeps the API results a JMESPath expression evaluates truthy for.
// A zero ResultFilter keeps everything.
type ResultFilter struct {
	expr string
}

// NewResultFilter validates expr. An empty expression yields a filter that keeps everything.
func NewResultFilter(expr string) (ResultFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return ResultFilter{}, nil
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return ResultFilter{}, apperrors.ValidationField("filter", fmt.Sprintf("invalid JMESPath expression: %v", err))
	}
	return ResultFilter{expr: expr}, nil
}

// Expression returns the configured expression.
func (f ResultFilter) Expression() string {
	return f.expr
}

// Keep reports whether raw passes the filter.
func (f ResultFilter) Keep(raw json.RawMessage) (bool, error) {
	if f.expr == "" {
		return true, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return false, fmt.Errorf("decode result for filter: %w", err)
	}
	out, err := jmespath.Search(f.expr, data)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.expr, err)
	}
	return truthy(out), nil
}

// truthy applies JMESPath truthiness: false, null and empty strings, arrays and objects are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
