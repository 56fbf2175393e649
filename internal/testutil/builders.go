package testutil

import (
	"fmt"
	"time"

	"github.com/stackdio/console/internal/domain/model"
)

// StackBuilder provides a fluent interface for building Stack fixtures.
type StackBuilder struct {
	stack model.Stack
}

// NewStack creates a StackBuilder with sensible defaults.
func NewStack(id int) *StackBuilder {
	return &StackBuilder{
		stack: model.Stack{
			ID:        id,
			URL:       fmt.Sprintf("/api/stacks/%d/", id),
			Title:     fmt.Sprintf("stack-%d", id),
			Namespace: fmt.Sprintf("ns%d", id),
			Blueprint: 1,
			HostCount: 1,
			Activity:  model.ActivityIdle,
			Health:    string(model.HealthHealthy),
			Created:   TestTime().Add(time.Duration(id) * time.Minute),
		},
	}
}

// WithTitle sets the stack title.
func (b *StackBuilder) WithTitle(title string) *StackBuilder {
	b.stack.Title = title
	return b
}

// WithHosts sets the host count.
func (b *StackBuilder) WithHosts(n int) *StackBuilder {
	b.stack.HostCount = n
	return b
}

// WithActivity sets the stack activity.
func (b *StackBuilder) WithActivity(a model.Activity) *StackBuilder {
	b.stack.Activity = a
	return b
}

// WithHealth sets the stack health.
func (b *StackBuilder) WithHealth(h string) *StackBuilder {
	b.stack.Health = h
	return b
}

// Build returns the stack.
func (b *StackBuilder) Build() model.Stack {
	return b.stack
}

// Stacks builds n default stacks with IDs 1..n.
func Stacks(n int) []model.Stack {
	out := make([]model.Stack, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, NewStack(i).Build())
	}
	return out
}
