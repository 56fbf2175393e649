//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` or run through `go run`
// and are not tracked in go.mod since they are not runtime dependencies.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks (see internal/mocks/generate.go)
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock/mockgen@v0.6.0
//   Docs: https://github.com/uber-go/mock
//
// golangci-lint - static analysis; the nolint directives in cmd/ and
// internal/bootstrap target its forbidigo and ireturn linters
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest
//   Docs: https://golangci-lint.run
