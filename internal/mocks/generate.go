// Package mocks provides mock implementations of the console ports for tests.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the core interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	fetcher := mocks.NewMockPageFetcher(ctrl)
//	fetcher.EXPECT().FetchPage(gomock.Any(), "/api/stacks/").Return(page, nil)
package mocks

// Generate mock for PageFetcher interface from internal/core package.
// This creates MockPageFetcher with methods for all PageFetcher interface methods:
// FetchPage
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=page_fetcher_mock.go github.com/stackdio/console/internal/core PageFetcher

// Generate mock for Navigator interface from internal/core package.
// This creates MockNavigator with methods for all Navigator interface methods:
// Navigate, Reload
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=navigator_mock.go github.com/stackdio/console/internal/core Navigator

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods for all CacheRepository interface methods:
// Set, Get, Delete, Health
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/stackdio/console/internal/core CacheRepository
