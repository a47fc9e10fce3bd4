//go:build tools

// Package tools documents development tool dependencies.
// These tools are run through `go run` or installed via `go install` and are not
// tracked in go.mod since they are development tools, not runtime dependencies.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks from the API ports
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock/mockgen@v0.6.0 (matches the go.mod test dependency)
//
// golangci-lint - static checks honoured by the //nolint directives in the tree
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest
