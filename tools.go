//go:build tools

package tools

// Mocks under pkg/*/mocks are generated by the mockery v3 binary from
// .mockery.yaml; it is not imported here. Run: mockery
