//go:build darwin

// Package darwin provides macOS platform support using the Accessibility and
// CoreGraphics APIs. All functionality requires CGo (C frameworks).
// When CGo is disabled, the package compiles as a no-op stub.
package darwin
