//go:build !darwin

// On non-darwin platforms this package compiles as a no-op stub so that
// the blank import in main.go remains buildable everywhere.
package darwin
