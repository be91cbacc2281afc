// Package descent provides the version information for the descent solver.
package descent

// Version is the current version of descent.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
