//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd,!dragonfly

package diagnostic

// IsTerminal reports false; color must be requested explicitly here
func IsTerminal(fd uintptr) bool {
	return false
}
