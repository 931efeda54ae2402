//go:build !windows

package model

// MarkHidden is a no-op: the dot-prefix convention set by NewEntry is the
// only hidden marker on this platform
func MarkHidden(e *Entry) {}

func rootPath() string {
	return "/"
}
