//go:build windows

package model

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// MarkHidden sets IsHidden from the FILE_ATTRIBUTE_HIDDEN attribute in
// addition to the dot-prefix convention
func MarkHidden(e *Entry) {
	if e.IsHidden {
		return
	}
	p, err := windows.UTF16PtrFromString(e.Path)
	if err != nil {
		return
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return
	}
	e.IsHidden = attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}

func rootPath() string {
	if wd, err := os.Getwd(); err == nil {
		return filepath.VolumeName(wd) + `\`
	}
	return `C:\`
}
