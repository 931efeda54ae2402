package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Entry represents one filesystem entry shown as an icon
type Entry struct {
	ID       string // stable identity within a location (the base name)
	Name     string // display name
	Path     string
	IsDir    bool
	IsHidden bool
	Size     int64
	ModTime  time.Time
	MimeType string // empty when not detected
}

// NewEntry builds an entry for path, deriving identity, name and hidden flag
func NewEntry(path string, isDir bool, size int64, modTime time.Time) Entry {
	name := filepath.Base(path)
	return Entry{
		ID:       name,
		Name:     name,
		Path:     path,
		IsDir:    isDir,
		IsHidden: strings.HasPrefix(name, "."),
		Size:     size,
		ModTime:  modTime,
	}
}

// Ext returns the lower-cased extension without the dot
func (e Entry) Ext() string {
	if e.IsDir {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(e.Name)), ".")
}

// TypeKey is the key used when sorting by type: the mime type when known,
// the extension otherwise. Directories sort under "inode/directory".
func (e Entry) TypeKey() string {
	if e.IsDir {
		return "inode/directory"
	}
	if e.MimeType != "" {
		return e.MimeType
	}
	return e.Ext()
}

// SameContent reports whether two entries with the same identity carry the
// same observable data
func (e Entry) SameContent(o Entry) bool {
	return e.IsDir == o.IsDir &&
		e.Size == o.Size &&
		e.ModTime.Equal(o.ModTime) &&
		e.IsHidden == o.IsHidden &&
		e.MimeType == o.MimeType &&
		e.Name == o.Name
}
