package model

import (
	"os"
	"path/filepath"
)

// Place is a quick-access location offered by the location switcher
type Place struct {
	Label string
	Path  string
}

// Places returns the existing quick-access locations: home, desktop, the
// working directory and the filesystem root.
func Places() []Place {
	var places []Place
	seen := make(map[string]bool)
	add := func(label, path string) {
		if path == "" || seen[path] {
			return
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return
		}
		seen[path] = true
		places = append(places, Place{Label: label, Path: path})
	}

	home, _ := os.UserHomeDir()
	add("Home", home)
	if home != "" {
		add("Desktop", filepath.Join(home, "Desktop"))
	}
	if wd, err := os.Getwd(); err == nil {
		add("Current", wd)
	}
	add("Root", rootPath())
	return places
}
