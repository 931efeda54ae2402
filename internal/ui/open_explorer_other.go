//go:build !windows && !darwin

package ui

import "os/exec"

// openWithSystem opens path with the desktop's default application
func openWithSystem(path string) error {
	cmd := exec.Command("xdg-open", path)
	return cmd.Start()
}
