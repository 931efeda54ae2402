//go:build darwin

package ui

import "os/exec"

// openWithSystem opens path with its default application
func openWithSystem(path string) error {
	cmd := exec.Command("open", path)
	return cmd.Start()
}
