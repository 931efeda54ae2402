//go:build windows

package ui

import "os/exec"

// openWithSystem opens path with its default application
func openWithSystem(path string) error {
	cmd := exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	return cmd.Start()
}
