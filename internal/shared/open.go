package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// APIKeyURL is where a Steam Web API key is registered.
const APIKeyURL = "https://steamcommunity.com/dev/apikey"

var getRuntime = func() string { return runtime.GOOS }

// openCommand builds the platform command that hands target to the desktop.
func openCommand(target string) (*exec.Cmd, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

// Open hands a URL or file path to the system's default handler (browser, spreadsheet app).
//
// Supports macOS, Linux, and Windows platforms.
func Open(target string) error {
	cmd, err := openCommand(target)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}
