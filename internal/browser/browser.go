// Package browser opens article URLs in the system web browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open launches the platform browser for rawURL. Only http and https
// URLs are accepted; anything else is rejected before any command runs.
func Open(rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}

	name, args := openCommand(runtime.GOOS)
	return exec.Command(name, append(args, rawURL)...).Start()
}

func validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q scheme (http/https only)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", rawURL)
	}
	return nil
}

func openCommand(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		// rundll32 avoids cmd /c start shell interpretation of the URL
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}
