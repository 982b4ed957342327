package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"stickynotes/internal/ports"
)

// Opener implements ports.PageOpener with the platform's URL handler
type Opener struct {
	goos string
	run  func(*exec.Cmd) error
}

var _ ports.PageOpener = (*Opener)(nil)

// NewOpener creates an opener for the running platform
func NewOpener() *Opener {
	return &Opener{
		goos: runtime.GOOS,
		run:  (*exec.Cmd).Run,
	}
}

// OpenURL opens an http(s) or file URL in the default browser
func (o *Opener) OpenURL(rawURL string) error {
	cmd, err := o.Command(rawURL)
	if err != nil {
		return err
	}
	return o.run(cmd)
}

// Command builds the command that would open rawURL
func (o *Opener) Command(rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return nil, fmt.Errorf("refusing to open %q URL", u.Scheme)
	}

	switch o.goos {
	case "darwin":
		return exec.Command("open", rawURL), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", rawURL), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
