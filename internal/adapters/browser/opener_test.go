package browser

import (
	"errors"
	"os/exec"
	"testing"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		url      string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "linux uses xdg-open",
			goos:     "linux",
			url:      "https://example.com/report",
			wantArgs: []string{"xdg-open", "https://example.com/report"},
		},
		{
			name:     "darwin uses open",
			goos:     "darwin",
			url:      "http://example.com/",
			wantArgs: []string{"open", "http://example.com/"},
		},
		{
			name:     "file URLs are allowed",
			goos:     "linux",
			url:      "file:///tmp/page.html",
			wantArgs: []string{"xdg-open", "file:///tmp/page.html"},
		},
		{
			name:    "javascript URLs are refused",
			goos:    "linux",
			url:     "javascript:alert(1)",
			wantErr: true,
		},
		{
			name:    "unknown platform",
			goos:    "plan9",
			url:     "https://example.com/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{goos: tt.goos}
			cmd, err := o.Command(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Command(%q) expected error", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("Command(%q) error = %v", tt.url, err)
			}
			if len(cmd.Args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", cmd.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if cmd.Args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %q, want %q", i, cmd.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestOpenURL_RunsCommand(t *testing.T) {
	var ran []string
	o := &Opener{goos: "linux", run: func(cmd *exec.Cmd) error {
		ran = cmd.Args
		return errors.New("no display")
	}}

	err := o.OpenURL("https://example.com/")
	if err == nil || err.Error() != "no display" {
		t.Errorf("OpenURL() error = %v, want the runner's error", err)
	}
	if len(ran) != 2 || ran[0] != "xdg-open" {
		t.Errorf("ran %v", ran)
	}
}
