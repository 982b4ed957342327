package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_LevelAndFormat(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    Format
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"debug text", "debug", FormatText, logrus.DebugLevel, false},
		{"warn json", "warn", FormatJSON, logrus.WarnLevel, true},
		{"unknown level", "loud", FormatText, logrus.InfoLevel, false},
		{"padded level", " error ", FormatText, logrus.ErrorLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, tt.format, &buf)
			if log.GetLevel() != tt.wantLevel {
				t.Errorf("expected level %v, got %v", tt.wantLevel, log.GetLevel())
			}
			log.WithField("k", "v").Error("boom")
			isJSON := strings.HasPrefix(strings.TrimSpace(buf.String()), "{")
			if isJSON != tt.wantJSON {
				t.Errorf("expected json=%v, got output %q", tt.wantJSON, buf.String())
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing should be written")
}
