package buildinfo

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	ua := UserAgent()
	if !strings.HasPrefix(ua, "wikicollage/v1.2.3 ") {
		t.Errorf("UserAgent() = %q, want wikicollage/v1.2.3 prefix", ua)
	}
	if !strings.Contains(ua, "https://") {
		t.Errorf("UserAgent() = %q, want a contact URL", ua)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}}", "commit:", "built:"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() missing %q", want)
		}
	}
}
