package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()

	if !strings.Contains(s, Version) {
		t.Errorf("String() = %q, should contain version %q", s, Version)
	}
	if !strings.Contains(s, Commit) {
		t.Errorf("String() = %q, should contain commit %q", s, Commit)
	}
	if !strings.Contains(s, BuildTime) {
		t.Errorf("String() = %q, should contain build time %q", s, BuildTime)
	}
}
