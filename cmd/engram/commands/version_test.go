package commands

import (
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	origVersion := Version
	origCommit := Commit
	Version = "1.2.3"
	Commit = "abc123def"
	defer func() {
		Version = origVersion
		Commit = origCommit
	}()

	info := buildInfo()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3")
	}
	if info.Commit != "abc123def" {
		t.Errorf("Commit = %q, want %q", info.Commit, "abc123def")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestVersionInfoString(t *testing.T) {
	info := VersionInfo{
		Version:   "1.2.3",
		Commit:    "abc123",
		BuildDate: "2026-01-15",
		GoVersion: "go1.24.0",
		OS:        "linux",
		Arch:      "amd64",
	}

	out := info.String()
	for _, want := range []string{
		"engram version 1.2.3",
		"Commit:     abc123",
		"Built:      2026-01-15",
		"OS/Arch:    linux/amd64",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}

func TestVersionInfoJSON(t *testing.T) {
	info := VersionInfo{
		Version:   "1.0.0",
		Commit:    "abc123",
		BuildDate: "2026-01-15",
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	out := string(data)
	for _, want := range []string{`"version":"1.0.0"`, `"commit":"abc123"`, `"build_date":"2026-01-15"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s: %s", want, out)
		}
	}
}

func TestRunVersion(t *testing.T) {
	t.Run("default output", func(t *testing.T) {
		versionShort = false
		versionJSON = false
		if err := runVersion(versionCmd, nil); err != nil {
			t.Errorf("runVersion() error = %v", err)
		}
	})

	t.Run("short output", func(t *testing.T) {
		versionShort = true
		defer func() { versionShort = false }()
		if err := runVersion(versionCmd, nil); err != nil {
			t.Errorf("runVersion() error = %v", err)
		}
	})
}
