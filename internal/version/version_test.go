package version

import (
	"runtime/debug"
	"testing"
)

func TestFromSettings(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "", ""
	fromSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
	})

	if Commit != "0123456-dirty" {
		t.Errorf("Commit = %q", Commit)
	}
	if Version != "dev-20260301" {
		t.Errorf("Version = %q", Version)
	}
}

func TestFromSettings_KeepsLdflags(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v1.0.0", "abc123"
	fromSettings([]debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}})

	if Full() != "v1.0.0 (commit: abc123)" {
		t.Errorf("Full() = %q", Full())
	}
}
