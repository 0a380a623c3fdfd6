package version

import "testing"

func TestGetVersionString(t *testing.T) {
	oldVersion, oldCommit := Version, CommitHash
	defer func() { Version, CommitHash = oldVersion, oldCommit }()

	Version, CommitHash = "v1.0.0", ""
	if got := GetVersionString(); got != "v1.0.0" {
		t.Errorf("Expected v1.0.0, got %q", got)
	}

	CommitHash = "abc123"
	if got := GetVersionString(); got != "v1.0.0 (commit abc123)" {
		t.Errorf("Unexpected version string %q", got)
	}
}
