package logging

import (
	"os"
	"testing"
)

func TestSetupServeMode_WritesToFileOnly(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cleanup, err := SetupServeMode("debug")
	if err != nil {
		t.Fatalf("SetupServeMode failed: %v", err)
	}
	defer cleanup()

	if _, err := os.Stat(DefaultLogPath()); os.IsNotExist(err) {
		t.Error("expected log directory/file to exist after SetupServeMode")
	}
}
