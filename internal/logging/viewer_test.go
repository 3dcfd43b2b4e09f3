package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogFile(t *testing.T, lines []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rarian.log")
	data := ""
	for _, l := range lines {
		data += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestViewer_Tail_ReturnsLastNLines(t *testing.T) {
	path := writeLogFile(t, []string{
		`{"time":"2026-01-01T00:00:00Z","level":"INFO","msg":"one"}`,
		`{"time":"2026-01-01T00:00:01Z","level":"INFO","msg":"two"}`,
		`{"time":"2026-01-01T00:00:02Z","level":"INFO","msg":"three"}`,
	})

	v := NewViewer(ViewerConfig{})
	entries, err := v.Tail(path, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Msg)
	assert.Equal(t, "three", entries[1].Msg)
}

func TestViewer_Tail_FiltersByLevel(t *testing.T) {
	path := writeLogFile(t, []string{
		`{"time":"2026-01-01T00:00:00Z","level":"DEBUG","msg":"noisy"}`,
		`{"time":"2026-01-01T00:00:01Z","level":"ERROR","msg":"boom"}`,
	})

	v := NewViewer(ViewerConfig{Level: "warn"})
	entries, err := v.Tail(path, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Msg)
}

func TestViewer_Tail_FiltersByPattern(t *testing.T) {
	path := writeLogFile(t, []string{
		`{"time":"2026-01-01T00:00:00Z","level":"INFO","msg":"search completed"}`,
		`{"time":"2026-01-01T00:00:01Z","level":"INFO","msg":"ingest completed"}`,
	})

	v := NewViewer(ViewerConfig{Pattern: regexp.MustCompile("ingest")})
	entries, err := v.Tail(path, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ingest completed", entries[0].Msg)
}

func TestViewer_Tail_UnparseableLineKeepsRaw(t *testing.T) {
	path := writeLogFile(t, []string{"not json at all"})

	v := NewViewer(ViewerConfig{})
	entries, err := v.Tail(path, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsValid)
	assert.Equal(t, "not json at all", entries[0].Raw)
}

func TestViewer_Print_WritesFormattedLines(t *testing.T) {
	path := writeLogFile(t, []string{
		`{"time":"2026-01-01T00:00:00Z","level":"INFO","msg":"hello"}`,
	})

	v := NewViewer(ViewerConfig{})
	entries, err := v.Tail(path, 10)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	v.Print(buf, entries)
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "hello")
}
