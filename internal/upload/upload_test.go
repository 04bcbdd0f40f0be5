package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveReturnsServableURL(t *testing.T) {
	s, err := New(t.TempDir(), "http://chat.local/")
	require.NoError(t, err)

	url, err := s.Save([]byte("plain notes"), "notes.txt")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://chat.local/uploads/"))
	require.True(t, strings.HasSuffix(url, ".txt"))

	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	require.Equal(t, "plain notes", string(data))
}

func TestSaveKeepsOnlyExtensionOfOriginalName(t *testing.T) {
	s, err := New(t.TempDir(), "http://chat.local")
	require.NoError(t, err)

	url, err := s.Save([]byte("x"), "../../etc/passwd.txt")
	require.NoError(t, err)

	name := filepath.Base(url)
	require.NotContains(t, name, "passwd")
	require.True(t, strings.HasSuffix(name, ".txt"))
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	s, err := New(t.TempDir(), "http://chat.local")
	require.NoError(t, err)

	for _, name := range []string{"payload.exe", "archive.zip", "noext", "script.sh"} {
		_, err := s.Save([]byte("data"), name)
		require.ErrorIs(t, err, ErrUnsupportedType, "name=%s", name)
	}

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Empty(t, entries, "rejected uploads must not be written")
}

func TestSaveRejectsMismatchedContent(t *testing.T) {
	s, err := New(t.TempDir(), "http://chat.local")
	require.NoError(t, err)

	// ELF header dressed up as an image.
	_, err = s.Save([]byte("\x7fELF\x02\x01\x01\x00"), "innocent.png")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsEmptyFile(t *testing.T) {
	s, err := New(t.TempDir(), "http://chat.local")
	require.NoError(t, err)

	_, err = s.Save(nil, "empty.txt")
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestSaveNamesDoNotCollide(t *testing.T) {
	s, err := New(t.TempDir(), "http://chat.local")
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		url, err := s.Save([]byte("same content"), "a.txt")
		require.NoError(t, err)
		_, dup := seen[url]
		require.False(t, dup, "duplicate url %s", url)
		seen[url] = struct{}{}
	}
}
