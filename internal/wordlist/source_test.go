package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestParseFiltersBlankAndCommentLines(t *testing.T) {
	in := "www\n#comment\n\n   \n  mail  \n\t# indented comment\napi\r\nwww\n"
	words, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"www", "mail", "api", "www"}, words)
}

func TestParseKeepsCaseAndInvalidEntries(t *testing.T) {
	words, err := Parse(strings.NewReader("WWW\na.b\nsub domain\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"WWW", "a.b", "sub domain"}, words)
}

func TestParseUTF16WithBOM(t *testing.T) {
	// "dev\nstage\n" in UTF-16LE with a byte order mark.
	raw := []byte{0xFF, 0xFE}
	for _, r := range "dev\nstage\n" {
		raw = append(raw, byte(r), 0)
	}
	words, err := Parse(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "stage"}, words)
}

func TestParseDropsInvalidBytes(t *testing.T) {
	words, err := Parse(strings.NewReader("ab\xffc\nok\n\xfe\xff\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "ok"}, words)
}

func TestParseSkipsOversizedLines(t *testing.T) {
	in := strings.Repeat("a", 2*maxLine) + "\nwww\n" + strings.Repeat("b", maxLine+1)
	words, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"www"}, words)
}

func TestParseLastLineWithoutNewline(t *testing.T) {
	words, err := Parse(strings.NewReader("www\nmail"))
	require.NoError(t, err)
	assert.Equal(t, []string{"www", "mail"}, words)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, []byte("www\n#c\nmail\n"))
	list, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"www", "mail"}, list.Words)
	assert.Equal(t, path, list.Path)
	assert.NotZero(t, list.Digest)

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, list.Digest, again.Digest)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadDirectoryIsNotNotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestIsValidCandidate(t *testing.T) {
	valid := []string{"www", "mail-1", "_dmarc", "API"}
	invalid := []string{"", "a.b", "a/b", "sub domain", ".", "www."}
	for _, s := range valid {
		assert.True(t, IsValidCandidate(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsValidCandidate(s), s)
	}
}
