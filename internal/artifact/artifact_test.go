package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ПМ-21", "ПМ-21"},
		{"ИС/ВТ-11", "ИСВТ-11"},
		{`a<b>c:d"e\f|g?h*i`, "abcdefghi"},
		{"  ФН 22 ", "ФН 22"},
		{"tab\there", "tabhere"},
		{"../..", "...."},
		{"///", "_"},
		{"..", "_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), "Sanitize(%q)", tt.in)
	}
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "ПМ-21", GroupKey("ПМ-21.html"))
	assert.Equal(t, "ПМ-21", GroupKey(filepath.Join("htmls", "ПМ-21.html")))
	assert.Equal(t, "v1.2", GroupKey("v1.2.html"))
}

func TestWriteVerifiesSize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "htmls")

	path, size, err := Write(dir, "ПМ/21", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ПМ21.html"), path)
	assert.EqualValues(t, len("<html></html>"), size)

	_, _, err = Write(dir, "empty", "")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.html", "a.HTML", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.html"), 0755))

	paths, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.HTML"), filepath.Join(dir, "b.html")}, paths)

	_, err = List(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
