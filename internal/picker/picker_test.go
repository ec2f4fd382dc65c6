//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package picker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestDiscover_SkipsHiddenAndBoundsDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.txt",
		".hidden",
		"sub/b.txt",
		"sub/deep/c.txt",
		"node_modules/x.js",
		".git/config",
	)

	entries, err := Discover(context.Background(), root, Options{MaxDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names(entries))
	assert.Equal(t, filepath.Join(root, "sub", "b.txt"), entries[1].Path)
	assert.Equal(t, int64(1), entries[0].Size)

	entries, err = Discover(context.Background(), root, Options{MaxDepth: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, names(entries))
}

func TestDiscover_Limit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "1.bin", "2.bin", "3.bin", "4.bin", "5.bin")

	entries, err := Discover(context.Background(), root, Options{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
}

func TestDiscover_OrderIsStableAcrossSubdirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "z.txt", "a/x.bin", "b/y.bin", "c/d/w.bin", ".hidden/c.txt", "vendor/d.go")

	first, err := Discover(context.Background(), root, Options{})
	require.NoError(t, err)

	var got []string
	for _, e := range first {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		got = append(got, rel)
	}
	assert.Equal(t, []string{
		filepath.Join("a", "x.bin"),
		filepath.Join("b", "y.bin"),
		filepath.Join("c", "d", "w.bin"),
		"z.txt",
	}, got)
	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool { return first[i].Path < first[j].Path }))

	for range 5 {
		again, err := Discover(context.Background(), root, Options{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "report.pdf", "with space.doc")

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "plain path", input: filepath.Join(root, "report.pdf"), want: filepath.Join(root, "report.pdf"), wantOK: true},
		{name: "quoted with whitespace", input: "  '" + filepath.Join(root, "report.pdf") + "'\n", want: filepath.Join(root, "report.pdf"), wantOK: true},
		{name: "file url", input: "file://" + filepath.Join(root, "report.pdf"), want: filepath.Join(root, "report.pdf"), wantOK: true},
		{name: "escaped space", input: filepath.Join(root, `with\ space.doc`), want: filepath.Join(root, "with space.doc"), wantOK: true},
		{name: "directory", input: root, wantOK: false},
		{name: "missing", input: filepath.Join(root, "missing.txt"), wantOK: false},
		{name: "prose", input: "hello world", wantOK: false},
		{name: "empty", input: "   ", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("CYBERSHIELD_TEST_DIR", "/tmp/cs")

	got, err := ExpandPath("$CYBERSHIELD_TEST_DIR/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/tmp/cs/file.txt"), got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = ExpandPath("~/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), got)
}
