package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/tsexport/bindings"
	"github.com/teranos/tsexport/errors"
)

const root = "/out"

func newTestWriter(fs afero.Fs, opts ...Option) *Writer {
	opts = append([]Option{WithLogger(zap.NewNop().Sugar())}, opts...)
	return NewWriter(fs, root, opts...)
}

func writeFile(t *testing.T, fs afero.Fs, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0644))
}

func generated(body string) string {
	return bindings.Notice + "\n" + body + "\n"
}

func readIndex(t *testing.T, fs afero.Fs) string {
	t.Helper()
	b, err := afero.ReadFile(fs, filepath.Join(root, "index.ts"))
	require.NoError(t, err)
	return string(b)
}

func assertNoTempFiles(t *testing.T, fs afero.Fs) {
	t.Helper()
	entries, err := afero.ReadDir(fs, root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}

func TestWriteBarrel(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)
	writeFile(t, fs, "User.ts", generated("export type User = { id: number };"))

	index, err := w.WriteBarrel([]string{"User.ts", "models/Order.ts", "Product.ts"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "index.ts"), index)

	want := bindings.Notice +
		"\nexport * from \"./User\";" +
		"\nexport * from \"./models/Order\";" +
		"\nexport * from \"./Product\";"
	assert.Equal(t, want, readIndex(t, fs))

	// per-type files are untouched
	b, err := afero.ReadFile(fs, filepath.Join(root, "User.ts"))
	require.NoError(t, err)
	assert.Equal(t, generated("export type User = { id: number };"), string(b))
	assertNoTempFiles(t, fs)
}

func TestWriteBarrel_ESMImports(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs, WithESMImports(true))

	_, err := w.WriteBarrel([]string{"models/Order.ts"})
	require.NoError(t, err)
	assert.Contains(t, readIndex(t, fs), `export * from "./models/Order.js";`)
}

func TestWriteBarrel_CustomExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs, WithExtension("mts"))

	index, err := w.WriteBarrel([]string{"User.mts"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "index.mts"), index)

	b, err := afero.ReadFile(fs, index)
	require.NoError(t, err)
	assert.Contains(t, string(b), `export * from "./User";`)
}

func TestWriteBarrel_Idempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := newTestWriter(fs)
	paths := []string{"A.ts", "B.ts"}

	_, err := w.WriteBarrel(paths)
	require.NoError(t, err)
	first := readIndex(t, fs)

	_, err = w.WriteBarrel(paths)
	require.NoError(t, err)
	assert.Equal(t, first, readIndex(t, fs))
}

func TestWriteBarrel_ReplacesStaleIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "index.ts", "stale content that must disappear")

	_, err := newTestWriter(fs).WriteBarrel([]string{"A.ts"})
	require.NoError(t, err)

	out := readIndex(t, fs)
	assert.NotContains(t, out, "stale")
	assert.True(t, strings.HasPrefix(out, bindings.Notice))
}

func TestWriteBarrel_RejectsEscapingPath(t *testing.T) {
	fs := afero.NewMemMapFs()

	for _, p := range []string{"../outside.ts", "/etc/passwd", "a/../../b.ts"} {
		_, err := newTestWriter(fs).WriteBarrel([]string{p})
		require.Error(t, err, p)
		assert.True(t, errors.Is(err, errors.ErrPathEscape), p)
	}

	exists, err := afero.Exists(fs, filepath.Join(root, "index.ts"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWriteBarrel_RejectsIndexAsRecordedPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "index.ts", "previous index")

	for _, p := range []string{"index.ts", "./index.ts", "sub/../index.ts"} {
		_, err := newTestWriter(fs).WriteBarrel([]string{"A.ts", p})
		require.Error(t, err, p)
		assert.True(t, errors.Is(err, errors.ErrReservedPath), p)
	}
	assert.Equal(t, "previous index", readIndex(t, fs))
	assertNoTempFiles(t, fs)
}

func TestBody(t *testing.T) {
	body, ok := Body([]byte("// notice\nimport type { A } from \"./A\";\n\nexport type B = A;\n"))
	require.True(t, ok)
	assert.Equal(t, "\nexport type B = A;\n", string(body))

	_, ok = Body([]byte("// notice\nexport type B = string;\n"))
	assert.False(t, ok)

	body, ok = Body([]byte("\n\n"))
	require.True(t, ok)
	assert.Equal(t, "\n", string(body))
}

func TestMerge(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "A.ts", generated("export interface A {}"))
	writeFile(t, fs, "nested/deep/B.ts", generated("export interface B {}"))

	res, err := newTestWriter(fs).Merge([]string{"A.ts", "nested/deep/B.ts"})
	require.NoError(t, err)

	out := readIndex(t, fs)
	assert.Equal(t, bindings.Notice+"\nexport interface A {}\n\nexport interface B {}\n", out)
	assert.Equal(t, 1, strings.Count(out, bindings.Notice), "notice appears exactly once")

	assert.Equal(t, []string{"A.ts", "nested/deep/B.ts"}, res.Merged)
	assert.Empty(t, res.Skipped)

	for _, rel := range []string{"A.ts", "nested/deep/B.ts", "nested/deep", "nested"} {
		exists, err := afero.Exists(fs, filepath.Join(root, rel))
		require.NoError(t, err)
		assert.False(t, exists, "%s should be gone", rel)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "nested/deep"),
		filepath.Join(root, "nested"),
	}, res.PrunedDirs)
	assertNoTempFiles(t, fs)
}

func TestMerge_KeepsImportsOutOfBody(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "B.ts", bindings.Notice+"import type { A } from \"./A\";\n\nexport type B = { a: A };\n")

	_, err := newTestWriter(fs).Merge([]string{"B.ts"})
	require.NoError(t, err)

	out := readIndex(t, fs)
	assert.NotContains(t, out, "import type")
	assert.Contains(t, out, "export type B = { a: A };")
}

func TestMerge_SkipsFileWithoutBlankLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "A.ts", generated("export interface A {}"))
	writeFile(t, fs, "odd/NoBlank.ts", "// header\nexport interface NoBlank {}\n")

	res, err := newTestWriter(fs).Merge([]string{"A.ts", "odd/NoBlank.ts"})
	require.NoError(t, err)

	out := readIndex(t, fs)
	assert.Contains(t, out, "export interface A {}")
	assert.NotContains(t, out, "NoBlank")
	assert.Equal(t, []string{"odd/NoBlank.ts"}, res.Skipped)

	// skipped files stay, so their directory is not pruned
	exists, err := afero.Exists(fs, filepath.Join(root, "odd/NoBlank.ts"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMerge_MissingFileAbortsWithoutSideEffects(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "A.ts", generated("export interface A {}"))
	writeFile(t, fs, "index.ts", "previous index")

	_, err := newTestWriter(fs).Merge([]string{"A.ts", "Missing.ts"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing.ts")

	exists, err := afero.Exists(fs, filepath.Join(root, "A.ts"))
	require.NoError(t, err)
	assert.True(t, exists, "nothing is deleted when a read fails")
	assert.Equal(t, "previous index", readIndex(t, fs))
	assertNoTempFiles(t, fs)
}

func TestMerge_RejectsIndexAsRecordedPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "index.ts", generated("export interface Root {}"))
	writeFile(t, fs, "B.ts", generated("export interface B {}"))

	res, err := newTestWriter(fs).Merge([]string{"index.ts", "B.ts"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrReservedPath))

	assert.Equal(t, generated("export interface Root {}"), readIndex(t, fs))
	exists, err := afero.Exists(fs, filepath.Join(root, "B.ts"))
	require.NoError(t, err)
	assert.True(t, exists, "nothing is deleted when a path is rejected")
	assertNoTempFiles(t, fs)
}

func TestMerge_NeverLeavesEmptyDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	paths := []string{"a/1.ts", "a/b/2.ts", "a/b/c/3.ts", "d/4.ts", "5.ts"}
	for i, p := range paths {
		writeFile(t, fs, p, generated("export type T"+string(rune('0'+i))+" = number;"))
	}
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "already/empty"), 0755))

	_, err := newTestWriter(fs).Merge(paths)
	require.NoError(t, err)

	err = afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && p != root {
			entries, rerr := afero.ReadDir(fs, p)
			require.NoError(t, rerr)
			assert.NotEmpty(t, entries, "empty directory left behind: %s", p)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestRemoveEmptySubdirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "x/y/z"), 0755))
	writeFile(t, fs, "keep/file.ts", "x")
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "keep/empty"), 0755))

	removed, err := RemoveEmptySubdirectories(fs, root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "keep/empty"),
		filepath.Join(root, "x/y/z"),
		filepath.Join(root, "x/y"),
		filepath.Join(root, "x"),
	}, removed)

	exists, err := afero.DirExists(fs, root)
	require.NoError(t, err)
	assert.True(t, exists, "root is never removed")

	exists, err = afero.Exists(fs, filepath.Join(root, "keep/file.ts"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWriteBarrel_OnDisk(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(afero.NewOsFs(), dir, WithLogger(zap.NewNop().Sugar()))

	index, err := w.WriteBarrel([]string{"User.ts"})
	require.NoError(t, err)

	info, err := os.Stat(index)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
