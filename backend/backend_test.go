package backend

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "content"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "content", "a.mdx"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	fs, err := Open(root, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fs.(CIDer); ok {
		t.Error("directory backend claims a content id")
	}
	f, err := fs.Open("/content/a.mdx")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello" {
		t.Errorf("read %q", b)
	}

	if _, err := fs.Open("/content/missing.mdx"); !os.IsNotExist(err) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestGitNotARepository(t *testing.T) {
	if _, err := Open(t.TempDir(), true, "main"); err == nil {
		t.Error("Git backend opened a directory that is not a repository")
	}
}
