package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLocalStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStorage(&LocalConfig{Dir: dir, PublicURL: "/static/"})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("failed to ensure bucket: %v", err)
	}
	return store, dir
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, _ := newTestLocalStorage(t)
	ctx := context.Background()

	content := "fake png bytes"
	key := "templates/abc123.png"

	if err := store.Upload(ctx, key, strings.NewReader(content), int64(len(content)), "image/png"); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	exists, err := store.Exists(ctx, key)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected object to exist after upload")
	}

	rc, err := store.Download(ctx, key)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != content {
		t.Errorf("expected %q, got %q", content, got)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	exists, err = store.Exists(ctx, key)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Error("expected object to be gone after delete")
	}
}

func TestLocalStorage_List(t *testing.T) {
	store, _ := newTestLocalStorage(t)
	ctx := context.Background()

	objects := []string{
		"templates/a.png",
		"templates/b.jpg",
		"other/c.txt",
	}
	for _, key := range objects {
		if err := store.Upload(ctx, key, strings.NewReader("x"), 1, ""); err != nil {
			t.Fatalf("upload %s failed: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "templates/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys under templates/, got %v", keys)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, "templates/") {
			t.Errorf("key %q outside requested prefix", key)
		}
	}
}

func TestLocalStorage_ListEmpty(t *testing.T) {
	store, _ := newTestLocalStorage(t)

	keys, err := store.List(context.Background(), "templates/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

func TestLocalStorage_GetURL(t *testing.T) {
	store, _ := newTestLocalStorage(t)

	// Trailing slash on the public URL must not double up.
	if got := store.GetURL("templates/a.png"); got != "/static/templates/a.png" {
		t.Errorf("GetURL() = %q", got)
	}
}

func TestLocalStorage_KeyNeverEscapesRoot(t *testing.T) {
	store, dir := newTestLocalStorage(t)
	ctx := context.Background()

	if err := store.Upload(ctx, "../../escape.txt", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	parent := filepath.Dir(filepath.Dir(dir))
	if _, err := os.Stat(filepath.Join(parent, "escape.txt")); err == nil {
		t.Fatal("traversal key wrote outside the storage root")
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err != nil {
		t.Errorf("traversal key should be confined to the root: %v", err)
	}
}

func TestLocalStorage_DeleteMissingIsNoError(t *testing.T) {
	store, _ := newTestLocalStorage(t)

	if err := store.Delete(context.Background(), "templates/nope.png"); err != nil {
		t.Errorf("deleting a missing object must not error: %v", err)
	}
}

func TestNewLocalStorage_RequiresDir(t *testing.T) {
	if _, err := NewLocalStorage(&LocalConfig{}); err == nil {
		t.Error("expected an error without a directory")
	}
}
