package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	payload := []byte("image-bytes")
	url, err := store.Upload(context.Background(), payload, "originals/original_u1_1_selfie.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if url != "http://localhost:8080/uploads/originals/original_u1_1_selfie.jpg" {
		t.Fatalf("unexpected url: %s", url)
	}

	onDisk, err := os.ReadFile(filepath.Join(dir, "originals", "original_u1_1_selfie.jpg"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(onDisk) != string(payload) {
		t.Fatalf("stored bytes differ: %s", onDisk)
	}

	if err := store.Delete(context.Background(), url); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "originals", "original_u1_1_selfie.jpg")); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err: %v", err)
	}
}

func TestFileStoreDeleteMissingFile(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "http://files.test")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if err := store.Delete(context.Background(), "http://files.test/generated/nope.png"); err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
}

func TestFileStoreDeleteForeignURL(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "http://files.test")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if err := store.Delete(context.Background(), "https://elsewhere.test/out.png"); err == nil {
		t.Fatalf("expected error for url outside the store")
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://files.test")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	cases := []string{
		"../escape.txt",
		"..\\escape.txt",
		"a/../../escape.txt",
		"  ",
	}
	for _, key := range cases {
		if _, err := store.Upload(context.Background(), []byte("x"), key, "text/plain"); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}

func TestFileStoreCleansKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://files.test")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	url, err := store.Upload(context.Background(), []byte("x"), "/originals/./a.png", "image/png")
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if url != "http://files.test/originals/a.png" {
		t.Fatalf("unexpected url: %s", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "originals", "a.png")); err != nil {
		t.Fatalf("expected file at cleaned key: %v", err)
	}
}
