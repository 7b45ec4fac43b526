package storage

import (
	"os"
	"path/filepath"
	"testing"
)

type note struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestStore(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(filepath.Join(tempDir, "kv"))
	if err != nil {
		t.Fatalf("Failed to create Store: %v", err)
	}

	key := "likes"
	value := note{Title: "Pancakes", Tags: []string{"breakfast"}}

	t.Run("CheckExists-False", func(t *testing.T) {
		if store.Exists(key) {
			t.Errorf("Expected key '%s' to not exist, but it does", key)
		}
	})

	t.Run("Get-NotFound", func(t *testing.T) {
		var got note
		found, err := store.Get(key, &got)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if found {
			t.Error("Expected found to be false")
		}
	})

	t.Run("Put", func(t *testing.T) {
		if err := store.Put(key, value); err != nil {
			t.Fatalf("Failed to put value: %v", err)
		}

		filePath := filepath.Join(tempDir, "kv", key+".json")
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			t.Errorf("Expected file '%s' to be created, but it wasn't", filePath)
		}
	})

	t.Run("CheckExists-True", func(t *testing.T) {
		if !store.Exists(key) {
			t.Errorf("Expected key '%s' to exist, but it doesn't", key)
		}
	})

	t.Run("Get", func(t *testing.T) {
		var got note
		found, err := store.Get(key, &got)
		if err != nil {
			t.Fatalf("Failed to get value: %v", err)
		}
		if !found {
			t.Fatal("Expected found to be true")
		}
		if got.Title != value.Title {
			t.Errorf("Expected title '%s', got '%s'", value.Title, got.Title)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "breakfast" {
			t.Errorf("Expected tags [breakfast], got %v", got.Tags)
		}
	})

	t.Run("Put-Overwrites", func(t *testing.T) {
		if err := store.Put(key, note{Title: "Waffles"}); err != nil {
			t.Fatalf("Failed to put value: %v", err)
		}
		var got note
		if _, err := store.Get(key, &got); err != nil {
			t.Fatalf("Failed to get value: %v", err)
		}
		if got.Title != "Waffles" {
			t.Errorf("Expected title 'Waffles', got '%s'", got.Title)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(key); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if store.Exists(key) {
			t.Error("Expected key to be gone after delete")
		}
		if err := store.Delete(key); err != nil {
			t.Errorf("Deleting a missing key should not fail: %v", err)
		}
	})

	t.Run("Put-EmptyKey", func(t *testing.T) {
		if err := store.Put("", value); err == nil {
			t.Error("Expected an error for an empty key")
		}
	})
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"likes":         "likes",
		"list:tg:42":    "list_tg_42",
		"../etc/passwd": ".._etc_passwd",
	}
	for in, want := range tests {
		if got := sanitizeKey(in); got != want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
