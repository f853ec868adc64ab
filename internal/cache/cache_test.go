package cache

import (
	"os"
	"strings"
	"testing"
	"time"
)

func sampleDoc() *Document {
	return &Document{
		Body:        []byte("本周工作：\n1.完成报告。"),
		ContentType: "text/plain; charset=utf-8",
		FinalURL:    "https://example.com/report.txt",
		FetchedAt:   time.Now().UTC(),
	}
}

func TestKey(t *testing.T) {
	a := Key("https://example.com/a")
	if !strings.HasPrefix(a, "proofline:doc:v1:") {
		t.Errorf("unexpected key prefix: %s", a)
	}
	if a == Key("https://example.com/b") {
		t.Error("expected distinct keys for distinct URLs")
	}
	if a != Key("https://example.com/a") {
		t.Error("expected stable key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("u")

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	doc := sampleDoc()
	if err := c.Set(key, doc, 0); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get(key)
	if !ok || string(got.Body) != string(doc.Body) {
		t.Fatalf("expected hit with same body, got %v", got)
	}

	// Callers get copies
	got.FinalURL = "changed"
	again, _ := c.Get(key)
	if again.FinalURL != doc.FinalURL {
		t.Error("mutating a returned document changed the cache")
	}

	_ = c.Delete(key)
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("k", sampleDoc(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := Key("https://example.com/report.txt")

	if err := c.Set(key, sampleDoc(), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected disk hit")
	}
	if got.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("unexpected content type %q", got.ContentType)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ":") || strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("unexpected cache file name %q", e.Name())
		}
	}

	if err := c.Delete(key); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("expected deleting a missing entry to succeed, got %v", err)
	}
}

func TestDiskCache_Expired(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	_ = c.Set("k", sampleDoc(), -time.Second)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskCache(dir, time.Hour)
	_ = disk.Set("k", sampleDoc(), 0)

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	if _, ok := c.memory.Get("k"); ok {
		t.Fatal("expected memory miss before first read")
	}

	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected layered hit from disk")
	}
	if _, ok := c.memory.Get("k"); !ok {
		t.Error("expected disk hit to be promoted to memory")
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after clear")
	}
}
