package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeClock is a settable time source shared by the memory and file tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC)}
}

// ---------------------------------------------------------------------------
// Key
// ---------------------------------------------------------------------------

func TestKey_Deterministic(t *testing.T) {
	k1 := Key("daily", "Istanbul", "Turkey", 13, "19-02-2026")
	k2 := Key("daily", "Istanbul", "Turkey", 13, "19-02-2026")
	if k1 != k2 {
		t.Errorf("same inputs produced different keys: %q vs %q", k1, k2)
	}
}

func TestKey_Distinct(t *testing.T) {
	base := Key("daily", "Istanbul", "Turkey", 13, "19-02-2026")
	others := []string{
		Key("daily", "Ankara", "Turkey", 13, "19-02-2026"),
		Key("daily", "Istanbul", "Turkey", 2, "19-02-2026"),
		Key("daily", "Istanbul", "Turkey", 13, "20-02-2026"),
		Key("monthly", "Istanbul", "Turkey", 13, "19-02-2026"),
	}
	for _, k := range others {
		if k == base {
			t.Errorf("key collision: %q", k)
		}
	}
}

// ---------------------------------------------------------------------------
// Open
// ---------------------------------------------------------------------------

func TestOpen(t *testing.T) {
	s, err := Open(Options{})
	if err != nil {
		t.Fatalf("Open(default) error: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("default backend = %T, want *Memory", s)
	}

	s, err = Open(Options{Backend: BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	if _, ok := s.(*File); !ok {
		t.Errorf("file backend = %T, want *File", s)
	}

	s, err = Open(Options{Backend: BackendNone})
	if err != nil || s != nil {
		t.Errorf("Open(none) = %v, %v; want nil, nil", s, err)
	}

	if _, err := Open(Options{Backend: BackendRedis}); err == nil {
		t.Error("expected error for redis backend without address")
	}
	if _, err := Open(Options{Backend: "memcached"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

// ---------------------------------------------------------------------------
// Memory
// ---------------------------------------------------------------------------

func TestMemory_HitWithinTTL(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	m := NewMemory()
	m.now = clk.now

	if err := m.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	clk.advance(59 * time.Minute)
	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v; want \"v\", true", got, ok)
	}
}

func TestMemory_ExpiresAtTTL(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	m := NewMemory()
	m.now = clk.now

	_ = m.Set(ctx, "k", []byte("v"), time.Hour)
	clk.advance(time.Hour)

	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("expected miss once the TTL has elapsed")
	}
	if m.Len() != 0 {
		t.Errorf("expired entry not evicted, Len = %d", m.Len())
	}
}

func TestMemory_Miss(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get(context.Background(), "absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestMemory_CopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	_ = m.Set(ctx, "k", buf, time.Hour)
	buf[0] = 'x'

	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
}

// ---------------------------------------------------------------------------
// File
// ---------------------------------------------------------------------------

func TestNewFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir", "cache")
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile(%q) error: %v", dir, err)
	}
	if f.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", f.Dir(), dir)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("directory %q was not created", dir)
	}
}

func TestFile_RoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	f.now = clk.now

	key := Key("monthly", "Kayseri", "Turkey", 13, "2026-02")
	if err := f.Set(ctx, key, []byte(`{"a":1}`), 24*time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, ok := f.Get(ctx, key)
	if !ok || string(got) != `{"a":1}` {
		t.Errorf("Get = %q, %v; want payload, true", got, ok)
	}

	clk.advance(24 * time.Hour)
	if _, ok := f.Get(ctx, key); ok {
		t.Error("expected miss after 24h")
	}
}

func TestFile_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	f, _ := NewFile(dir)

	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("not json{{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := f.Get(context.Background(), "broken"); ok {
		t.Error("expected miss for corrupt cache file")
	}
}

// ---------------------------------------------------------------------------
// Redis
// ---------------------------------------------------------------------------

func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("IMSAKIYE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("IMSAKIYE_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r := NewRedis(addr, "", "", 0)
	defer r.Close()

	if err := r.Ping(ctx); err != nil {
		t.Fatalf("Ping error: %v", err)
	}

	key := Key("daily", "Batman", "Turkey", 13, time.Now().UnixNano())
	defer r.Delete(ctx, key)

	if _, ok := r.Get(ctx, key); ok {
		t.Fatal("expected miss before Set")
	}
	if err := r.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, ok := r.Get(ctx, key)
	if !ok || string(got) != "payload" {
		t.Errorf("Get = %q, %v; want \"payload\", true", got, ok)
	}
}
