package redis

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/julianstephens/streakwars/internal/storage"
)

type fakeClient struct {
	data    map[string]string
	setErr  error
	pingErr error
	closed  bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.pingErr)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewWithClient(client, "fake")

	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := store.Load(ctx, "streak_wars_user"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Save(ctx, "streak_wars_user", []byte(`{"id":"u"}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load(ctx, "streak_wars_user")
	if err != nil || string(got) != `{"id":"u"}` {
		t.Errorf("Load = %q, %v", got, err)
	}
	if err := store.Close(); err != nil || !client.closed {
		t.Error("Close should close the client")
	}
}

func TestInitReportsPingFailure(t *testing.T) {
	client := newFakeClient()
	client.pingErr = errors.New("dial tcp: refused")
	if err := NewWithClient(client, "fake").Init(context.Background()); err == nil {
		t.Error("expected Init to fail when ping fails")
	}
}

func TestSaveNetworkErrorIsTransient(t *testing.T) {
	client := newFakeClient()
	client.setErr = &net.OpError{Op: "write", Net: "tcp", Err: errors.New("broken pipe")}

	err := NewWithClient(client, "fake").Save(context.Background(), "k", []byte("v"))
	if !storage.IsTransient(err) {
		t.Errorf("expected transient error, got %v", err)
	}
}

func TestNewRejectsPasswordInURL(t *testing.T) {
	if _, err := New("redis://:secret@localhost:6379/0", ""); err == nil {
		t.Error("expected error for password in URL")
	}
	s, err := New("redis://localhost:6379/2", "from-keyring")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()
	if s.Location() != "redis://localhost:6379/2" {
		t.Errorf("Location = %q", s.Location())
	}
}
