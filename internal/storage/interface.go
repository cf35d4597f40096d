package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load when a key has never been saved.
var ErrNotFound = errors.New("record not found")

// Provider persists opaque JSON records under string keys. Every collection of
// game state is stored as one record.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Records
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error

	// Utils
	Location() string
}

// Namespaced prefixes every key so several profiles can share one backend.
type Namespaced struct {
	Provider
	prefix string
}

// WithNamespace wraps p so keys become "<namespace>:<key>". An empty
// namespace returns p unchanged.
func WithNamespace(p Provider, namespace string) Provider {
	if namespace == "" {
		return p
	}
	return &Namespaced{Provider: p, prefix: namespace + ":"}
}

func (n *Namespaced) Load(ctx context.Context, key string) ([]byte, error) {
	return n.Provider.Load(ctx, n.prefix+key)
}

func (n *Namespaced) Save(ctx context.Context, key string, value []byte) error {
	return n.Provider.Save(ctx, n.prefix+key, value)
}

func (n *Namespaced) Location() string {
	return n.Provider.Location() + " (namespace " + n.prefix[:len(n.prefix)-1] + ")"
}

// RecordInfo describes a stored record without its contents.
type RecordInfo struct {
	Key       string
	SizeBytes int
	UpdatedAt time.Time
}

// Inspector is implemented by backends that can list their records.
type Inspector interface {
	Records(ctx context.Context) ([]RecordInfo, error)
}

// SchemaValidator is implemented by backends with a versioned schema.
type SchemaValidator interface {
	ValidateSchema(ctx context.Context) error
}
