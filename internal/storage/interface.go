package storage

import "errors"

var (
	// ErrNotInitialized is returned by Load when the backing store does not exist yet
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrNotLoaded is returned when a key operation runs before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrAlreadyInitialized is returned by Init when the backing store already exists
	ErrAlreadyInitialized = errors.New("storage already initialized")
)

// Provider is the synchronous key-value contract every backend implements.
// Values are opaque JSON documents stored whole under one key. Providers are
// not safe for concurrent processes: the last writer wins.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Keys
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL backends
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current int, latest int, err error)
}

// Historian is implemented by backends that keep overwritten values
type Historian interface {
	History(key string) ([]string, error)
}

var (
	_ Migrator  = (*SQLiteStore)(nil)
	_ Migrator  = (*PostgresStore)(nil)
	_ Historian = (*SQLiteStore)(nil)
	_ Historian = (*PostgresStore)(nil)
)
