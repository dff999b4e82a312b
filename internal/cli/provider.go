package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lectio/internal/config"
	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/keyring"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/storage"
)

// NewProvider builds the storage backend named by cfg. The PostgreSQL
// location in the config must not carry a password; the real connection
// string may come from LECTIO_DB_CONNECTION or the OS keyring.
func NewProvider(cfg config.Config) (storage.Provider, error) {
	switch cfg.Backend {
	case constants.BackendJSON:
		return storage.NewJSONStore(cfg.Store), nil
	case constants.BackendSQLite:
		return storage.NewSQLiteStore(cfg.Store), nil
	case constants.BackendPostgres:
		if err := storage.ValidateConnString(cfg.Store); err != nil {
			if errors.Is(err, storage.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the full string with 'lectio credentials set' or %s",
					err, constants.EnvDBConnection)
			}
			return nil, err
		}
		connStr, source, err := keyring.ResolveConnectionString(cfg.Store)
		if err != nil {
			return nil, err
		}
		logger.Debug("Resolved PostgreSQL connection", "source", source)
		return storage.NewPostgresStore(connStr), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrBackendUnknown, cfg.Backend)
	}
}
