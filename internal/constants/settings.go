package constants

const (
	// Backend names
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// Environment variables
	EnvStore        = "LECTIO_STORE"
	EnvBackend      = "LECTIO_BACKEND"
	EnvTimezone     = "LECTIO_TIMEZONE"
	EnvDebug        = "LECTIO_DEBUG"
	EnvDBConnection = "LECTIO_DB_CONNECTION"
	EnvConfigDir    = "LECTIO_CONFIG_DIR"

	// Default settings values
	DefaultTimezone       = "Local" // Use system local timezone by default
	DefaultStoreFileName  = "lectio.db"
	DefaultConfigFileName = "config.toml"
	DefaultEnvFileName    = ".env"
	DefaultLogFileName    = "lectio.log"
)

// KeyHistoryLimit is how many overwritten values the SQL backends keep per key
const KeyHistoryLimit = 10
