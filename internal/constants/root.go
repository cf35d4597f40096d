package constants

import "time"

const (
	AppName            = "streakwars"
	DefaultKeyringUser = "store-connection"
	DefaultConfigDir   = "~/.config/streakwars"
	DefaultDBName      = "streakwars.db"
	ConfigFileName     = "config.yaml"
	LockfileName       = "streakwars.lock"
	Version            = "v0.3.0"

	// DateFormat is the calendar day format used for completions (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Store backends
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreFile     = "file"
	StoreMemory   = "memory"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streakwars-"
	BackupFileSuffix = ".db"

	// Save retry policy
	SaveMaxRetries   = 3
	SaveRetryInitial = 50 * time.Millisecond
	SaveRetryMax     = 500 * time.Millisecond
)
