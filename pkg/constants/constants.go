// Package constants provides shared constants for the loan-amortization application.
package constants

// DateLayout is the format expected for due dates and start dates in config
// files and requests, and is also the output date format.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MaxTermMonths is the longest loan term accepted (100 years)
	MaxTermMonths = 1200

	// DecimalPlaces is the number of decimal places kept for currency values
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "loan.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "loan.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "AMORTIZE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRateLimitRequests is the number of requests a client may issue per window
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the refill window of the rate limiter
	DefaultRateLimitWindow = "1m"
)

// Storage constants
const (
	// StorageDriverMemory keeps state in process memory
	StorageDriverMemory = "memory"

	// StorageDriverFile keeps one JSON file per key in a directory
	StorageDriverFile = "file"

	// StorageDriverRedis keeps state in Redis
	StorageDriverRedis = "redis"

	// StorageDriverPostgres keeps state in a PostgreSQL table
	StorageDriverPostgres = "postgres"

	// DefaultStateKey is the key used when persisting without an explicit key
	DefaultStateKey = "loan-amortization-state"

	// DefaultStateTable is the PostgreSQL table holding persisted state
	DefaultStateTable = "amortization_state"
)
