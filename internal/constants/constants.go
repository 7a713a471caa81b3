package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Service endpoints.
const (
	// DefaultAPIURL is the public API root.
	DefaultAPIURL = "https://api.elis.rossum.ai"

	// APIVersionSuffix is appended to the configured URL.
	APIVersionSuffix = "/v1"

	// LoginPath issues session tokens.
	LoginPath = "auth/login"

	// LogoutPath invalidates the current session token.
	LogoutPath = "auth/logout"

	// CurrentUserPath describes the logged in user.
	CurrentUserPath = "auth/user"

	// PasswordChangePath changes the password of the logged in user.
	PasswordChangePath = "auth/password/change"

	// PasswordResetPath sends a password reset email.
	PasswordResetPath = "auth/password/reset"

	// TokenAuthScheme prefixes the session token in the Authorization header.
	TokenAuthScheme = "Token"
)

// Retry policy defaults.
const (
	// DefaultRetryAttempts is the total number of attempts, the first included.
	DefaultRetryAttempts = 3

	// DefaultRetryWait is the fixed pause between attempts.
	DefaultRetryWait = 5 * time.Second

	// DefaultRetryDeadline caps the time spent retrying a single request.
	DefaultRetryDeadline = 55 * time.Second
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// PublishTimeout bounds connecting to a message broker.
	PublishTimeout = 10 * time.Second
)

// Pagination.
const (
	// DefaultResultKey holds the objects of a list response.
	DefaultResultKey = "results"

	// PaginationKey holds the pagination block of a list response.
	PaginationKey = "pagination"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"

	// JSONIndentSize is the number of spaces for JSON and YAML indentation.
	JSONIndentSize = 2
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Export formats supported by the queue export endpoint.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXML  = "xml"
	ExportFormatJSON = "json"
)

// CLI profile store.
const (
	// ConfigDirName is created in the user's home directory.
	ConfigDirName = ".rossum"

	// ConfigFileName is the profile store inside ConfigDirName.
	ConfigFileName = "config"

	// ConfigFileType is the profile store format.
	ConfigFileType = "yml"

	// EnvPrefix prefixes environment overrides, e.g. ROSSUM_URL.
	EnvPrefix = "ROSSUM"

	// DefaultProfile is used when no profile is selected.
	DefaultProfile = "default"

	// GeneratedPasswordLength is used when a new user gets no password.
	GeneratedPasswordLength = 16
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)
