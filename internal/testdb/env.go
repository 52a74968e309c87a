package testdb

import (
	"os"
	"strings"

	"github.com/lusolearn/lusolearn-api/internal/redact"
)

// EnvDatabaseURL names the variable holding the test database connection string.
const EnvDatabaseURL = "LUSO_TEST_DATABASE_URL"

// DatabaseURL returns the trimmed test database URL, or "" when unset.
func DatabaseURL() string {
	return strings.TrimSpace(os.Getenv(EnvDatabaseURL))
}

// ShouldSkip reports whether database tests cannot run in this environment.
func ShouldSkip() bool {
	return DatabaseURL() == ""
}

// MaskedURL returns the test database URL with credentials removed, for
// failure messages.
func MaskedURL() string {
	return redact.String(DatabaseURL())
}
