package store

import (
	"fmt"
	"strings"
)

const defaultBusyTimeoutMS = 5000

// sqliteDSN turns a file path or file: URI into a DSN carrying WAL and busy
// timeout pragmas unless they are already present. In-memory DSNs only get the
// busy timeout.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	lower := strings.ToLower(dsn)
	memory := dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:")
	if !memory && !strings.HasPrefix(lower, "file:") {
		dsn = "file:" + dsn
		lower = "file:" + lower
	}
	if !memory && !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = addPragma(dsn, "journal_mode(WAL)")
	}
	if !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = addPragma(dsn, fmt.Sprintf("busy_timeout(%d)", defaultBusyTimeoutMS))
	}
	return dsn
}

func addPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}
