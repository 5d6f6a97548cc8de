// Package storeerr classifies store failures for logging and metrics.
package storeerr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindNone      Kind = ""
	KindNotFound  Kind = "not_found"
	KindConflict  Kind = "conflict"
	KindRetryable Kind = "retryable"
	KindInternal  Kind = "internal"
)

func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindRetryable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return KindConflict // unique_violation
		case "40001", "40P01", "55P03", "57P01":
			return KindRetryable // serialization/deadlock/lock_not_available/admin_shutdown
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindRetryable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return KindConflict
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "database is locked"):
		return KindRetryable
	default:
		return KindInternal
	}
}

func IsRetryable(err error) bool { return Classify(err) == KindRetryable }
