package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"invoicing/metrics"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultTxMaxRetries attempts made by WithSerializableTx when no limit is given
const DefaultTxMaxRetries = 5

const retryBackoff = 20 * time.Millisecond

// WithSerializableTx runs fn in a serializable transaction.
//
// When the store rejects the transaction because of a concurrent one
// (serialization failure, deadlock, busy database) the whole of fn is run
// again in a fresh transaction, up to maxRetries attempts. fn must therefore
// only touch the store through tx and must not keep state between attempts.
// Cancelling ctx rolls back the running attempt.
func WithSerializableTx(ctx context.Context, db *gorm.DB, maxRetries int, fn func(tx *gorm.DB) error) error {
	if maxRetries <= 0 {
		maxRetries = DefaultTxMaxRetries
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == maxRetries {
			break
		}

		metrics.TxRetries.Inc()
		zap.L().Named("database").Warn("serializable transaction conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}

// IsRetryable reports whether err is a concurrency conflict that a fresh
// transaction may not hit again.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		// 1213 deadlock, 1205 lock wait timeout
		return myErr.Number == 1213 || myErr.Number == 1205
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}

	var sqliteErr interface{ Code() int }
	if errors.As(err, &sqliteErr) {
		// primary result codes SQLITE_BUSY and SQLITE_LOCKED, extended codes share the low byte
		code := sqliteErr.Code() & 0xff
		return code == 5 || code == 6
	}

	return false
}
