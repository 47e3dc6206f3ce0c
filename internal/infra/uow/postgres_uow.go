package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/pgsql"
	"rental-booking/internal/infra/readstore"
	"rental-booking/internal/infra/repository"
	"rental-booking/internal/pkg/pgconv"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxRetries = 3

type PostgresUoW struct {
	pool   *pgxpool.Pool
	q      *pgsql.Queries
	logger *slog.Logger
}

func NewPostgresUoW(pool *pgxpool.Pool, q *pgsql.Queries, logger *slog.Logger) *PostgresUoW {
	return &PostgresUoW{
		pool:   pool,
		q:      q,
		logger: logger,
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, nil, fn)
}

// WithinProperty takes a transaction-scoped advisory lock on the property
// before running fn, so writers in other processes queue behind this one.
func (u *PostgresUoW) WithinProperty(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	lock := func(ctx context.Context, db pgsql.DBTX) error {
		if err := u.q.LockProperty(ctx, db, propertyID); err != nil {
			return infra.WrapRepoErr("failed to lock property", err)
		}
		return nil
	}
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, lock, fn)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{store: readstore.NewBookingReadStore(u.q, u.pool)}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTx(
	ctx context.Context,
	options pgx.TxOptions,
	prepare func(ctx context.Context, db pgsql.DBTX) error,
	fn func(ctx context.Context, tx shared.Tx) error,
) error {
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return infra.WrapRepoErr("failed to begin transaction", err)
		}

		if prepare != nil {
			err = prepare(ctx, pgxTx)
		}
		if err == nil {
			err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u})
		}
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = infra.WrapRepoErr("failed to commit transaction", err)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				u.logger.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !isRetryableError(err) {
			return err
		}
		if attempt == maxRetries {
			u.logger.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return err
		}

		waitTime := calculateBackoff(attempt, base)
		u.logger.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return infra.WrapRepoErr("transaction retry abandoned", ctx.Err())
		case <-time.After(waitTime):
		}
	}

	return infra.WrapRepoErr("transaction failed after max retries", nil)
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- high bit masked above
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	switch pgconv.PgErrorCode(err) {
	case pgconv.CodeSerializationFailure, pgconv.CodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx pgsql.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	bookingRepo  shared.BookingRepository
	propertyRepo shared.PropertyRepository
	commandReads shared.CommandReads
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.uow.q, t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Properties() shared.PropertyRepository {
	if t.propertyRepo == nil {
		t.propertyRepo = repository.NewPropertyRepository(t.uow.q, t.dbtx)
	}
	return t.propertyRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{store: readstore.NewBookingReadStore(t.uow.q, t.dbtx)}
	}
	return t.commandReads
}

type commandReads struct {
	store *readstore.BookingReadStore
}

func (r *commandReads) PropertyByID(ctx context.Context, id uuid.UUID) (*shared.PropertySnapshot, error) {
	return r.store.PropertySnapshot(ctx, id)
}

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.store.FindDomainByID(ctx, id)
}

func (r *commandReads) ActiveBookingsByProperty(ctx context.Context, propertyID uuid.UUID) ([]*booking.Booking, error) {
	return r.store.FindActiveByProperty(ctx, propertyID)
}
