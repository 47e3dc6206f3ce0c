package repository

import (
	"context"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/pgsql"
	"rental-booking/internal/infra/repository/converter"
	"rental-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/repository/mock_booking_queries.go -package=repositorymock

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db pgsql.DBTX, arg pgsql.CreateBookingParams) (int64, error)
	UpdateBookingStatus(ctx context.Context, db pgsql.DBTX, arg pgsql.UpdateBookingStatusParams) (int64, error)
	GetBookingForUpdate(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.Bookings, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      pgsql.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db pgsql.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	inserted, err := r.queries.CreateBooking(ctx, r.db, converter.BookingToCreateParams(b))
	if err != nil {
		return classifyWriteErr("failed to create booking", err)
	}
	if inserted == 0 {
		return infra.WrapRepoErr("booking overlaps an active booking", nil, infra.KindConflict)
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	updated, err := r.queries.UpdateBookingStatus(ctx, r.db, converter.BookingToStatusParams(b))
	if err != nil {
		return classifyWriteErr("failed to update booking status", err)
	}
	if updated == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}

	b, err := converter.BookingFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking is malformed", err)
	}
	return b, nil
}

// classifyWriteErr maps constraint violations to repository kinds. The
// bookings partial unique index reports as a duplicate key.
func classifyWriteErr(msg string, err error) error {
	switch pgconv.PgErrorCode(err) {
	case pgconv.CodeUniqueViolation:
		return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
	case pgconv.CodeForeignKeyViolation:
		return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
	default:
		return infra.WrapRepoErr(msg, err)
	}
}
