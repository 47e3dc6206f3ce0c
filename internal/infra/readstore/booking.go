package readstore

import (
	"context"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/pgsql"
	"rental-booking/internal/infra/repository/converter"
	"rental-booking/internal/pkg/pgconv"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/readstore/mock_booking_read_queries.go -package=readstoremock

type BookingReadQueries interface {
	GetBookingByID(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.Bookings, error)
	GetBookingView(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.BookingWithProperty, error)
	ListActiveBookingsByProperty(ctx context.Context, db pgsql.DBTX, propertyID uuid.UUID) ([]pgsql.Bookings, error)
	ListActiveBookingsInRange(ctx context.Context, db pgsql.DBTX, arg pgsql.ListActiveBookingsInRangeParams) ([]pgsql.Bookings, error)
	ListBookingsByUser(ctx context.Context, db pgsql.DBTX, arg pgsql.ListBookingsByUserParams) ([]pgsql.BookingWithProperty, error)
	GetPropertyByID(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.Properties, error)
}

// BookingReadStore serves both the query side (views) and the command side
// (domain rebuilds and snapshots) from the same statements.
type BookingReadStore struct {
	queries BookingReadQueries
	db      pgsql.DBTX
}

func NewBookingReadStore(queries BookingReadQueries, db pgsql.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return toBookingView(row), nil
}

func (r *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.queries.ListBookingsByUser(ctx, r.db, pgsql.ListBookingsByUserParams{
		UserID:         userID,
		AfterCreatedAt: pgconv.OptionalTimeToPgtype(afterCreatedAt),
		AfterID:        afterID,
		Limit:          limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}

	result := make([]*queries.BookingListItem, len(rows))
	for i, row := range rows {
		result[i] = toBookingListItem(row)
	}
	return result, nil
}

func (r *BookingReadStore) FindActiveInRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]queries.OccupiedRange, error) {
	rows, err := r.queries.ListActiveBookingsInRange(ctx, r.db, pgsql.ListActiveBookingsInRangeParams{
		PropertyID: propertyID,
		FromDate:   pgconv.DateToPgtype(from),
		ToDate:     pgconv.DateToPgtype(to),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupancy", err)
	}

	result := make([]queries.OccupiedRange, len(rows))
	for i, row := range rows {
		result[i] = queries.OccupiedRange{
			BookingID: row.ID,
			StartDate: pgconv.DateFromPgtype(row.StartDate),
			EndDate:   pgconv.DateFromPgtype(row.EndDate),
			Status:    row.Status,
		}
	}
	return result, nil
}

func (r *BookingReadStore) FindProperty(ctx context.Context, id uuid.UUID) (*queries.PropertyView, error) {
	row, err := r.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	return &queries.PropertyView{
		ID:               row.ID,
		HostID:           row.HostID,
		Name:             row.Name,
		NightlyRateCents: row.NightlyRateCents,
	}, nil
}

func (r *BookingReadStore) PropertySnapshot(ctx context.Context, id uuid.UUID) (*shared.PropertySnapshot, error) {
	row, err := r.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.PropertySnapshotFromRow(row), nil
}

func (r *BookingReadStore) FindDomainByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	b, err := converter.BookingFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking is malformed", err)
	}
	return b, nil
}

func (r *BookingReadStore) FindActiveByProperty(ctx context.Context, propertyID uuid.UUID) ([]*booking.Booking, error) {
	rows, err := r.queries.ListActiveBookingsByProperty(ctx, r.db, propertyID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings", err)
	}

	result := make([]*booking.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := converter.BookingFromRow(row)
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking is malformed", err)
		}
		result = append(result, b)
	}
	return result, nil
}

func (r *BookingReadStore) findProperty(ctx context.Context, id uuid.UUID) (pgsql.Properties, error) {
	row, err := r.queries.GetPropertyByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return pgsql.Properties{}, infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return pgsql.Properties{}, infra.WrapRepoErr("failed to find property by ID", err)
	}
	return row, nil
}

func toBookingView(row pgsql.BookingWithProperty) *queries.BookingView {
	return &queries.BookingView{
		ID:           row.ID,
		PropertyID:   row.PropertyID,
		PropertyName: row.PropertyName,
		UserID:       row.UserID,
		StartDate:    pgconv.DateFromPgtype(row.StartDate),
		EndDate:      pgconv.DateFromPgtype(row.EndDate),
		Status:       row.Status,
		PriceCents:   row.PriceCents,
		CancelReason: pgconv.StringPtrFromPgtype(row.CancelReason),
		CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:    pgconv.TimeFromPgtype(row.UpdatedAt),
		ConfirmedAt:  pgconv.TimePtrFromPgtype(row.ConfirmedAt),
		CanceledAt:   pgconv.TimePtrFromPgtype(row.CanceledAt),
	}
}

func toBookingListItem(row pgsql.BookingWithProperty) *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:           row.ID,
		PropertyID:   row.PropertyID,
		PropertyName: row.PropertyName,
		StartDate:    pgconv.DateFromPgtype(row.StartDate),
		EndDate:      pgconv.DateFromPgtype(row.EndDate),
		Status:       row.Status,
		PriceCents:   row.PriceCents,
		CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
	}
}
