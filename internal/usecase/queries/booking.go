package queries

import (
	"context"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/mock_booking_queries.go -package=queriesmock

var (
	ErrBookingNotFound  = errs.New("booking not found")
	ErrPropertyNotFound = errs.New("property not found")
	ErrInvalidRange     = errs.New("invalid occupancy range")
)

// MaxOccupancyWindow bounds a single calendar lookup.
const MaxOccupancyWindow = 366 * 24 * time.Hour

type BookingQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
	Occupancy(ctx context.Context, propertyID uuid.UUID, window booking.Interval) (*OccupancyView, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	// FindByUserID lists newest first. A zero afterCreatedAt starts from the top.
	FindByUserID(ctx context.Context, userID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindActiveInRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]OccupiedRange, error)
	FindProperty(ctx context.Context, id uuid.UUID) (*PropertyView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

// GetByID hides bookings the actor may not see behind ErrBookingNotFound.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !actor.MayManage(view.UserID) {
		return nil, ErrBookingNotFound
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		afterAt time.Time
		afterID uuid.UUID
	)
	if after != nil && after.After != "" {
		var err error
		afterAt, afterID, err = DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, err
		}
	}

	// One extra row tells us whether another page exists.
	rows, err := q.store.FindByUserID(ctx, userID, afterAt, afterID, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return rows, next, nil
}

func (q *bookingQueriesImpl) Occupancy(ctx context.Context, propertyID uuid.UUID, window booking.Interval) (*OccupancyView, error) {
	if window.End().Sub(window.Start()) > MaxOccupancyWindow {
		return nil, ErrInvalidRange
	}

	prop, err := q.store.FindProperty(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	occupied, err := q.store.FindActiveInRange(ctx, propertyID, window.Start(), window.End())
	if err != nil {
		return nil, err
	}
	if occupied == nil {
		occupied = []OccupiedRange{}
	}

	return &OccupancyView{
		Property: *prop,
		From:     window.Start(),
		To:       window.End(),
		Occupied: occupied,
	}, nil
}
