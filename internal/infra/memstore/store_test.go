//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/memstore"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"
	"rental-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *memstore.Store) uuid.UUID {
	t.Helper()
	p := builder.NewBookingBuilder().BuildProperty()
	err := s.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Properties().Create(ctx, p)
	})
	require.NoError(t, err)
	return p.ID()
}

func createBooking(ctx context.Context, s *memstore.Store, b *booking.Booking) error {
	return s.WithinProperty(ctx, b.PropertyID(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Create(ctx, b)
	})
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		existing []string
		newRange [2]string
		unknown  bool
		wantKind infra.RepositoryErrorKind
	}{
		{name: "free property", newRange: [2]string{"2024-06-01", "2024-06-05"}},
		{name: "back to back", existing: []string{"2024-06-01", "2024-06-05"}, newRange: [2]string{"2024-06-05", "2024-06-07"}},
		{name: "overlap", existing: []string{"2024-06-01", "2024-06-05"}, newRange: [2]string{"2024-06-04", "2024-06-07"}, wantKind: infra.KindConflict},
		{name: "unknown property", newRange: [2]string{"2024-06-01", "2024-06-05"}, unknown: true, wantKind: infra.KindForeignKeyViolated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memstore.New()
			pid := seed(t, s)
			if len(tt.existing) == 2 {
				b := builder.NewBookingBuilder().WithProperty(pid).WithDates(tt.existing[0], tt.existing[1]).MustDomain()
				require.NoError(t, createBooking(ctx, s, b))
			}

			target := pid
			if tt.unknown {
				target = uuid.New()
			}
			b := builder.NewBookingBuilder().WithProperty(target).WithDates(tt.newRange[0], tt.newRange[1]).MustDomain()
			err := createBooking(ctx, s, b)

			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestStore_RolledBackOnError(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	pid := seed(t, s)
	b := builder.NewBookingBuilder().WithProperty(pid).MustDomain()

	boom := errors.New("boom")
	err := s.WithinProperty(ctx, pid, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		staged, err := tx.Reads().ActiveBookingsByProperty(ctx, pid)
		require.NoError(t, err)
		assert.Len(t, staged, 1, "writes are visible inside the transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.CommandReads().BookingByID(ctx, b.ID())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestStore_CanceledBookingFreesNights(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	pid := seed(t, s)
	b := builder.NewBookingBuilder().WithProperty(pid).MustDomain()
	require.NoError(t, createBooking(ctx, s, b))

	err := s.WithinProperty(ctx, pid, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Bookings().FindByIDForUpdate(ctx, b.ID())
		if err != nil {
			return err
		}
		if _, err := current.Cancel(builder.DefaultNow.Add(time.Hour), booking.ReasonPaymentTimeout); err != nil {
			return err
		}
		return tx.Bookings().UpdateStatus(ctx, current)
	})
	require.NoError(t, err)

	active, err := s.CommandReads().ActiveBookingsByProperty(ctx, pid)
	require.NoError(t, err)
	assert.Empty(t, active)

	again := builder.NewBookingBuilder().WithProperty(pid).MustDomain()
	require.NoError(t, createBooking(ctx, s, again))

	view, err := s.FindByID(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, "canceled", view.Status)
	require.NotNil(t, view.CancelReason)
	assert.Equal(t, "payment_timeout", *view.CancelReason)
	assert.NotNil(t, view.CanceledAt)
}

func TestStore_UpdateStatusUnknown(t *testing.T) {
	s := memstore.New()
	b := builder.NewBookingBuilder().MustDomain()
	err := s.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().UpdateStatus(ctx, b)
	})
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestStore_FindByUserIDPages(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	pid := seed(t, s)
	userID := uuid.New()

	starts := []string{"2024-06-01", "2024-06-10", "2024-06-20"}
	var ids []uuid.UUID
	for i, start := range starts {
		bb := builder.NewBookingBuilder().WithProperty(pid)
		bb.UserID = userID
		bb.Now = builder.DefaultNow.Add(time.Duration(i) * time.Minute)
		end, _ := time.Parse(booking.DateLayout, start)
		bb.WithDates(start, end.AddDate(0, 0, 2).Format(booking.DateLayout))
		b := bb.MustDomain()
		require.NoError(t, createBooking(ctx, s, b))
		ids = append(ids, b.ID())
	}

	first, err := s.FindByUserID(ctx, userID, time.Time{}, uuid.Nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, ids[2], first[0].ID)
	assert.Equal(t, ids[1], first[1].ID)

	rest, err := s.FindByUserID(ctx, userID, first[1].CreatedAt, first[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, ids[0], rest[0].ID)
	assert.Equal(t, "Seaside Cottage", rest[0].PropertyName)
}

func TestStore_FindActiveInRange(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	pid := seed(t, s)

	inside := builder.NewBookingBuilder().WithProperty(pid).WithDates("2024-06-01", "2024-06-05").MustDomain()
	straddling := builder.NewBookingBuilder().WithProperty(pid).WithDates("2024-06-28", "2024-07-03").MustDomain()
	outside := builder.NewBookingBuilder().WithProperty(pid).WithDates("2024-07-10", "2024-07-12").MustDomain()
	for _, b := range []*booking.Booking{inside, straddling, outside} {
		require.NoError(t, createBooking(ctx, s, b))
	}

	window, err := booking.ParseInterval("2024-06-01", "2024-07-01")
	require.NoError(t, err)
	got, err := s.FindActiveInRange(ctx, pid, window.Start(), window.End())
	require.NoError(t, err)

	want := []queries.OccupiedRange{
		{BookingID: inside.ID(), StartDate: inside.Interval().Start(), EndDate: inside.Interval().End(), Status: "pending"},
		{BookingID: straddling.ID(), StartDate: straddling.Interval().Start(), EndDate: straddling.Interval().End(), Status: "pending"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindActiveInRange mismatch (-want +got):\n%s", diff)
	}

	_, err = s.FindProperty(ctx, uuid.New())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
