//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"rental-booking/internal/domain/availability"
	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/user"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/memstore"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/shared"
	"rental-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e shared.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store       *memstore.Store
	index       *availability.Index
	clock       *clock.MockClock
	events      *recordingPublisher
	coordinator *commands.BookingCoordinator
	properties  commands.PropertyCommands
}

func newFixture(t *testing.T, uow shared.UnitOfWork) *fixture {
	t.Helper()
	store := memstore.New()
	if uow == nil {
		uow = store
	}
	f := &fixture{
		store:  store,
		index:  availability.NewIndex(),
		clock:  clock.NewMockClock(builder.DefaultNow),
		events: &recordingPublisher{},
	}
	cfg := config.BookingConfig{LockTimeout: time.Second, OperationTimeout: 5 * time.Second}
	factory := booking.NewFactory(f.clock, booking.NewNightlyRateCalculator(), false)
	f.coordinator = commands.NewBookingCoordinator(uow, f.index, factory, f.events, f.clock, cfg, discardLogger)
	f.properties = commands.NewPropertyCommands(store, f.clock, discardLogger)
	return f
}

func (f *fixture) seedProperty(t *testing.T, rateCents int64) (propertyID, hostID uuid.UUID) {
	t.Helper()
	host := shared.Actor{ID: uuid.New(), Role: user.RoleHost}
	p, err := f.properties.Create(context.Background(), commands.CreatePropertyRequest{
		Host:             host,
		Name:             "Seaside Cottage",
		NightlyRateCents: rateCents,
	})
	require.NoError(t, err)
	return p.ID(), host.ID
}

func reserveReq(t *testing.T, propertyID, userID uuid.UUID, start, end string) commands.ReserveRequest {
	t.Helper()
	return builder.NewBookingBuilder().
		WithProperty(propertyID).
		WithDates(start, end).
		With(func(b *builder.BookingBuilder) { b.UserID = userID }).
		BuildReserveRequest()
}

func guest(id uuid.UUID) shared.Actor {
	return shared.Actor{ID: id, Role: user.RoleGuest}
}

func TestReserve_Walkthrough(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	p1, _ := f.seedProperty(t, 8000)
	alice, bob := uuid.New(), uuid.New()

	b1, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, alice, "2024-06-01", "2024-06-05"))
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, b1.Status())
	assert.Equal(t, "320.00", b1.Price().String())

	_, err = f.coordinator.Reserve(ctx, reserveReq(t, p1, bob, "2024-06-03", "2024-06-07"))
	var conflict *commands.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, commands.ErrReservationConflict)
	assert.Equal(t, []uuid.UUID{b1.ID()}, conflict.BookingIDs)

	b3, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, bob, "2024-06-05", "2024-06-08"))
	require.NoError(t, err, "back-to-back stays are allowed")
	assert.Equal(t, 3, b3.Interval().Nights())

	canceled, err := f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: b1.ID(), Actor: guest(alice)})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCanceled, canceled.Status())
	assert.Equal(t, booking.ReasonUserRequested, canceled.CancelReason())

	b4, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, bob, "2024-06-03", "2024-06-05"))
	require.NoError(t, err, "canceled nights are free again")
	assert.Equal(t, "160.00", b4.Price().String())

	assert.Equal(t, []shared.EventType{
		shared.EventBookingCreated,
		shared.EventBookingCreated,
		shared.EventBookingCanceled,
		shared.EventBookingCreated,
	}, f.events.types())
}

func TestReserve_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	p1, _ := f.seedProperty(t, 8000)

	t.Run("empty interval", func(t *testing.T) {
		start := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
		_, err := f.coordinator.Reserve(ctx, commands.ReserveRequest{PropertyID: p1, UserID: uuid.New(), Start: start, End: start})
		require.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("start in the past", func(t *testing.T) {
		_, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-04-01", "2024-04-03"))
		require.ErrorIs(t, err, booking.ErrStartInPast)
	})

	t.Run("stay longer than the cap", func(t *testing.T) {
		_, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2026-06-01"))
		require.ErrorIs(t, err, booking.ErrStayTooLong)
		assert.False(t, f.index.Loaded(p1), "rejected before touching the store")
	})

	t.Run("unknown property leaves no index entry", func(t *testing.T) {
		ghost := uuid.New()
		_, err := f.coordinator.Reserve(ctx, reserveReq(t, ghost, uuid.New(), "2024-06-01", "2024-06-02"))
		require.ErrorIs(t, err, commands.ErrPropertyNotFound)
		assert.False(t, f.index.Loaded(ghost))
	})
}

func TestReserve_ConcurrentSameProperty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	p1, _ := f.seedProperty(t, 8000)

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []uuid.UUID
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			b, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, b.ID())
			case errors.Is(err, commands.ErrReservationConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, others)
	require.Len(t, winners, 1)
	assert.Equal(t, attempts-1, conflicts)

	active, err := f.store.CommandReads().ActiveBookingsByProperty(ctx, p1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, winners[0], active[0].ID())
}

func TestReserve_ConcurrentDifferentProperties(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	const properties = 10
	ids := make([]uuid.UUID, properties)
	for i := range ids {
		ids[i], _ = f.seedProperty(t, 10000)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, properties)
	for _, pid := range ids {
		wg.Add(1)
		go func(pid uuid.UUID) {
			defer wg.Done()
			_, err := f.coordinator.Reserve(ctx, reserveReq(t, pid, uuid.New(), "2024-06-01", "2024-06-05"))
			errCh <- err
		}(pid)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("second cancel is a no-op", func(t *testing.T) {
		f := newFixture(t, nil)
		p1, _ := f.seedProperty(t, 8000)
		alice := uuid.New()
		b, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, alice, "2024-06-01", "2024-06-05"))
		require.NoError(t, err)

		first, err := f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: b.ID(), Actor: guest(alice)})
		require.NoError(t, err)
		f.clock.Add(time.Hour)
		second, err := f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: b.ID(), Actor: guest(alice), Reason: booking.ReasonRefunded})
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCanceled, second.Status())
		assert.Equal(t, first.UpdatedAt(), second.UpdatedAt())
		assert.Equal(t, booking.ReasonUserRequested, second.CancelReason())
		assert.Equal(t, []shared.EventType{shared.EventBookingCreated, shared.EventBookingCanceled}, f.events.types())
		assert.Empty(t, f.index.Conflicts(p1, b.Interval()))
	})

	t.Run("other guests may not cancel", func(t *testing.T) {
		f := newFixture(t, nil)
		p1, _ := f.seedProperty(t, 8000)
		b, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
		require.NoError(t, err)

		_, err = f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: b.ID(), Actor: guest(uuid.New())})
		require.ErrorIs(t, err, commands.ErrForbidden)
		assert.Len(t, f.index.Conflicts(p1, b.Interval()), 1)
	})

	t.Run("payments may cancel on timeout", func(t *testing.T) {
		f := newFixture(t, nil)
		p1, _ := f.seedProperty(t, 8000)
		b, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
		require.NoError(t, err)

		payments := shared.Actor{ID: uuid.New(), Role: user.RolePayments}
		out, err := f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: b.ID(), Actor: payments, Reason: booking.ReasonPaymentTimeout})
		require.NoError(t, err)
		assert.Equal(t, booking.ReasonPaymentTimeout, out.CancelReason())
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: uuid.New(), Actor: guest(uuid.New())})
		require.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *booking.Booking) {
		f := newFixture(t, nil)
		p1, _ := f.seedProperty(t, 8000)
		b, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
		require.NoError(t, err)
		return f, b
	}
	confirmReq := func(b *booking.Booking) commands.ConfirmRequest {
		return commands.ConfirmRequest{BookingID: b.ID(), Start: b.Interval().Start(), End: b.Interval().End()}
	}

	t.Run("pending booking is confirmed once", func(t *testing.T) {
		f, b := setup(t)

		out, err := f.coordinator.Confirm(ctx, confirmReq(b))
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, out.Status())

		again, err := f.coordinator.Confirm(ctx, confirmReq(b))
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, again.Status())
		assert.Equal(t, []shared.EventType{shared.EventBookingCreated, shared.EventBookingConfirmed}, f.events.types())
		assert.Len(t, f.index.Conflicts(b.PropertyID(), b.Interval()), 1, "confirmed bookings still hold their nights")
	})

	t.Run("payment for a different interval", func(t *testing.T) {
		f, b := setup(t)
		req := confirmReq(b)
		req.End = req.End.AddDate(0, 0, 1)

		_, err := f.coordinator.Confirm(ctx, req)
		require.Error(t, err)
		assert.True(t, errs.Is(err, booking.ErrInvalidTransition))

		stored, err := f.store.CommandReads().BookingByID(ctx, b.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusPending, stored.Status())
	})

	t.Run("canceled booking cannot be confirmed", func(t *testing.T) {
		f, b := setup(t)
		_, err := f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: b.ID(), Actor: guest(b.UserID()), Reason: booking.ReasonPaymentTimeout})
		require.NoError(t, err)

		_, err = f.coordinator.Confirm(ctx, confirmReq(b))
		require.Error(t, err)
		assert.True(t, errs.Is(err, booking.ErrBookingClosed))
		assert.True(t, errs.Is(err, booking.ErrInvalidTransition))
	})

	t.Run("refund after confirmation", func(t *testing.T) {
		f, b := setup(t)
		_, err := f.coordinator.Confirm(ctx, confirmReq(b))
		require.NoError(t, err)

		payments := shared.Actor{ID: uuid.New(), Role: user.RolePayments}
		out, err := f.coordinator.Cancel(ctx, commands.CancelRequest{BookingID: b.ID(), Actor: payments, Reason: booking.ReasonRefunded})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCanceled, out.Status())
		assert.Empty(t, f.index.Conflicts(b.PropertyID(), b.Interval()))
	})
}

func TestPriceIsFixedAtReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	p1, hostID := f.seedProperty(t, 8000)

	b1, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
	require.NoError(t, err)

	_, err = f.properties.ChangeRate(ctx, commands.ChangeRateRequest{
		PropertyID:       p1,
		Host:             shared.Actor{ID: hostID, Role: user.RoleHost},
		NightlyRateCents: 12000,
	})
	require.NoError(t, err)

	stored, err := f.store.CommandReads().BookingByID(ctx, b1.ID())
	require.NoError(t, err)
	assert.Equal(t, "320.00", stored.Price().String())

	b2, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-10", "2024-06-12"))
	require.NoError(t, err)
	assert.Equal(t, "240.00", b2.Price().String())
}

// faultyUoW wraps a working store and makes booking inserts fail or stall.
type faultyUoW struct {
	shared.UnitOfWork
	createErr error
	entered   chan struct{}
	release   chan struct{}
}

func (u *faultyUoW) WithinProperty(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.release != nil {
		u.entered <- struct{}{}
		<-u.release
	}
	return u.UnitOfWork.WithinProperty(ctx, propertyID, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, &faultyTx{Tx: tx, createErr: u.createErr})
	})
}

type faultyTx struct {
	shared.Tx
	createErr error
}

func (t *faultyTx) Bookings() shared.BookingRepository {
	return &faultyBookings{BookingRepository: t.Tx.Bookings(), createErr: t.createErr}
}

type faultyBookings struct {
	shared.BookingRepository
	createErr error
}

func (b *faultyBookings) Create(ctx context.Context, bk *booking.Booking) error {
	if b.createErr != nil {
		return b.createErr
	}
	return b.BookingRepository.Create(ctx, bk)
}

func TestReserve_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uow := &faultyUoW{
		UnitOfWork: store,
		createErr:  infra.WrapRepoErr("failed to create booking", errors.New("connection reset by peer")),
	}
	f := newFixture(t, uow)
	f.store = store
	f.properties = commands.NewPropertyCommands(store, f.clock, discardLogger)
	p1, _ := f.seedProperty(t, 8000)

	_, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, commands.ErrPersistence))

	iv, err := booking.ParseInterval("2024-06-01", "2024-06-05")
	require.NoError(t, err)
	assert.Empty(t, f.index.Conflicts(p1, iv), "failed writes never reach the index")
	active, err := store.CommandReads().ActiveBookingsByProperty(ctx, p1)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Empty(t, f.events.types())
}

func TestReserve_StaleIndexFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	p1, _ := f.seedProperty(t, 8000)

	// Warm the index, then write behind the coordinator's back as another
	// process would.
	_, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-07-01", "2024-07-02"))
	require.NoError(t, err)

	sneaky := builder.NewBookingBuilder().WithProperty(p1).WithDates("2024-06-01", "2024-06-05").MustDomain()
	err = f.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Create(ctx, sneaky)
	})
	require.NoError(t, err)

	_, err = f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-03", "2024-06-04"))
	var conflict *commands.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []uuid.UUID{sneaky.ID()}, conflict.BookingIDs)
	assert.Len(t, f.index.Conflicts(p1, sneaky.Interval()), 1, "index rebuilt from the store")
}

func TestReserve_CancelByAnotherProcessFreesDates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	p1, _ := f.seedProperty(t, 8000)
	alice := uuid.New()

	// A second coordinator over the same store, with its own index and locks.
	otherIndex := availability.NewIndex()
	cfg := config.BookingConfig{LockTimeout: time.Second, OperationTimeout: 5 * time.Second}
	factory := booking.NewFactory(f.clock, booking.NewNightlyRateCalculator(), false)
	other := commands.NewBookingCoordinator(f.store, otherIndex, factory, &recordingPublisher{}, f.clock, cfg, discardLogger)

	b, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, alice, "2024-07-01", "2024-07-05"))
	require.NoError(t, err)

	_, err = other.Cancel(ctx, commands.CancelRequest{BookingID: b.ID(), Actor: guest(alice)})
	require.NoError(t, err)
	require.Len(t, f.index.Conflicts(p1, b.Interval()), 1, "first index has not seen the cancel yet")

	again, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-07-01", "2024-07-05"))
	require.NoError(t, err)
	assert.NotEqual(t, b.ID(), again.ID())

	_, err = other.Cancel(ctx, commands.CancelRequest{BookingID: again.ID(), Actor: shared.Actor{ID: uuid.New(), Role: user.RolePayments}, Reason: booking.ReasonPaymentTimeout})
	require.NoError(t, err)

	inner, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-07-02", "2024-07-03"))
	require.NoError(t, err)

	_, err = other.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-07-01", "2024-07-05"))
	var conflict *commands.ConflictError
	require.ErrorAs(t, err, &conflict, "a live booking still blocks after the re-check")
	assert.Equal(t, []uuid.UUID{inner.ID()}, conflict.BookingIDs)

	active, err := f.store.CommandReads().ActiveBookingsByProperty(ctx, p1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, inner.ID(), active[0].ID())
}

func TestReserve_LockTimeout(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uow := &faultyUoW{UnitOfWork: store, entered: make(chan struct{}, 1), release: make(chan struct{})}

	f := newFixture(t, uow)
	f.properties = commands.NewPropertyCommands(store, f.clock, discardLogger)
	p1, _ := f.seedProperty(t, 8000)

	slow := commands.NewBookingCoordinator(uow, f.index,
		booking.NewFactory(f.clock, booking.NewNightlyRateCalculator(), false),
		f.events, f.clock,
		config.BookingConfig{LockTimeout: 50 * time.Millisecond, OperationTimeout: 5 * time.Second},
		discardLogger)

	done := make(chan error, 1)
	go func() {
		_, err := slow.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
		done <- err
	}()
	<-uow.entered

	_, err := slow.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-10", "2024-06-12"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, commands.ErrLockTimeout))

	close(uow.release)
	require.NoError(t, <-done)
}

func TestReserve_PublishFailureDoesNotFailBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.events.err = errors.New("broker down")
	p1, _ := f.seedProperty(t, 8000)

	b, err := f.coordinator.Reserve(ctx, reserveReq(t, p1, uuid.New(), "2024-06-01", "2024-06-05"))
	require.NoError(t, err)
	assert.Len(t, f.index.Conflicts(p1, b.Interval()), 1)
}
