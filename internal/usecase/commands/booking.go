package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rental-booking/internal/domain/availability"
	"rental-booking/internal/domain/booking"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/pkg/keylock"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/mock_booking_commands.go -package=commandsmock

type ReserveRequest struct {
	PropertyID uuid.UUID
	UserID     uuid.UUID
	Start      time.Time
	End        time.Time
}

// ConfirmRequest carries the interval the payment was captured for.
type ConfirmRequest struct {
	BookingID uuid.UUID
	Start     time.Time
	End       time.Time
}

type CancelRequest struct {
	BookingID uuid.UUID
	Actor     shared.Actor
	Reason    booking.CancelReason
}

type BookingCommands interface {
	Reserve(ctx context.Context, req ReserveRequest) (*booking.Booking, error)
	Confirm(ctx context.Context, req ConfirmRequest) (*booking.Booking, error)
	Cancel(ctx context.Context, req CancelRequest) (*booking.Booking, error)
}

// BookingCoordinator serializes every booking mutation of a property behind a
// per-property lock, checks the availability index, and writes through the
// unit of work. The index is only updated after a successful commit.
type BookingCoordinator struct {
	uow              shared.UnitOfWork
	index            *availability.Index
	locks            *keylock.Locker[uuid.UUID]
	factory          *booking.Factory
	events           shared.EventPublisher
	clock            clock.Clock
	lockTimeout      time.Duration
	operationTimeout time.Duration
	logger           *slog.Logger
}

func NewBookingCoordinator(
	uow shared.UnitOfWork,
	index *availability.Index,
	factory *booking.Factory,
	events shared.EventPublisher,
	clock clock.Clock,
	cfg config.BookingConfig,
	logger *slog.Logger,
) *BookingCoordinator {
	return &BookingCoordinator{
		uow:              uow,
		index:            index,
		locks:            keylock.New[uuid.UUID](),
		factory:          factory,
		events:           events,
		clock:            clock,
		lockTimeout:      cfg.LockTimeout,
		operationTimeout: cfg.OperationTimeout,
		logger:           logger,
	}
}

func (c *BookingCoordinator) Reserve(ctx context.Context, req ReserveRequest) (*booking.Booking, error) {
	interval, err := booking.NewInterval(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if err := c.factory.CheckInterval(interval); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	unlock, err := c.lock(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := c.ensureLoaded(ctx, req.PropertyID); err != nil {
		return nil, err
	}
	if hits := c.index.Conflicts(req.PropertyID, interval); len(hits) > 0 {
		// Another process may have canceled the blocking rows; only the
		// store can say the conflict is real.
		if err := c.reload(ctx, req.PropertyID); err != nil {
			return nil, err
		}
		if hits := c.index.Conflicts(req.PropertyID, interval); len(hits) > 0 {
			return nil, newConflictError(req.PropertyID, hits)
		}
	}

	var created *booking.Booking
	err = c.uow.WithinProperty(ctx, req.PropertyID, func(ctx context.Context, tx shared.Tx) error {
		prop, err := tx.Reads().PropertyByID(ctx, req.PropertyID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		b, err := c.factory.CreateBooking(prop.Spec(), req.UserID, interval)
		if err != nil {
			return err
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			c.index.Invalidate(req.PropertyID)
			return nil, err
		}
		if infra.IsKind(err, infra.KindConflict) || infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, c.backstopConflict(ctx, req.PropertyID, interval, err)
		}
		return nil, c.classify(err, "reserve")
	}

	c.index.Insert(created)
	c.logger.Info("booking reserved",
		"booking_id", created.ID(),
		"property_id", created.PropertyID(),
		"interval", created.Interval().String(),
		"price", created.Price().String())
	c.publish(ctx, shared.EventBookingCreated, created)

	return created, nil
}

func (c *BookingCoordinator) Confirm(ctx context.Context, req ConfirmRequest) (*booking.Booking, error) {
	agreed, err := booking.NewInterval(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	propertyID, err := c.propertyOf(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	unlock, err := c.lock(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		confirmed *booking.Booking
		changed   bool
	)
	err = c.uow.WithinProperty(ctx, propertyID, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.loadForUpdate(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		changed, err = b.Confirm(c.clock.Now(), agreed)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
				return err
			}
		}
		confirmed = b
		return nil
	})
	if err != nil {
		return nil, c.classify(err, "confirm")
	}

	if changed {
		c.logger.Info("booking confirmed", "booking_id", confirmed.ID(), "property_id", propertyID)
		c.publish(ctx, shared.EventBookingConfirmed, confirmed)
	}
	return confirmed, nil
}

// Cancel is idempotent: canceling a canceled booking returns it unchanged.
func (c *BookingCoordinator) Cancel(ctx context.Context, req CancelRequest) (*booking.Booking, error) {
	reason := req.Reason
	if reason == "" {
		reason = booking.ReasonUserRequested
	}
	if !reason.IsValid() {
		return nil, booking.ErrInvalidReason
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	current, err := c.uow.CommandReads().BookingByID(ctx, req.BookingID)
	if err != nil {
		return nil, c.classify(err, "cancel")
	}
	if !req.Actor.MayManage(current.UserID()) {
		return nil, ErrForbidden
	}
	propertyID := current.PropertyID()

	unlock, err := c.lock(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		canceled *booking.Booking
		changed  bool
	)
	err = c.uow.WithinProperty(ctx, propertyID, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.loadForUpdate(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		changed, err = b.Cancel(c.clock.Now(), reason)
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Bookings().UpdateStatus(ctx, b); err != nil {
				return err
			}
		}
		canceled = b
		return nil
	})
	if err != nil {
		return nil, c.classify(err, "cancel")
	}

	if changed {
		c.index.Remove(canceled.ID())
		c.logger.Info("booking canceled",
			"booking_id", canceled.ID(),
			"property_id", propertyID,
			"reason", reason.String())
		c.publish(ctx, shared.EventBookingCanceled, canceled)
	}
	return canceled, nil
}

func (c *BookingCoordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.operationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.operationTimeout)
}

func (c *BookingCoordinator) lock(ctx context.Context, propertyID uuid.UUID) (func(), error) {
	lockCtx := ctx
	if c.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, c.lockTimeout)
		defer cancel()
	}

	unlock, err := c.locks.Lock(lockCtx, propertyID)
	if err != nil {
		c.logger.Warn("property lock not acquired", "property_id", propertyID, "error", err.Error())
		return nil, errs.Mark(err, ErrLockTimeout)
	}
	return unlock, nil
}

func (c *BookingCoordinator) ensureLoaded(ctx context.Context, propertyID uuid.UUID) error {
	if c.index.Loaded(propertyID) {
		return nil
	}
	return c.reload(ctx, propertyID)
}

func (c *BookingCoordinator) reload(ctx context.Context, propertyID uuid.UUID) error {
	rows, err := c.uow.CommandReads().ActiveBookingsByProperty(ctx, propertyID)
	if err != nil {
		c.index.Invalidate(propertyID)
		return c.classify(err, "load availability")
	}
	c.index.Load(propertyID, rows)
	return nil
}

// backstopConflict handles a write the store refused because of an overlap the
// index did not know about. The index is stale for this property, so it is
// rebuilt before reporting which bookings are in the way.
func (c *BookingCoordinator) backstopConflict(ctx context.Context, propertyID uuid.UUID, interval booking.Interval, cause error) error {
	c.logger.Warn("store rejected overlapping booking; rebuilding availability",
		"property_id", propertyID,
		"interval", interval.String(),
		"error", cause.Error())

	c.index.Invalidate(propertyID)
	conflict := &ConflictError{PropertyID: propertyID}
	if err := c.reload(ctx, propertyID); err != nil {
		return conflict
	}
	for _, e := range c.index.Conflicts(propertyID, interval) {
		conflict.BookingIDs = append(conflict.BookingIDs, e.BookingID)
	}
	return conflict
}

func (c *BookingCoordinator) propertyOf(ctx context.Context, bookingID uuid.UUID) (uuid.UUID, error) {
	b, err := c.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		return uuid.Nil, c.classify(err, "lookup booking")
	}
	return b.PropertyID(), nil
}

func (c *BookingCoordinator) loadForUpdate(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByIDForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// classify maps store failures onto the coordinator's error set. Domain and
// coordinator errors pass through untouched.
func (c *BookingCoordinator) classify(err error, op string) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return ErrBookingNotFound
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, ErrUserNotFound)
	case infra.IsRepositoryError(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		c.logger.Error("booking persistence failed", "op", op, "error", err.Error())
		return errs.Mark(err, ErrPersistence)
	default:
		return err
	}
}

func (c *BookingCoordinator) publish(ctx context.Context, t shared.EventType, b *booking.Booking) {
	event := shared.NewBookingEvent(t, b, c.clock.Now())
	if err := c.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		c.logger.Warn("failed to publish booking event",
			"type", string(t),
			"booking_id", b.ID(),
			"error", err.Error())
	}
}

func newConflictError(propertyID uuid.UUID, hits []availability.Entry) *ConflictError {
	ids := make([]uuid.UUID, len(hits))
	for i, h := range hits {
		ids[i] = h.BookingID
	}
	return &ConflictError{PropertyID: propertyID, BookingIDs: ids}
}
