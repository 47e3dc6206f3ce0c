// Package memstore is an in-process booking store. It implements the same unit
// of work and read store contracts as the Postgres driver, including the
// overlap guard, and is selected with BOOKING_STORE=memory.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/keylock"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type bookingRecord struct {
	id           uuid.UUID
	propertyID   uuid.UUID
	userID       uuid.UUID
	interval     booking.Interval
	status       booking.Status
	price        booking.Money
	cancelReason booking.CancelReason
	createdAt    time.Time
	updatedAt    time.Time
	confirmedAt  *time.Time
	canceledAt   *time.Time
}

func recordOf(b *booking.Booking) bookingRecord {
	return bookingRecord{
		id:           b.ID(),
		propertyID:   b.PropertyID(),
		userID:       b.UserID(),
		interval:     b.Interval(),
		status:       b.Status(),
		price:        b.Price(),
		cancelReason: b.CancelReason(),
		createdAt:    b.CreatedAt(),
		updatedAt:    b.UpdatedAt(),
		confirmedAt:  copyTime(b.ConfirmedAt()),
		canceledAt:   copyTime(b.CanceledAt()),
	}
}

func (r bookingRecord) toDomain() *booking.Booking {
	return booking.ReconstructBooking(
		r.id, r.propertyID, r.userID,
		r.interval, r.status, r.price, r.cancelReason,
		r.createdAt, r.updatedAt,
		copyTime(r.confirmedAt), copyTime(r.canceledAt),
	)
}

type propertyRecord struct {
	id          uuid.UUID
	hostID      uuid.UUID
	name        string
	nightlyRate booking.Money
	createdAt   time.Time
	updatedAt   time.Time
}

func (p propertyRecord) snapshot() *shared.PropertySnapshot {
	return &shared.PropertySnapshot{
		ID:               p.id,
		HostID:           p.hostID,
		Name:             p.name,
		NightlyRateCents: p.nightlyRate.Cents(),
		CreatedAt:        p.createdAt,
		UpdatedAt:        p.updatedAt,
	}
}

type Store struct {
	mu         sync.RWMutex
	properties map[uuid.UUID]propertyRecord
	bookings   map[uuid.UUID]bookingRecord
	locks      *keylock.Locker[uuid.UUID]
}

func New() *Store {
	return &Store{
		properties: make(map[uuid.UUID]propertyRecord),
		bookings:   make(map[uuid.UUID]bookingRecord),
		locks:      keylock.New[uuid.UUID](),
	}
}

// Within stages every write of fn and applies them together once fn returns
// nil. Nothing is applied when fn fails.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return infra.WrapRepoErr("transaction not started", err)
	}

	tx := newMemTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *Store) WithinProperty(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	unlock, err := s.locks.Lock(ctx, propertyID)
	if err != nil {
		return infra.WrapRepoErr("failed to lock property", err)
	}
	defer unlock()
	return s.Within(ctx, fn)
}

func (s *Store) CommandReads() shared.CommandReads {
	return &memReads{store: s}
}

func (s *Store) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check the guard against everything committed since staging.
	for _, id := range tx.order {
		rec := tx.bookings[id]
		if _, exists := s.bookings[id]; exists && tx.created[id] {
			return infra.WrapRepoErr("booking already exists", nil, infra.KindDuplicateKey)
		}
		if tx.created[id] && rec.status.IsActive() && s.overlapsLocked(rec, tx) {
			return infra.WrapRepoErr("booking overlaps an active booking", nil, infra.KindConflict)
		}
	}

	for id, p := range tx.properties {
		s.properties[id] = p
	}
	for _, id := range tx.order {
		s.bookings[id] = tx.bookings[id]
	}
	return nil
}

// overlapsLocked reports whether rec collides with a committed active booking
// or another booking staged in the same transaction.
func (s *Store) overlapsLocked(rec bookingRecord, tx *memTx) bool {
	for id, other := range s.bookings {
		if id == rec.id {
			continue
		}
		if staged, ok := tx.bookings[id]; ok {
			other = staged
		}
		if other.propertyID == rec.propertyID && other.status.IsActive() && other.interval.Overlaps(rec.interval) {
			return true
		}
	}
	for id, other := range tx.bookings {
		if id == rec.id || !tx.created[id] {
			continue
		}
		if other.propertyID == rec.propertyID && other.status.IsActive() && other.interval.Overlaps(rec.interval) {
			return true
		}
	}
	return false
}

func (s *Store) propertyLocked(id uuid.UUID, tx *memTx) (propertyRecord, bool) {
	if tx != nil {
		if p, ok := tx.properties[id]; ok {
			return p, true
		}
	}
	p, ok := s.properties[id]
	return p, ok
}

func (s *Store) bookingLocked(id uuid.UUID, tx *memTx) (bookingRecord, bool) {
	if tx != nil {
		if b, ok := tx.bookings[id]; ok {
			return b, true
		}
	}
	b, ok := s.bookings[id]
	return b, ok
}

func (s *Store) activeByPropertyLocked(propertyID uuid.UUID, tx *memTx) []bookingRecord {
	seen := make(map[uuid.UUID]bool)
	var out []bookingRecord
	if tx != nil {
		for id, b := range tx.bookings {
			seen[id] = true
			if b.propertyID == propertyID && b.status.IsActive() {
				out = append(out, b)
			}
		}
	}
	for id, b := range s.bookings {
		if seen[id] {
			continue
		}
		if b.propertyID == propertyID && b.status.IsActive() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].interval.Start().Equal(out[j].interval.Start()) {
			return out[i].interval.Start().Before(out[j].interval.Start())
		}
		return out[i].id.String() < out[j].id.String()
	})
	return out
}

type memTx struct {
	store      *Store
	bookings   map[uuid.UUID]bookingRecord
	created    map[uuid.UUID]bool
	order      []uuid.UUID
	properties map[uuid.UUID]propertyRecord
}

func newMemTx(s *Store) *memTx {
	return &memTx{
		store:      s,
		bookings:   make(map[uuid.UUID]bookingRecord),
		created:    make(map[uuid.UUID]bool),
		properties: make(map[uuid.UUID]propertyRecord),
	}
}

func (t *memTx) Bookings() shared.BookingRepository   { return &memBookings{tx: t} }
func (t *memTx) Properties() shared.PropertyRepository { return &memProperties{tx: t} }
func (t *memTx) Reads() shared.CommandReads            { return &memReads{store: t.store, tx: t} }

func (t *memTx) stage(rec bookingRecord, created bool) {
	if _, ok := t.bookings[rec.id]; !ok {
		t.order = append(t.order, rec.id)
	}
	t.bookings[rec.id] = rec
	if created {
		t.created[rec.id] = true
	}
}

type memBookings struct {
	tx *memTx
}

func (r *memBookings) Create(ctx context.Context, b *booking.Booking) error {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.propertyLocked(b.PropertyID(), r.tx); !ok {
		return infra.WrapRepoErr("property does not exist", nil, infra.KindForeignKeyViolated)
	}
	if _, ok := s.bookingLocked(b.ID(), r.tx); ok {
		return infra.WrapRepoErr("booking already exists", nil, infra.KindDuplicateKey)
	}
	rec := recordOf(b)
	if b.IsActive() && s.overlapsLocked(rec, r.tx) {
		return infra.WrapRepoErr("booking overlaps an active booking", nil, infra.KindConflict)
	}
	r.tx.stage(rec, true)
	return nil
}

func (r *memBookings) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	s := r.tx.store
	s.mu.RLock()
	current, ok := s.bookingLocked(b.ID(), r.tx)
	s.mu.RUnlock()
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	current.status = b.Status()
	current.cancelReason = b.CancelReason()
	current.updatedAt = b.UpdatedAt()
	current.confirmedAt = copyTime(b.ConfirmedAt())
	current.canceledAt = copyTime(b.CanceledAt())
	r.tx.stage(current, r.tx.created[current.id])
	return nil
}

func (r *memBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.bookingLocked(id, r.tx)
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return rec.toDomain(), nil
}

type memProperties struct {
	tx *memTx
}

func (r *memProperties) Create(ctx context.Context, p *property.Property) error {
	s := r.tx.store
	s.mu.RLock()
	_, exists := s.propertyLocked(p.ID(), r.tx)
	s.mu.RUnlock()
	if exists {
		return infra.WrapRepoErr("property already exists", nil, infra.KindDuplicateKey)
	}

	r.tx.properties[p.ID()] = propertyRecord{
		id:          p.ID(),
		hostID:      p.HostID(),
		name:        p.Name(),
		nightlyRate: p.NightlyRate(),
		createdAt:   p.CreatedAt(),
		updatedAt:   p.UpdatedAt(),
	}
	return nil
}

func (r *memProperties) UpdateRate(ctx context.Context, p *property.Property) error {
	s := r.tx.store
	s.mu.RLock()
	current, ok := s.propertyLocked(p.ID(), r.tx)
	s.mu.RUnlock()
	if !ok {
		return infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}

	current.nightlyRate = p.NightlyRate()
	current.updatedAt = p.UpdatedAt()
	r.tx.properties[p.ID()] = current
	return nil
}

// memReads serves command-side reads. Inside a transaction it sees staged writes.
type memReads struct {
	store *Store
	tx    *memTx
}

func (r *memReads) PropertyByID(ctx context.Context, id uuid.UUID) (*shared.PropertySnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.propertyLocked(id, r.tx)
	if !ok {
		return nil, infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}
	return p.snapshot(), nil
}

func (r *memReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookingLocked(id, r.tx)
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b.toDomain(), nil
}

func (r *memReads) ActiveBookingsByProperty(ctx context.Context, propertyID uuid.UUID) ([]*booking.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	recs := r.store.activeByPropertyLocked(propertyID, r.tx)
	out := make([]*booking.Booking, len(recs))
	for i, rec := range recs {
		out[i] = rec.toDomain()
	}
	return out, nil
}

// Query side

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return &queries.BookingView{
		ID:           b.id,
		PropertyID:   b.propertyID,
		PropertyName: s.properties[b.propertyID].name,
		UserID:       b.userID,
		StartDate:    b.interval.Start(),
		EndDate:      b.interval.End(),
		Status:       b.status.String(),
		PriceCents:   b.price.Cents(),
		CancelReason: optionalString(b.cancelReason.String()),
		CreatedAt:    b.createdAt,
		UpdatedAt:    b.updatedAt,
		ConfirmedAt:  copyTime(b.confirmedAt),
		CanceledAt:   copyTime(b.canceledAt),
	}, nil
}

func (s *Store) FindByUserID(ctx context.Context, userID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []bookingRecord
	for _, b := range s.bookings {
		if b.userID == userID {
			recs = append(recs, b)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return newerFirst(recs[i], recs[j]) })

	out := make([]*queries.BookingListItem, 0, len(recs))
	for _, b := range recs {
		if !afterCreatedAt.IsZero() && !beforeCursor(b, afterCreatedAt, afterID) {
			continue
		}
		out = append(out, &queries.BookingListItem{
			ID:           b.id,
			PropertyID:   b.propertyID,
			PropertyName: s.properties[b.propertyID].name,
			StartDate:    b.interval.Start(),
			EndDate:      b.interval.End(),
			Status:       b.status.String(),
			PriceCents:   b.price.Cents(),
			CreatedAt:    b.createdAt,
		})
		if int32(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) FindActiveInRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]queries.OccupiedRange, error) {
	window, err := booking.NewInterval(from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid range", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []queries.OccupiedRange
	for _, b := range s.activeByPropertyLocked(propertyID, nil) {
		if b.interval.Overlaps(window) {
			out = append(out, queries.OccupiedRange{
				BookingID: b.id,
				StartDate: b.interval.Start(),
				EndDate:   b.interval.End(),
				Status:    b.status.String(),
			})
		}
	}
	return out, nil
}

func (s *Store) FindProperty(ctx context.Context, id uuid.UUID) (*queries.PropertyView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}
	return &queries.PropertyView{
		ID:               p.id,
		HostID:           p.hostID,
		Name:             p.name,
		NightlyRateCents: p.nightlyRate.Cents(),
	}, nil
}

// Keyset order matches Postgres: created_at DESC, id DESC at microsecond precision.
func newerFirst(a, b bookingRecord) bool {
	at, bt := a.createdAt.Truncate(time.Microsecond), b.createdAt.Truncate(time.Microsecond)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.id.String() > b.id.String()
}

func beforeCursor(b bookingRecord, afterCreatedAt time.Time, afterID uuid.UUID) bool {
	return newerFirst(bookingRecord{createdAt: afterCreatedAt, id: afterID}, b)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
