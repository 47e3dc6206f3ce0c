// Package availability keeps an in-process view of which nights are taken.
//
// The index is a cache. The booking store is authoritative: the index is filled
// from store rows and written only after a store commit succeeds. Anything that
// makes the two disagree should Invalidate the property so it is rebuilt on the
// next lookup.
package availability

import (
	"sort"
	"sync"
	"time"

	"rental-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type Entry struct {
	BookingID uuid.UUID
	Interval  booking.Interval
}

type Index struct {
	mu         sync.RWMutex
	properties map[uuid.UUID]*propertyEntries
	owners     map[uuid.UUID]uuid.UUID // booking -> property
}

// propertyEntries holds entries sorted by start date. maxEnd[i] is the latest
// end among entries[0..i], which lets lookups skip every prefix that ends
// before the probe without assuming the entries are disjoint.
type propertyEntries struct {
	entries []Entry
	maxEnd  []time.Time
}

func NewIndex() *Index {
	return &Index{
		properties: make(map[uuid.UUID]*propertyEntries),
		owners:     make(map[uuid.UUID]uuid.UUID),
	}
}

// Conflicts returns the entries of propertyID that share a night with interval,
// ordered by start date.
func (x *Index) Conflicts(propertyID uuid.UUID, interval booking.Interval) []Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()

	p, ok := x.properties[propertyID]
	if !ok {
		return nil
	}

	// entries[:hi] start before interval ends
	hi := sort.Search(len(p.entries), func(i int) bool {
		return !p.entries[i].Interval.Start().Before(interval.End())
	})
	// entries[lo:] have a prefix reaching past interval start
	lo := sort.Search(hi, func(i int) bool {
		return p.maxEnd[i].After(interval.Start())
	})

	var out []Entry
	for _, e := range p.entries[lo:hi] {
		if e.Interval.Overlaps(interval) {
			out = append(out, e)
		}
	}
	return out
}

// Insert records an active booking. Canceled bookings are dropped from the
// index instead. Inserting an ID that is already present replaces it.
func (x *Index) Insert(b *booking.Booking) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.removeLocked(b.ID())
	if !b.IsActive() {
		return
	}

	p, ok := x.properties[b.PropertyID()]
	if !ok {
		p = &propertyEntries{}
		x.properties[b.PropertyID()] = p
	}
	p.insert(Entry{BookingID: b.ID(), Interval: b.Interval()})
	x.owners[b.ID()] = b.PropertyID()
}

// Remove drops a booking and reports whether it was present.
func (x *Index) Remove(bookingID uuid.UUID) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.removeLocked(bookingID)
}

// Load replaces everything known about propertyID with the given bookings.
// A property loaded with no bookings counts as loaded.
func (x *Index) Load(propertyID uuid.UUID, bookings []*booking.Booking) {
	entries := make([]Entry, 0, len(bookings))
	for _, b := range bookings {
		if b.PropertyID() != propertyID || !b.IsActive() {
			continue
		}
		entries = append(entries, Entry{BookingID: b.ID(), Interval: b.Interval()})
	}
	sort.Slice(entries, func(i, j int) bool { return less(entries[i], entries[j]) })

	p := &propertyEntries{entries: entries}
	p.rebuildFrom(0)

	x.mu.Lock()
	defer x.mu.Unlock()

	x.dropLocked(propertyID)
	x.properties[propertyID] = p
	for _, e := range entries {
		x.owners[e.BookingID] = propertyID
	}
}

func (x *Index) Loaded(propertyID uuid.UUID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.properties[propertyID]
	return ok
}

func (x *Index) Invalidate(propertyID uuid.UUID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.dropLocked(propertyID)
}

// Entries returns a copy of propertyID's entries ordered by start date.
func (x *Index) Entries(propertyID uuid.UUID) []Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()

	p, ok := x.properties[propertyID]
	if !ok {
		return nil
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

func (x *Index) removeLocked(bookingID uuid.UUID) bool {
	propertyID, ok := x.owners[bookingID]
	if !ok {
		return false
	}
	delete(x.owners, bookingID)
	if p, ok := x.properties[propertyID]; ok {
		p.remove(bookingID)
	}
	return true
}

func (x *Index) dropLocked(propertyID uuid.UUID) {
	p, ok := x.properties[propertyID]
	if !ok {
		return
	}
	for _, e := range p.entries {
		delete(x.owners, e.BookingID)
	}
	delete(x.properties, propertyID)
}

func (p *propertyEntries) insert(e Entry) {
	i := sort.Search(len(p.entries), func(i int) bool { return less(e, p.entries[i]) })
	p.entries = append(p.entries, Entry{})
	copy(p.entries[i+1:], p.entries[i:])
	p.entries[i] = e
	p.rebuildFrom(i)
}

func (p *propertyEntries) remove(bookingID uuid.UUID) {
	for i, e := range p.entries {
		if e.BookingID == bookingID {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			p.rebuildFrom(i)
			return
		}
	}
}

func (p *propertyEntries) rebuildFrom(i int) {
	if cap(p.maxEnd) < len(p.entries) {
		grown := make([]time.Time, len(p.entries), 2*len(p.entries))
		copy(grown, p.maxEnd)
		p.maxEnd = grown
	}
	p.maxEnd = p.maxEnd[:len(p.entries)]
	for ; i < len(p.entries); i++ {
		end := p.entries[i].Interval.End()
		if i > 0 && p.maxEnd[i-1].After(end) {
			end = p.maxEnd[i-1]
		}
		p.maxEnd[i] = end
	}
}

func less(a, b Entry) bool {
	if !a.Interval.Start().Equal(b.Interval.Start()) {
		return a.Interval.Start().Before(b.Interval.Start())
	}
	return a.BookingID.String() < b.BookingID.String()
}
