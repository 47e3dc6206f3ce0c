package converter

import (
	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/infra/pgsql"
	"rental-booking/internal/pkg/pgconv"
	"rental-booking/internal/usecase/shared"
)

func BookingToCreateParams(b *booking.Booking) pgsql.CreateBookingParams {
	return pgsql.CreateBookingParams{
		ID:         b.ID(),
		PropertyID: b.PropertyID(),
		UserID:     b.UserID(),
		StartDate:  pgconv.DateToPgtype(b.Interval().Start()),
		EndDate:    pgconv.DateToPgtype(b.Interval().End()),
		Status:     b.Status().String(),
		PriceCents: b.Price().Cents(),
		CreatedAt:  pgconv.TimeToPgtype(b.CreatedAt()),
		UpdatedAt:  pgconv.TimeToPgtype(b.UpdatedAt()),
	}
}

func BookingToStatusParams(b *booking.Booking) pgsql.UpdateBookingStatusParams {
	return pgsql.UpdateBookingStatusParams{
		ID:           b.ID(),
		Status:       b.Status().String(),
		CancelReason: pgconv.NullableText(b.CancelReason().String()),
		UpdatedAt:    pgconv.TimeToPgtype(b.UpdatedAt()),
		ConfirmedAt:  pgconv.TimePtrToPgtype(b.ConfirmedAt()),
		CanceledAt:   pgconv.TimePtrToPgtype(b.CanceledAt()),
	}
}

// BookingFromRow rebuilds the entity from a stored row. Rows are trusted: the
// table's CHECK constraints already guarantee end_date > start_date and a known
// status.
func BookingFromRow(row pgsql.Bookings) (*booking.Booking, error) {
	interval, err := booking.NewInterval(pgconv.DateFromPgtype(row.StartDate), pgconv.DateFromPgtype(row.EndDate))
	if err != nil {
		return nil, err
	}
	status, err := booking.NewStatus(row.Status)
	if err != nil {
		return nil, err
	}

	var reason booking.CancelReason
	if row.CancelReason.Valid {
		reason = booking.CancelReason(row.CancelReason.String)
	}

	return booking.ReconstructBooking(
		row.ID,
		row.PropertyID,
		row.UserID,
		interval,
		status,
		booking.NewMoney(row.PriceCents),
		reason,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
		pgconv.TimePtrFromPgtype(row.ConfirmedAt),
		pgconv.TimePtrFromPgtype(row.CanceledAt),
	), nil
}

func PropertyToCreateParams(p *property.Property) pgsql.CreatePropertyParams {
	return pgsql.CreatePropertyParams{
		ID:               p.ID(),
		HostID:           p.HostID(),
		Name:             p.Name(),
		NightlyRateCents: p.NightlyRate().Cents(),
		CreatedAt:        pgconv.TimeToPgtype(p.CreatedAt()),
		UpdatedAt:        pgconv.TimeToPgtype(p.UpdatedAt()),
	}
}

func PropertySnapshotFromRow(row pgsql.Properties) *shared.PropertySnapshot {
	return &shared.PropertySnapshot{
		ID:               row.ID,
		HostID:           row.HostID,
		Name:             row.Name,
		NightlyRateCents: row.NightlyRateCents,
		CreatedAt:        pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:        pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
