package response

import (
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PropertyResponse struct {
	ID               uuid.UUID `json:"id"`
	HostID           uuid.UUID `json:"hostId"`
	Name             string    `json:"name"`
	NightlyRate      string    `json:"nightlyRate"`
	NightlyRateCents int64     `json:"nightlyRateCents"`
}

type OccupiedRangeResponse struct {
	BookingID uuid.UUID `json:"bookingId"`
	Start     string    `json:"startDate"`
	End       string    `json:"endDate"`
	Status    string    `json:"status"`
}

type OccupancyResponse struct {
	Property PropertyResponse        `json:"property"`
	From     string                  `json:"from"`
	To       string                  `json:"to"`
	Occupied []OccupiedRangeResponse `json:"occupied"`
}

func FromProperty(p *property.Property) *PropertyResponse {
	return &PropertyResponse{
		ID:               p.ID(),
		HostID:           p.HostID(),
		Name:             p.Name(),
		NightlyRate:      p.NightlyRate().String(),
		NightlyRateCents: p.NightlyRate().Cents(),
	}
}

func FromOccupancyView(v *queries.OccupancyView) *OccupancyResponse {
	resp := &OccupancyResponse{
		From:     formatDate(v.From),
		To:       formatDate(v.To),
		Occupied: make([]OccupiedRangeResponse, len(v.Occupied)),
	}
	_ = copier.Copy(&resp.Property, &v.Property)
	resp.Property.NightlyRate = booking.NewMoney(v.Property.NightlyRateCents).String()

	for i, r := range v.Occupied {
		resp.Occupied[i] = OccupiedRangeResponse{
			BookingID: r.BookingID,
			Start:     formatDate(r.StartDate),
			End:       formatDate(r.EndDate),
			Status:    r.Status,
		}
	}
	return resp
}

func formatDate(t time.Time) string {
	return t.Format(booking.DateLayout)
}
