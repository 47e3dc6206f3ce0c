package request

import (
	"rental-booking/internal/domain/booking"
)

type CreatePropertyRequest struct {
	Name             string `json:"name" binding:"required,max=200"`
	NightlyRateCents int64  `json:"nightlyRateCents" binding:"gte=0"`
}

type ChangeRateRequest struct {
	NightlyRateCents *int64 `json:"nightlyRateCents" binding:"required,gte=0"`
}

type OccupancyQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

func (q OccupancyQuery) Window() (booking.Interval, error) {
	return booking.ParseInterval(q.From, q.To)
}
