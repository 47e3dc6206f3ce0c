package response

import (
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID           uuid.UUID  `json:"id"`
	PropertyID   uuid.UUID  `json:"propertyId"`
	PropertyName string     `json:"propertyName,omitempty"`
	UserID       uuid.UUID  `json:"userId"`
	Start        string     `json:"startDate"`
	End          string     `json:"endDate"`
	Nights       int        `json:"nights"`
	Status       string     `json:"status"`
	Price        string     `json:"price"`
	PriceCents   int64      `json:"priceCents"`
	CancelReason *string    `json:"cancelReason,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"`
	CanceledAt   *time.Time `json:"canceledAt,omitempty"`
}

type BookingListItemResponse struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   uuid.UUID `json:"propertyId"`
	PropertyName string    `json:"propertyName"`
	Start        string    `json:"startDate"`
	End          string    `json:"endDate"`
	Status       string    `json:"status"`
	Price        string    `json:"price"`
	PriceCents   int64     `json:"priceCents"`
	CreatedAt    time.Time `json:"createdAt"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor string                     `json:"nextCursor,omitempty"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID(),
		PropertyID:  b.PropertyID(),
		UserID:      b.UserID(),
		Start:       b.Interval().Start().Format(booking.DateLayout),
		End:         b.Interval().End().Format(booking.DateLayout),
		Nights:      b.Interval().Nights(),
		Status:      b.Status().String(),
		Price:       b.Price().String(),
		PriceCents:  b.Price().Cents(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
		ConfirmedAt: b.ConfirmedAt(),
		CanceledAt:  b.CanceledAt(),
	}
	if reason := b.CancelReason(); reason != "" {
		s := reason.String()
		resp.CancelReason = &s
	}
	return resp
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{}
	// Identically named fields of matching type carry over; dates are rendered below.
	_ = copier.Copy(resp, v)
	resp.Start = v.StartDate.Format(booking.DateLayout)
	resp.End = v.EndDate.Format(booking.DateLayout)
	resp.Nights = int(v.EndDate.Sub(v.StartDate).Hours() / 24)
	resp.Price = booking.NewMoney(v.PriceCents).String()
	return resp
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) *BookingListResponse {
	resp := &BookingListResponse{Items: make([]*BookingListItemResponse, len(items))}
	for i, item := range items {
		out := &BookingListItemResponse{}
		_ = copier.Copy(out, item)
		out.Start = item.StartDate.Format(booking.DateLayout)
		out.End = item.EndDate.Format(booking.DateLayout)
		out.Price = booking.NewMoney(item.PriceCents).String()
		resp.Items[i] = out
	}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp
}
