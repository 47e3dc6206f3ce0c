//go:build e2e

package booking_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/tests/common/authtest"
	"rental-booking/tests/common/builder"
	"rental-booking/tests/common/dbtest"
	"rental-booking/tests/common/httptest"
	"rental-booking/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL  = "/api/bookings"
	bookingURL   = "/api/bookings/%s"
	confirmURL   = "/api/bookings/%s/confirm"
	cancelURL    = "/api/bookings/%s/cancel"
	propertyURL  = "/api/properties"
	rateURL      = "/api/properties/%s/rate"
	occupancyURL = "/api/properties/%s/occupancy?from=%s&to=%s"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

type actors struct {
	hostToken     string
	guestID       uuid.UUID
	guestToken    string
	otherToken    string
	paymentsToken string
	propertyID    uuid.UUID
}

// seed creates a host with one listed property plus two guests and the
// payments service account.
func (s *BookingSuite) seed(t *testing.T, rateCents int64) actors {
	t.Helper()
	var a actors

	_, a.hostToken = authtest.CreateAndAuthenticate(t, s.DB, s.Config.JWT, "host@example.com", user.RoleHost)
	a.guestID, a.guestToken = authtest.CreateAndAuthenticate(t, s.DB, s.Config.JWT, "guest@example.com", user.RoleGuest)
	_, a.otherToken = authtest.CreateAndAuthenticate(t, s.DB, s.Config.JWT, "other@example.com", user.RoleGuest)
	_, a.paymentsToken = authtest.CreateAndAuthenticate(t, s.DB, s.Config.JWT, "payments@example.com", user.RolePayments)

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, propertyURL,
		map[string]any{"name": "Seaside Cottage", "nightlyRateCents": rateCents}, a.hostToken)
	var prop response.PropertyResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &prop)
	a.propertyID = prop.ID
	return a
}

func (s *BookingSuite) reserve(t *testing.T, token string, propertyID uuid.UUID, start, end string) (*response.BookingResponse, int, []byte) {
	t.Helper()
	req := builder.NewBookingBuilder().WithProperty(propertyID).WithDates(start, end).BuildRequestDTO()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, token)
	if w.Code != http.StatusCreated {
		return nil, w.Code, w.Body.Bytes()
	}
	var created response.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return &created, w.Code, w.Body.Bytes()
}

// =============================================================================
// TestBookingLifecycle
// =============================================================================

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("Normal case: reserve, conflict, back-to-back, confirm, cancel, re-reserve", func() {
		t := s.T()
		a := s.seed(t, 8000)

		first, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-01", "2024-06-05")
		require.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "pending", first.Status)
		assert.Equal(t, 4, first.Nights)
		assert.Equal(t, "320.00", first.Price)
		assert.Equal(t, a.guestID, first.UserID)

		_, code, body := s.reserve(t, a.otherToken, a.propertyID, "2024-06-03", "2024-06-06")
		require.Equal(t, http.StatusConflict, code)
		var conflict struct {
			Detail httperr.ConflictDetail `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(body, &conflict))
		assert.Equal(t, []string{first.ID.String()}, conflict.Detail.ConflictingBookingIDs)

		second, code, _ := s.reserve(t, a.otherToken, a.propertyID, "2024-06-05", "2024-06-08")
		require.Equal(t, http.StatusCreated, code, "checkout day is free for the next stay")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, first.ID),
			map[string]string{"startDate": "2024-06-01", "endDate": "2024-06-05"}, a.paymentsToken)
		var confirmed response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &confirmed)
		assert.Equal(t, "confirmed", confirmed.Status)
		assert.NotNil(t, confirmed.ConfirmedAt)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, second.ID), nil, a.otherToken)
		var canceled response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &canceled)
		assert.Equal(t, "canceled", canceled.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, second.ID), nil, a.otherToken)
		var again response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &again)
		assert.WithinDuration(t, canceled.UpdatedAt, again.UpdatedAt, time.Millisecond, "second cancel changes nothing")

		third, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-05", "2024-06-07")
		require.Equal(t, http.StatusCreated, code, "canceled nights are free again")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(occupancyURL, a.propertyID, "2024-06-01", "2024-07-01"), nil, "")
		var occ response.OccupancyResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &occ)
		want := []response.OccupiedRangeResponse{
			{BookingID: first.ID, Start: "2024-06-01", End: "2024-06-05", Status: "confirmed"},
			{BookingID: third.ID, Start: "2024-06-05", End: "2024-06-07", Status: "pending"},
		}
		if diff := cmp.Diff(want, occ.Occupied, cmpopts.SortSlices(func(x, y response.OccupiedRangeResponse) bool {
			return x.Start < y.Start
		})); diff != "" {
			t.Errorf("occupancy mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 2, dbtest.CountActiveBookings(t, s.DB, a.propertyID))
	})
}

// =============================================================================
// TestConfirmRules
// =============================================================================

func (s *BookingSuite) TestConfirmRules() {
	s.Run("Error case: guests cannot confirm", func() {
		t := s.T()
		a := s.seed(t, 8000)
		b, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-01", "2024-06-03")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, b.ID),
			map[string]string{"startDate": "2024-06-01", "endDate": "2024-06-03"}, a.guestToken)
		httptest.AssertErrorCode(t, w, http.StatusForbidden, "forbidden")
	})

	s.Run("Error case: paid dates must match the booking", func() {
		t := s.T()
		a := s.seed(t, 8000)
		b, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-01", "2024-06-03")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, b.ID),
			map[string]string{"startDate": "2024-06-01", "endDate": "2024-06-04"}, a.paymentsToken)
		httptest.AssertErrorCode(t, w, http.StatusUnprocessableEntity, "unprocessable")
	})

	s.Run("Error case: canceled bookings cannot be confirmed", func() {
		t := s.T()
		a := s.seed(t, 8000)
		b, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-01", "2024-06-03")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID), nil, a.guestToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, b.ID),
			map[string]string{"startDate": "2024-06-01", "endDate": "2024-06-03"}, a.paymentsToken)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "conflict")
	})
}

// =============================================================================
// TestCancelRules
// =============================================================================

func (s *BookingSuite) TestCancelRules() {
	s.Run("Error case: another guest cannot cancel", func() {
		t := s.T()
		a := s.seed(t, 8000)
		b, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-01", "2024-06-03")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID), nil, a.otherToken)
		httptest.AssertErrorCode(t, w, http.StatusForbidden, "forbidden")
	})

	s.Run("Normal case: payments refunds a confirmed booking", func() {
		t := s.T()
		a := s.seed(t, 8000)
		b, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-01", "2024-06-03")
		require.Equal(t, http.StatusCreated, code)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, b.ID),
			map[string]string{"startDate": "2024-06-01", "endDate": "2024-06-03"}, a.paymentsToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, b.ID),
			map[string]string{"reason": "refunded"}, a.paymentsToken)
		var refunded response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &refunded)
		require.NotNil(t, refunded.CancelReason)
		assert.Equal(t, "refunded", *refunded.CancelReason)
	})
}

// =============================================================================
// TestPriceStability
// =============================================================================

func (s *BookingSuite) TestPriceStability() {
	s.Run("Normal case: rate change does not reprice existing bookings", func() {
		t := s.T()
		a := s.seed(t, 8000)
		b, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-01", "2024-06-03")
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "160.00", b.Price)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, fmt.Sprintf(rateURL, a.propertyID),
			map[string]int64{"nightlyRateCents": 12000}, a.hostToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, b.ID), nil, a.guestToken)
		var stored response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &stored)
		assert.Equal(t, "160.00", stored.Price)

		next, code, _ := s.reserve(t, a.guestToken, a.propertyID, "2024-06-03", "2024-06-05")
		require.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "240.00", next.Price)
	})
}

// =============================================================================
// TestConcurrentReservations
// =============================================================================

func (s *BookingSuite) TestConcurrentReservations() {
	s.Run("Normal case: exactly one of many overlapping requests wins", func() {
		t := s.T()
		a := s.seed(t, 8000)

		const attempts = 20
		tokens := make([]string, attempts)
		for i := range tokens {
			_, tokens[i] = authtest.CreateAndAuthenticate(t, s.DB, s.Config.JWT, fmt.Sprintf("racer%d@example.com", i), user.RoleGuest)
		}

		req := builder.NewBookingBuilder().WithProperty(a.propertyID).WithDates("2024-08-01", "2024-08-04").BuildRequestDTO()
		codes := make([]int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, req, tokens[i])
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		var created, conflicted int
		for _, c := range codes {
			switch c {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, attempts-1, conflicted)
		assert.Equal(t, 1, dbtest.CountActiveBookings(t, s.DB, a.propertyID))
	})
}
