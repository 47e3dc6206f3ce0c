//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/domain/user"
	"rental-booking/internal/handler/api"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/queries"
	"rental-booking/internal/usecase/shared"
	"rental-booking/tests/common/builder"
	"rental-booking/tests/common/httptest"
	"rental-booking/tests/common/testutil"
	commandsmock "rental-booking/tests/mock/commands"
	queriesmock "rental-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PropertyHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPropertyCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.PropertyHandler
	hostID       uuid.UUID
}

func (s *PropertyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPropertyCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewPropertyHandler(s.mockCommands, s.mockQueries)
	s.hostID = uuid.New()

	auth := fakeAuth(s.hostID, user.RoleHost)
	s.router.POST("/properties", auth, s.handler.Create)
	s.router.PUT("/properties/:id/rate", auth, s.handler.ChangeRate)
	s.router.GET("/properties/:id/occupancy", s.handler.Occupancy)
}

func (s *PropertyHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPropertyHandlerSuite(t *testing.T) {
	suite.Run(t, new(PropertyHandlerTestSuite))
}

func (s *PropertyHandlerTestSuite) newProperty(rateCents int64) *property.Property {
	return property.ReconstructProperty(uuid.New(), s.hostID, "Seaside Cottage", booking.NewMoney(rateCents), builder.DefaultNow, builder.DefaultNow)
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *PropertyHandlerTestSuite) TestCreate() {
	url := "/properties"
	reqBody := map[string]any{"name": "Seaside Cottage", "nightlyRateCents": 8000}

	s.Run("success: returns 201 with formatted rate", func() {
		created := s.newProperty(8000)
		s.mockCommands.EXPECT().Create(gomock.Any(), commands.CreatePropertyRequest{
			Host:             shared.Actor{ID: s.hostID, Role: user.RoleHost},
			Name:             "Seaside Cottage",
			NightlyRateCents: 8000,
		}).Return(created, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.PropertyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(created.ID(), body.ID)
		s.Equal(s.hostID, body.HostID)
		s.Equal("80.00", body.NightlyRate)
	})

	s.Run("error: 400 on invalid body", func() {
		cases := []testCaseBooking{
			{name: "missing name", mutate: testutil.Field("name", nil), expectCode: http.StatusBadRequest},
			{name: "negative rate", mutate: testutil.Field("nightlyRateCents", -1), expectCode: http.StatusBadRequest},
			{name: "rate is a string", mutate: testutil.Field("nightlyRateCents", "80.00"), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectCode, "invalid_request")
			})
		}
	})

	s.Run("error: domain validation surfaces as 400", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, property.ErrEmptyName).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"name": "   ", "nightlyRateCents": 0}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_request")
	})
}

// ================================================================================
// TestChangeRate
// ================================================================================

func (s *PropertyHandlerTestSuite) TestChangeRate() {
	prop := s.newProperty(12000)
	url := "/properties/" + prop.ID().String() + "/rate"

	s.Run("success: returns the updated property", func() {
		rate := int64(12000)
		s.mockCommands.EXPECT().ChangeRate(gomock.Any(), commands.ChangeRateRequest{
			PropertyID:       prop.ID(),
			Host:             shared.Actor{ID: s.hostID, Role: user.RoleHost},
			NightlyRateCents: rate,
		}).Return(prop, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"nightlyRateCents": rate}, "bearer-token")

		var body resdto.PropertyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("120.00", body.NightlyRate)
	})

	s.Run("success: zero is a valid rate", func() {
		s.mockCommands.EXPECT().ChangeRate(gomock.Any(), gomock.Any()).Return(s.newProperty(0), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"nightlyRateCents": 0}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 when rate is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_request")
	})

	s.Run("error: 403 for another host", func() {
		s.mockCommands.EXPECT().ChangeRate(gomock.Any(), gomock.Any()).Return(nil, commands.ErrForbidden).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"nightlyRateCents": 1}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "forbidden")
	})

	s.Run("error: 404 for unknown property", func() {
		s.mockCommands.EXPECT().ChangeRate(gomock.Any(), gomock.Any()).Return(nil, commands.ErrPropertyNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"nightlyRateCents": 1}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Property not found")
	})
}

// ================================================================================
// TestOccupancy
// ================================================================================

func (s *PropertyHandlerTestSuite) TestOccupancy() {
	propID := uuid.New()
	url := "/properties/" + propID.String() + "/occupancy"
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	s.Run("success: lists active ranges in the window", func() {
		window, err := booking.ParseInterval("2024-06-01", "2024-07-01")
		s.Require().NoError(err)
		first, second := uuid.New(), uuid.New()
		view := &queries.OccupancyView{
			Property: queries.PropertyView{ID: propID, HostID: s.hostID, Name: "Seaside Cottage", NightlyRateCents: 8000},
			From:     window.Start(),
			To:       window.End(),
			Occupied: []queries.OccupiedRange{
				{BookingID: first, StartDate: day(1), EndDate: day(5), Status: "confirmed"},
				{BookingID: second, StartDate: day(5), EndDate: day(8), Status: "pending"},
			},
		}
		s.mockQueries.EXPECT().Occupancy(gomock.Any(), propID, window).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2024-06-01&to=2024-07-01", nil, "")

		var body resdto.OccupancyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		want := resdto.OccupancyResponse{
			Property: resdto.PropertyResponse{ID: propID, HostID: s.hostID, Name: "Seaside Cottage", NightlyRate: "80.00", NightlyRateCents: 8000},
			From:     "2024-06-01",
			To:       "2024-07-01",
			Occupied: []resdto.OccupiedRangeResponse{
				{BookingID: first, Start: "2024-06-01", End: "2024-06-05", Status: "confirmed"},
				{BookingID: second, Start: "2024-06-05", End: "2024-06-08", Status: "pending"},
			},
		}
		if diff := cmp.Diff(want, body); diff != "" {
			s.T().Errorf("occupancy mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("error: 400 on bad window", func() {
		cases := []struct {
			name  string
			query string
		}{
			{name: "missing to", query: "?from=2024-06-01"},
			{name: "inverted", query: "?from=2024-06-10&to=2024-06-01"},
			{name: "empty window", query: "?from=2024-06-10&to=2024-06-10"},
			{name: "not a date", query: "?from=june&to=2024-06-10"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+tc.query, nil, "")
				httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "invalid_request")
			})
		}
	})

	s.Run("error: 400 when the window is too wide", func() {
		s.mockQueries.EXPECT().Occupancy(gomock.Any(), propID, gomock.Any()).Return(nil, queries.ErrInvalidRange).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2024-01-01&to=2026-01-01", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "too wide")
	})

	s.Run("error: 404 for unknown property", func() {
		s.mockQueries.EXPECT().Occupancy(gomock.Any(), propID, gomock.Any()).Return(nil, queries.ErrPropertyNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?from=2024-06-01&to=2024-07-01", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "not_found")
	})
}
