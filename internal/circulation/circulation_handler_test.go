package circulation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCirculationService to mock implementation of CirculationService
type MockCirculationService struct {
	mock.Mock
}

func (m *MockCirculationService) CheckOut(assetID, cardID int) (Outcome, error) {
	args := m.Called(assetID, cardID)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockCirculationService) CheckIn(assetID int) (Outcome, error) {
	args := m.Called(assetID)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockCirculationService) CheckOutToFirstReserve(assetID, cardID int) (Outcome, error) {
	args := m.Called(assetID, cardID)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockCirculationService) PlaceHold(assetID, cardID int) (Outcome, error) {
	args := m.Called(assetID, cardID)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockCirculationService) MarkLost(assetID int) (Outcome, error) {
	args := m.Called(assetID)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockCirculationService) MarkFound(assetID int) (Outcome, error) {
	args := m.Called(assetID)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockCirculationService) GetCurrentHolds(assetID int) ([]models.Hold, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hold), args.Error(1)
}

func (m *MockCirculationService) GetCheckoutHistory(assetID int) ([]models.CheckoutHistory, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CheckoutHistory), args.Error(1)
}

func setupRouter(service CirculationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewCirculationHandler(service)
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func TestCheckOutHandler(t *testing.T) {
	tests := []struct {
		name           string
		outcome        Outcome
		expectedStatus int
	}{
		{
			name:           "Applied",
			outcome:        OutcomeApplied,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Already checked out",
			outcome:        OutcomeAlreadyCheckedOut,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Invalid reference",
			outcome:        OutcomeInvalidReference,
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockCirculationService)
			service.On("CheckOut", 1, 7).Return(tt.outcome, nil)
			router := setupRouter(service)

			body, _ := json.Marshal(map[string]int{"library_card_id": 7})
			req := httptest.NewRequest(http.MethodPost, "/api/assets/1/checkout", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()

			router.ServeHTTP(resp, req)

			assert.Equal(t, tt.expectedStatus, resp.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestCheckOutHandlerInvalidPayload(t *testing.T) {
	service := new(MockCirculationService)
	router := setupRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/assets/1/checkout", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	service.AssertNotCalled(t, "CheckOut")
}

func TestCheckOutHandlerInvalidAssetID(t *testing.T) {
	service := new(MockCirculationService)
	router := setupRouter(service)

	body, _ := json.Marshal(map[string]int{"library_card_id": 7})
	req := httptest.NewRequest(http.MethodPost, "/api/assets/abc/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	service.AssertNotCalled(t, "CheckOut")
}

func TestCheckInHandler(t *testing.T) {
	service := new(MockCirculationService)
	service.On("CheckIn", 1).Return(OutcomeApplied, nil)
	router := setupRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/assets/1/checkin", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	service.AssertExpectations(t)
}

func TestPlaceHoldHandler(t *testing.T) {
	service := new(MockCirculationService)
	service.On("PlaceHold", 1, 7).Return(OutcomeInvalidReference, nil)
	router := setupRouter(service)

	body, _ := json.Marshal(map[string]int{"library_card_id": 7})
	req := httptest.NewRequest(http.MethodPost, "/api/assets/1/hold", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	service.AssertExpectations(t)
}

func TestGetHoldsHandler(t *testing.T) {
	service := new(MockCirculationService)
	service.On("GetCurrentHolds", 1).Return([]models.Hold{
		{ID: 3, AssetID: 1, LibraryCardID: 7},
	}, nil)
	router := setupRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/assets/1/holds", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var holds []models.Hold
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &holds))
	assert.Len(t, holds, 1)
	assert.Equal(t, 7, holds[0].LibraryCardID)
	service.AssertExpectations(t)
}
