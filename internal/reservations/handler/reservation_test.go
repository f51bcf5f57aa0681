package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reservas/internal/reservations/repository"
	"reservas/pkg/logger"
	"reservas/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockReservationService struct {
	availabilityFunc func(ctx context.Context, spaceID, date string, includePending bool) (*model.AvailabilityResult, error)
}

func (m *mockReservationService) Create(ctx context.Context, actor model.Actor, reservation *model.Reservation) error {
	return nil
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationService) GetAll(ctx context.Context, filter repository.ListFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationService) Patch(ctx context.Context, actor model.Actor, id string, patch *model.ReservationPatch) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationService) ChangeState(ctx context.Context, actor model.Actor, id string, stateID string) (*model.StateChangeResult, error) {
	return nil, nil
}

func (m *mockReservationService) Delete(ctx context.Context, actor model.Actor, id string) error {
	return nil
}

func (m *mockReservationService) Availability(ctx context.Context, spaceID, date string, includePending bool) (*model.AvailabilityResult, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, spaceID, date, includePending)
	}
	return &model.AvailabilityResult{SpaceID: spaceID, Date: date}, nil
}

func TestAvailability_IncludePendingParameter(t *testing.T) {
	log := logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.TEXT,
		Service: "test",
	})

	tests := []struct {
		name        string
		queryString string
		expectCode  int
		expectCall  bool
		wantPending bool
	}{
		{
			name:        "defaults to including pending",
			queryString: "space_id=abc&date=2026-09-15",
			expectCode:  http.StatusOK,
			expectCall:  true,
			wantPending: true,
		},
		{
			name:        "explicit opt out",
			queryString: "space_id=abc&date=2026-09-15&include_pending=false",
			expectCode:  http.StatusOK,
			expectCall:  true,
			wantPending: false,
		},
		{
			name:        "explicit opt in",
			queryString: "space_id=abc&date=2026-09-15&include_pending=true",
			expectCode:  http.StatusOK,
			expectCall:  true,
			wantPending: true,
		},
		{
			name:        "missing space and date",
			queryString: "include_pending=false",
			expectCode:  http.StatusBadRequest,
			expectCall:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var receivedPending bool
			mockService := &mockReservationService{
				availabilityFunc: func(ctx context.Context, spaceID, date string, includePending bool) (*model.AvailabilityResult, error) {
					called = true
					receivedPending = includePending
					return &model.AvailabilityResult{SpaceID: spaceID, Date: date}, nil
				},
			}

			h := &ReservationHandler{service: mockService, log: log}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?"+tt.queryString, nil)
			rec := httptest.NewRecorder()
			h.Availability(rec, req, httprouter.Params{})

			if rec.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d", tt.expectCode, rec.Code)
			}
			if called != tt.expectCall {
				t.Fatalf("expected service called=%v, got %v", tt.expectCall, called)
			}
			if tt.expectCall && receivedPending != tt.wantPending {
				t.Errorf("expected includePending=%v, got %v", tt.wantPending, receivedPending)
			}
		})
	}
}
