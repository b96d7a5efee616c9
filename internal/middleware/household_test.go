package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestRequireHousehold(t *testing.T) {
	householdID := uuid.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantID     uuid.UUID
	}{
		{"valid header", householdID.String(), http.StatusOK, householdID},
		{"missing header", "", http.StatusBadRequest, uuid.Nil},
		{"not a uuid", "household-1", http.StatusBadRequest, uuid.Nil},
		{"nil uuid", uuid.Nil.String(), http.StatusBadRequest, uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/snapshots", nil)
			if tt.header != "" {
				req.Header.Set(HouseholdHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var gotID uuid.UUID
			handler := func(c echo.Context) error {
				gotID = GetHouseholdID(c)
				return c.NoContent(http.StatusOK)
			}

			if err := RequireHousehold()(handler)(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotID != tt.wantID {
				t.Errorf("GetHouseholdID() = %s, want %s", gotID, tt.wantID)
			}
		})
	}
}

func TestGetHouseholdID_NotSet(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if id := GetHouseholdID(c); id != uuid.Nil {
		t.Errorf("GetHouseholdID() = %s, want nil UUID", id)
	}
}
