package handler

import (
	"bytes"
	"encoding/csv"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportBody(format string, archive bool) string {
	body := allocationBody + `, "currentSavings": "4000", "format": "` + format + `"`
	if archive {
		body += `, "archive": true`
	}
	return body + "}"
}

func TestCreateReport_CSV(t *testing.T) {
	s := newTestServer(t, false)
	householdID := uuid.New()

	rec := s.do(http.MethodPost, "/api/v1/reports", reportBody("csv", false), &householdID)
	assertStatus(t, rec, http.StatusOK)

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="fortuna-plan-`)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `.csv"`)

	r := csv.NewReader(strings.NewReader(rec.Body.String()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"section", "item", "value"}, records[0])

	// previews never record history
	assert.Equal(t, 0, s.snapshots.Count(householdID))
}

func TestCreateReport_PNG(t *testing.T) {
	s := newTestServer(t, false)
	householdID := uuid.New()

	rec := s.do(http.MethodPost, "/api/v1/reports", reportBody("png", false), &householdID)
	assertStatus(t, rec, http.StatusOK)

	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestCreateReport_Archive(t *testing.T) {
	s := newTestServer(t, true)
	householdID := uuid.New()

	rec := s.do(http.MethodPost, "/api/v1/reports", reportBody("csv", true), &householdID)
	assertStatus(t, rec, http.StatusCreated)

	var archived domain.ArchivedReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))

	assert.True(t, strings.HasPrefix(archived.ObjectPath, "reports/"+householdID.String()+"/"))
	assert.True(t, strings.HasSuffix(archived.ObjectPath, ".csv"))
	assert.Contains(t, archived.URL, archived.ObjectPath)
	assert.False(t, archived.ExpiresAt.IsZero())
	assert.Contains(t, s.storage.Objects, archived.ObjectPath)

	events := s.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, householdID, events[0].HouseholdID)
	assert.Equal(t, "report.archived", events[0].Event.Type)
}

func TestCreateReport_ArchiveNotConfigured(t *testing.T) {
	s := newTestServer(t, false)
	householdID := uuid.New()

	rec := s.do(http.MethodPost, "/api/v1/reports", reportBody("png", true), &householdID)
	assertStatus(t, rec, http.StatusServiceUnavailable)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, ErrorTypeUnavailable, problem.Type)
}

func TestCreateReport_ArchiveUploadFails(t *testing.T) {
	s := newTestServer(t, true)
	s.storage.UploadErr = assert.AnError
	householdID := uuid.New()

	rec := s.do(http.MethodPost, "/api/v1/reports", reportBody("csv", true), &householdID)

	assertStatus(t, rec, http.StatusInternalServerError)
	assert.Empty(t, s.publisher.Published())
}

func TestCreateReport_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown format", reportBody("pdf", false)},
		{"missing format", allocationBody + "}"},
		{"bad percentages", `{"income": "5000", "savingsPct": "50", "debtPct": "50", "expensesPct": "50", "format": "csv"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false)
			householdID := uuid.New()

			rec := s.do(http.MethodPost, "/api/v1/reports", tt.body, &householdID)
			assertStatus(t, rec, http.StatusBadRequest)
		})
	}
}
