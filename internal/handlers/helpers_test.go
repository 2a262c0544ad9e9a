package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/volunteer-api/internal/models"
	"github.com/dimitrije/volunteer-api/internal/services"
	"github.com/dimitrije/volunteer-api/internal/testutil"
	"github.com/dimitrije/volunteer-api/pkg/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testLogger = zap.NewNop()

func volunteerToken(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID) string {
	t.Helper()
	return testutil.GenerateTestToken(t, jwtSvc, userID, "volunteer@example.com", models.RoleVolunteer)
}

func adminToken(t *testing.T, jwtSvc *services.JWTService, userID uuid.UUID) string {
	t.Helper()
	return testutil.GenerateTestToken(t, jwtSvc, userID, "admin@example.com", models.RoleAdmin)
}

// doRequest sends body through the shared test client, as JSON unless it is
// a raw string, with a bearer token when one is given.
func doRequest(t *testing.T, app http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var headers map[string]string
	if token != "" {
		headers = testutil.AuthHeader(token)
	}
	return testutil.NewHTTPTestClient(t, app).Request(method, path, body, headers)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	testutil.ParseJSON(t, rec, &resp)
	return resp
}

func newTestEvent() *models.Event {
	return &models.Event{
		ID:             uuid.New(),
		Name:           "Food Drive",
		Description:    "Sort donations",
		Location:       "Community Hall",
		RequiredSkills: []string{"Logistics"},
		Urgency:        "High",
		EventDate:      time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		Status:         models.EventStatusOpen,
	}
}
