package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prepmate/prepmate-api/internal/api"
	"github.com/prepmate/prepmate-api/internal/api/middleware"
	"github.com/prepmate/prepmate-api/internal/api/shared"
	"github.com/prepmate/prepmate-api/internal/mocks"
	"github.com/prepmate/prepmate-api/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// testServices holds the mocks behind a test router. Tests set the Fn
// fields they need before sending requests.
type testServices struct {
	review   *mocks.MockReviewService
	deck     *mocks.MockDeckService
	habit    *mocks.MockHabitService
	reminder *mocks.MockReminderService
	study    *mocks.MockStudyService
}

func newTestRouter(t *testing.T) (http.Handler, *testServices) {
	t.Helper()
	log := logger.DiscardLogger()
	svcs := &testServices{
		review:   &mocks.MockReviewService{},
		deck:     &mocks.MockDeckService{},
		habit:    &mocks.MockHabitService{},
		reminder: &mocks.MockReminderService{},
		study:    &mocks.MockStudyService{},
	}

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, api.Handlers{
			Review:   api.NewReviewHandler(svcs.review, log),
			Deck:     api.NewDeckHandler(svcs.deck, log),
			Habit:    api.NewHabitHandler(svcs.habit, log),
			Reminder: api.NewReminderHandler(svcs.reminder, log),
			Study:    api.NewStudyHandler(svcs.study, log),
		})
	})
	return r, svcs
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	resp := decodeBody[shared.ErrorResponse](t, w)
	require.Len(t, resp.TraceID, 32)
	return resp
}
