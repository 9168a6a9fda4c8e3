package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAnswer(t *testing.T) {
	m := New()

	m.ObserveAnswer(true)
	m.ObserveAnswer(false)
	m.ObserveAnswer(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnswersSubmitted.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnswersSubmitted.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HeartsLost))
}

func TestObserveRequest_UnmatchedRoute(t *testing.T) {
	m := New()

	m.ObserveRequest("", http.MethodGet, 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("unmatched", "GET", "404")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New()
	m.StepFailed("badge")
	m.QuizzesCompleted.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `lessonforge_completion_step_errors_total{step="badge"} 1`))
	assert.True(t, strings.Contains(body, "lessonforge_quiz_sessions_completed_total 1"))
}
