package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Zachkp/folio/internal/contact"
)

func TestSubmissionCounters(t *testing.T) {
	m := New()
	m.Submission(OutcomeRejected, contact.ErrorState{
		contact.FieldName:  contact.MsgNameRequired,
		contact.FieldEmail: contact.MsgEmailInvalid,
	})
	m.Submission(OutcomeAccepted, nil)
	m.Submission(OutcomeAccepted, nil)

	if got := testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeAccepted)); got != 2 {
		t.Errorf("accepted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeRejected)); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fieldErrors.WithLabelValues("email")); got != 1 {
		t.Errorf("email errors = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Submission(OutcomeAccepted, nil)
	m.Visit()
}

func TestHandler(t *testing.T) {
	m := New()
	m.Visit()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "folio_visits_tracked_total 1") {
		t.Errorf("metrics output missing visit counter:\n%s", body)
	}
}
