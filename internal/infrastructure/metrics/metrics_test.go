package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/domain/documents"
	"invoicedesk/internal/domain/navigation"
)

func TestMetrics_Recorders(t *testing.T) {
	m := New()

	m.DocumentSaved(documents.TypeInvoice)
	m.DocumentSaved(documents.TypeInvoice)
	m.DocumentSaved(documents.TypeReceipt)
	m.NavigationDecided(navigation.Redirect)
	m.StorageChanged("invoices", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsSaved.WithLabelValues("invoice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsSaved.WithLabelValues("receipt")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DocumentsSaved.WithLabelValues("quotation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NavigationDecisions.WithLabelValues("redirect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageChanges.WithLabelValues("invoices", "false")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.DocumentSaved(documents.TypeQuotation)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.DocumentsSaved.WithLabelValues("quotation")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DocumentsSaved.WithLabelValues("quotation")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/clients", http.MethodGet, http.StatusOK, time.Now())
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `invoicedesk_http_requests_total{method="GET",route="/api/clients",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
}
