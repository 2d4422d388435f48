package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"invoicedesk/internal/core/kv"
	"invoicedesk/internal/domain/auth"
	"invoicedesk/internal/domain/directory"
	"invoicedesk/internal/domain/documents"
	"invoicedesk/internal/domain/navigation"
	"invoicedesk/internal/infrastructure/metrics"
)

type fakeClientRepo struct {
	rows    []directory.Client
	listErr error
	saveErr error
}

func (f *fakeClientRepo) List(context.Context) ([]directory.Client, error) {
	return f.rows, f.listErr
}

func (f *fakeClientRepo) Create(_ context.Context, name, email string) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	id := int64(len(f.rows) + 1)
	f.rows = append(f.rows, directory.Client{ID: id, Name: name, Email: email})
	return id, nil
}

type testServer struct {
	router  *gin.Engine
	area    *kv.Memory
	clients *fakeClientRepo
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	area := kv.NewMemory()
	m := metrics.New()
	authSvc := auth.NewService(auth.NewFlagStore(area), auth.ServiceConfig{Username: "admin", PasswordHash: hash})
	repo := &fakeClientRepo{}

	router := NewRouter(RouterConfig{
		Documents: documents.NewService(documents.ServiceConfig{Area: area, Recorder: m}),
		Auth:      authSvc,
		Navigator: navigation.NewNavigator(navigation.DefaultTable(), authSvc, m),
		Directory: directory.NewService(repo),
		Metrics:   m,
	})
	gin.SetMode(gin.TestMode)

	return &testServer{router: router, area: area, clients: repo, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestClients_CreateThenList(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/clients", map[string]string{"name": "Jo", "email": "jo@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[directory.Client](t, rec)
	assert.Equal(t, directory.Client{ID: 1, Name: "Jo", Email: "jo@x.com"}, created)

	rec = s.do(t, http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []directory.Client{created}, decode[[]directory.Client](t, rec))
}

func TestClients_EmptyListIsArray(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestClients_FailureCarriesRawError(t *testing.T) {
	s := newTestServer(t)
	s.clients.listErr = errors.New("dial tcp 127.0.0.1:5432: connection refused")
	s.clients.saveErr = errors.New("relation \"clients\" does not exist")

	rec := s.do(t, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "REMOTE_REQUEST_FAILED", body["code"])
	assert.Equal(t, "dial tcp 127.0.0.1:5432: connection refused", body["error"])

	rec = s.do(t, http.MethodPost, "/api/clients", map[string]string{"name": "Jo"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, `relation "clients" does not exist`, decode[map[string]any](t, rec)["error"])
}

func TestClients_WithoutDatabaseAnswer500(t *testing.T) {
	area := kv.NewMemory()
	authSvc := auth.NewService(auth.NewFlagStore(area), auth.ServiceConfig{Username: "admin"})
	s := &testServer{router: NewRouter(RouterConfig{
		Documents: documents.NewService(documents.ServiceConfig{Area: area}),
		Auth:      authSvc,
		Navigator: navigation.NewNavigator(navigation.DefaultTable(), authSvc, nil),
	})}

	rec := s.do(t, http.MethodGet, "/api/clients", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "REMOTE_REQUEST_FAILED", body["code"])
	assert.Equal(t, directory.ErrNotConfigured.Error(), body["error"])

	rec = s.do(t, http.MethodPost, "/api/clients", map[string]string{"name": "Jo", "email": "jo@x.com"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.Equal(t, "REMOTE_REQUEST_FAILED", body["code"])
	assert.Equal(t, directory.ErrNotConfigured.Error(), body["error"])
}

func TestPages_RedirectThenAllowAfterLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/invoice", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, navigation.LoginPath, rec.Header().Get("Location"))

	rec = s.do(t, http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"page":"Login","path":"/login"}`, rec.Body.String())

	s.login(t)

	rec = s.do(t, http.MethodGet, "/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"page":"InvoicePage","path":"/invoice"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestPages_FlagWrittenOutsideHTTPIsHonored(t *testing.T) {
	s := newTestServer(t)

	require.NoError(t, s.area.Set(context.Background(), auth.FlagKey, []byte("true")))
	rec := s.do(t, http.MethodGet, "/receipt", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPages_UnknownPath(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/settings", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", decode[map[string]any](t, rec)["code"])
}

func TestAuth_LoginRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/auth/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestDocuments_RequireFlag(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/documents/invoice", "/api/invoices", "/api/quotations", "/api/receipts"} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestDocuments_RawSaveAndList(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodGet, "/api/documents/quotation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, body := range []string{`{"client":"Acme","amount":100}`, `{"client":"Beta","amount":50}`} {
		rec = s.do(t, http.MethodPost, "/api/documents/invoice", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/documents/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"client":"Acme","amount":100},{"client":"Beta","amount":50}]`, rec.Body.String())

	stored, found, err := s.area.Get(context.Background(), documents.KeyInvoices)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, rec.Body.String(), string(stored))
}

func TestDocuments_UnknownTypeDoesNotWrite(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/api/documents/invoicez", `{"x":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNKNOWN_DOCUMENT_TYPE", decode[map[string]any](t, rec)["code"])

	assert.ElementsMatch(t, []string{auth.FlagKey}, s.area.Keys())
}

func TestDocuments_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/api/documents/receipt", `{"x":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[map[string]any](t, rec)["code"])
}

func TestTypedInvoices(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	req := map[string]any{
		"clientName": "Acme",
		"taxRate":    "10",
		"items": []map[string]any{
			{"description": "Design", "quantity": "2", "unitPrice": "150"},
			{"description": "Hosting", "quantity": "1", "unitPrice": "19.99"},
		},
	}

	rec := s.do(t, http.MethodPost, "/api/invoices", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inv := decode[documents.Invoice](t, rec)
	assert.Equal(t, "INV-00001", inv.Number)
	assert.Equal(t, "319.99", inv.Subtotal.String())
	assert.Equal(t, "32", inv.Tax.String())
	assert.Equal(t, "351.99", inv.Total.String())

	rec = s.do(t, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]documents.Invoice](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, inv.ID, list[0].ID)

	rec = s.do(t, http.MethodGet, "/api/documents/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 1)
}

func TestTypedInvoices_ValidationErrors(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/api/invoices", map[string]any{"clientName": "Acme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/invoices", map[string]any{
		"clientName": "Acme",
		"items":      []map[string]any{{"description": "x", "quantity": "0", "unitPrice": "1"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[map[string]any](t, rec)["code"])

	assert.NotContains(t, s.area.Keys(), documents.KeyInvoices)
}

func TestTypedReceipts_Balance(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/api/receipts", map[string]any{
		"clientName": "Beta",
		"amountPaid": "20",
		"items":      []map[string]any{{"description": "Consulting", "quantity": "1", "unitPrice": "50"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "RCT-00001", body["number"])
	assert.Equal(t, "30", body["balance"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodGet, "/invoice", nil)

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `invoicedesk_navigation_decisions_total{outcome="redirect"} 1`)
}

func TestTraceHeaders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}
