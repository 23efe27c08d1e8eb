package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/school-engine/internal/auth"
	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/handler"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/tests/mocks"
)

func newTestRouter() (http.Handler, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "school-engine-test")

	feeRepo := new(mocks.MockFeeRepository)
	feeRepo.On("List", mock.Anything).Return([]*domain.Fee{}, nil)
	feeRepo.On("ListDue", mock.Anything).Return([]*domain.Fee{}, nil)

	ledger := service.NewLedgerService(
		feeRepo,
		new(mocks.MockStudentRepository),
		new(mocks.MockUserRepository),
		new(mocks.MockSequencer),
	)

	deps := routeDeps{
		tokens:     tokens,
		auth:       handler.NewAuthHandler(nil),
		student:    handler.NewStudentHandler(nil),
		teacher:    handler.NewTeacherHandler(nil),
		class:      handler.NewClassHandler(nil),
		attendance: handler.NewAttendanceHandler(nil),
		exam:       handler.NewExamHandler(nil),
		fee:        handler.NewFeeHandler(ledger),
		file:       handler.NewFileHandler(nil),
		dashboard:  handler.NewDashboardHandler(nil),
		health:     handler.NewHealthHandler(nil, nil, nil),
	}

	return setupRoutes(deps), tokens
}

func bearerToken(t *testing.T, tokens *auth.TokenManager, role string) string {
	token, err := tokens.Generate(uuid.New(), role+"@school.test", role)
	assert.NoError(t, err)
	return "Bearer " + token
}

func doRequest(router http.Handler, method, path, authHeader, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestFeeRouteRoleGating(t *testing.T) {
	router, tokens := newTestRouter()
	paymentPath := "/api/v1/fees/" + uuid.NewString() + "/payments"

	t.Run("teacher cannot record a payment", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, paymentPath, bearerToken(t, tokens, domain.RoleTeacher), `{"amount":"100","payment_method":"Cash"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("staff cannot record a payment", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, paymentPath, bearerToken(t, tokens, domain.RoleStaff), `{"amount":"100","payment_method":"Cash"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin reaches the payment handler", func(t *testing.T) {
		// Malformed body: the request passes the role gate and fails in the
		// handler's body decode instead of being rejected with 403.
		rec := doRequest(router, http.MethodPost, paymentPath, bearerToken(t, tokens, domain.RoleAdmin), "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fee creation stays admin only", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/fees", bearerToken(t, tokens, domain.RoleStaff), `{}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestFeeRouteReadAccess(t *testing.T) {
	router, tokens := newTestRouter()

	t.Run("any authenticated role can list fees", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/fees", bearerToken(t, tokens, domain.RoleStudent), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("reads still require authentication", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/fees", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("due list is admin only", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/fees/due", bearerToken(t, tokens, domain.RoleStaff), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("due list routes to the due handler for admins", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/fees/due", bearerToken(t, tokens, domain.RoleAdmin), "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("export is admin only", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/fees/export", bearerToken(t, tokens, domain.RoleTeacher), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
