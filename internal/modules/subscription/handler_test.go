package subscription

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Ceanlio/kuzamo/internal/models"
	"github.com/Ceanlio/kuzamo/internal/pkg/token"
)

var errTest = errors.New("provider unavailable")

func newTestRouter(t *testing.T, fx *svcFixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(fx.svc, nil).RegisterRoutes(router.Group("/api"))
	return router
}

func doSubscribe(router *gin.Engine, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSubscribeEndpointSuccess(t *testing.T) {
	fx := newFixture(t, nil)
	router := newTestRouter(t, fx)

	w := doSubscribe(router, "application/json",
		`{"name":"Ali Veli","email":"ali@example.com","lang":"tr"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "Confirmation email sent successfully", body["message"])
	require.Equal(t, "ali@example.com", body["email"])
	require.Equal(t, "msg-1", body["id"])
	require.Len(t, fx.mailer.messages(), 1)
}

func TestSubscribeEndpointContentTypeChecks(t *testing.T) {
	fx := newFixture(t, nil)
	router := newTestRouter(t, fx)

	w := doSubscribe(router, "text/plain", `{"name":"Ali Veli","email":"ali@example.com"}`)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	require.Equal(t, "Unsupported content type", decodeBody(t, w)["error"])

	w = doSubscribe(router, "", `{}`)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestSubscribeEndpointBodyLimits(t *testing.T) {
	fx := newFixture(t, nil)
	router := newTestRouter(t, fx)

	w := doSubscribe(router, "application/json", "")
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	w = doSubscribe(router, "application/json", big)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.Equal(t, "Payload too large", decodeBody(t, w)["error"])
}

func TestSubscribeEndpointInvalidJSON(t *testing.T) {
	fx := newFixture(t, nil)
	router := newTestRouter(t, fx)

	w := doSubscribe(router, "application/json", `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid JSON", decodeBody(t, w)["error"])
}

func TestSubscribeEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		seed     *models.Subscriber
		wantCode int
		wantMsg  string
	}{
		{
			name:     "invalid name",
			payload:  `{"name":"A","email":"ali@example.com"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid name or email",
		},
		{
			name:     "disposable domain",
			payload:  `{"name":"Ali Veli","email":"ali@mailinator.com"}`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "Disposable email not allowed",
		},
		{
			name:    "pending conflict",
			payload: `{"name":"Ali Veli","email":"ali@example.com"}`,
			seed: &models.Subscriber{
				Email:  "ali@example.com",
				Status: models.StatusPending,
				Exp:    time.Now().Add(time.Hour).Unix(),
			},
			wantCode: http.StatusConflict,
			wantMsg:  "Already requested. Please check your inbox.",
		},
		{
			name:    "confirmed conflict",
			payload: `{"name":"Ali Veli","email":"ali@example.com"}`,
			seed: &models.Subscriber{
				Email:  "ali@example.com",
				Status: models.StatusConfirmed,
			},
			wantCode: http.StatusConflict,
			wantMsg:  "Email already confirmed. You are already on our list.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t, nil)
			if tc.seed != nil {
				fx.store.recs[tc.seed.Email] = tc.seed
			}
			router := newTestRouter(t, fx)

			w := doSubscribe(router, "application/json", tc.payload)
			require.Equal(t, tc.wantCode, w.Code)
			require.Equal(t, tc.wantMsg, decodeBody(t, w)["error"])
		})
	}
}

func TestSubscribeEndpointSendFailure(t *testing.T) {
	fx := newFixture(t, nil)
	fx.mailer.sendErr = errTest
	router := newTestRouter(t, fx)

	w := doSubscribe(router, "application/json",
		`{"name":"Ali Veli","email":"ali@example.com"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Failed to send email", decodeBody(t, w)["error"])
}

func signConfirmToken(t *testing.T, fx *svcFixture, email string, exp time.Time) string {
	t.Helper()
	tok, err := fx.codec.Sign(&token.Claims{
		Email: email,
		Name:  "Ali Veli",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	})
	require.NoError(t, err)
	return tok
}

func TestConfirmEndpointRedirectsBrowser(t *testing.T) {
	fx := newFixture(t, nil)
	router := newTestRouter(t, fx)
	tok := signConfirmToken(t, fx, "ali@example.com", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/confirm-email?token="+tok, nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/confirm-email.html?ok=1", w.Header().Get("Location"))
	require.Equal(t, models.StatusConfirmed, fx.store.recs["ali@example.com"].Status)
}

func TestConfirmEndpointJSONForAPIClients(t *testing.T) {
	fx := newFixture(t, nil)
	router := newTestRouter(t, fx)
	tok := signConfirmToken(t, fx, "ali@example.com", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/confirm-email?token="+tok, nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Email confirmed", decodeBody(t, w)["message"])
}

func TestConfirmEndpointTokenErrors(t *testing.T) {
	fx := newFixture(t, nil)
	router := newTestRouter(t, fx)

	req := httptest.NewRequest(http.MethodGet, "/api/confirm-email", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Missing token", decodeBody(t, w)["error"])

	req = httptest.NewRequest(http.MethodGet, "/api/confirm-email?token=garbage", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid token", decodeBody(t, w)["error"])

	expired := signConfirmToken(t, fx, "ali@example.com", time.Now().Add(-time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/api/confirm-email?token="+expired, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Token expired", decodeBody(t, w)["error"])
}

func TestConfirmEndpointAlreadyConfirmed(t *testing.T) {
	fx := newFixture(t, nil)
	fx.store.recs["ali@example.com"] = &models.Subscriber{
		Email:  "ali@example.com",
		Status: models.StatusConfirmed,
	}
	router := newTestRouter(t, fx)
	tok := signConfirmToken(t, fx, "ali@example.com", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/confirm-email?token="+tok, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "Email already confirmed", decodeBody(t, w)["error"])
}

func TestUnsubscribeEndpoint(t *testing.T) {
	fx := newFixture(t, nil)
	fx.store.recs["ali@example.com"] = &models.Subscriber{
		Email:  "ali@example.com",
		Status: models.StatusConfirmed,
	}
	router := newTestRouter(t, fx)

	tok, err := fx.codec.Sign(&token.Claims{
		Email:  "ali@example.com",
		Action: token.ActionUnsubscribe,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/unsubscribe?token="+tok, nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/unsubscribe.html?success=1", w.Header().Get("Location"))
	require.Nil(t, fx.store.recs["ali@example.com"])

	// Confirm-style tokens must not unsubscribe.
	confirmTok := signConfirmToken(t, fx, "ali@example.com", time.Now().Add(time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/api/unsubscribe?token="+confirmTok, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid token action", decodeBody(t, w)["error"])
}
