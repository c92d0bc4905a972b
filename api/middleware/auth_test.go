package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Abid-Al-Labib/erp-base-sub000/pkg/config"
)

func signToken(t *testing.T, cfg config.JWTConfig, subject, factoryID string, expired bool) string {
	t.Helper()
	expires := time.Now().Add(time.Hour)
	if expired {
		expires = time.Now().Add(-time.Hour)
	}
	claims := actorClaims{
		FactoryID: factoryID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func authedHandler(t *testing.T, cfg config.JWTConfig, gotActor *uuid.UUID, gotFactory *uuid.UUID) http.Handler {
	t.Helper()
	return Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actorID, ok := ActorID(r.Context()); ok {
			*gotActor = actorID
		}
		if factoryID, ok := FactoryID(r.Context()); ok {
			*gotFactory = factoryID
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestAuthSeedsActorAndFactory(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "erp-base"}
	actorID := uuid.New()
	factoryID := uuid.New()

	var gotActor, gotFactory uuid.UUID
	handler := authedHandler(t, cfg, &gotActor, &gotFactory)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, actorID.String(), factoryID.String(), false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotActor != actorID {
		t.Fatalf("expected actor %s, got %s", actorID, gotActor)
	}
	if gotFactory != factoryID {
		t.Fatalf("expected factory %s, got %s", factoryID, gotFactory)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "erp-base"}
	var gotActor, gotFactory uuid.UUID
	handler := authedHandler(t, cfg, &gotActor, &gotFactory)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "erp-base"}
	var gotActor, gotFactory uuid.UUID
	handler := authedHandler(t, cfg, &gotActor, &gotFactory)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg, uuid.NewString(), "", true))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if gotActor != uuid.Nil {
		t.Fatalf("actor should not be seeded from an expired token")
	}
}

func TestAuthRejectsWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "erp-base"}
	other := config.JWTConfig{Secret: "test-secret", Issuer: "someone-else"}
	var gotActor, gotFactory uuid.UUID
	handler := authedHandler(t, cfg, &gotActor, &gotFactory)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, other, uuid.NewString(), "", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
