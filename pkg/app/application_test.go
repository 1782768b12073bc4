package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staybook/pkg/client"
	"staybook/pkg/config"
	"staybook/pkg/kafka"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type okPinger struct{}

func (okPinger) Ping(context.Context, *readpref.ReadPref) error { return nil }

type echoHandler struct {
	userID        string
	correlationID string
}

func (p *echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		p.userID = middleware.UserIDFromContext(r.Context())
		p.correlationID = kafka.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Hour,
		MaxRequestSize:    1024,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
		Client:            client.NewClient(),
	}
}

func TestApplication_GatesRoutesUntilReady(t *testing.T) {
	echo := &echoHandler{}
	a := NewApplication(testConfig())
	a.SetApp(okPinger{}, echo)
	defer func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	}()

	send := func(path string) *httptest.ResponseRecorder {
		method := http.MethodGet
		if strings.HasPrefix(path, "/api") {
			method = http.MethodPost
		}
		req := httptest.NewRequest(method, path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.UserIDHeader, "guest-1")
		w := httptest.NewRecorder()
		a.Handler().ServeHTTP(w, req)
		return w
	}

	if w := send("/health"); w.Code != http.StatusOK {
		t.Errorf("health should be served while warming, got %d", w.Code)
	}
	if w := send("/ready"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready should report warming, got %d", w.Code)
	}
	if w := send("/api/v1/echo"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("application routes should be closed while warming, got %d", w.Code)
	}

	a.ready.Store(true)

	if w := send("/ready"); w.Code != http.StatusOK {
		t.Errorf("ready should pass once warm, got %d", w.Code)
	}
	w := send("/api/v1/echo")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if echo.userID != "guest-1" {
		t.Errorf("identity not propagated: %q", echo.userID)
	}
	if echo.correlationID == "" || echo.correlationID != w.Header().Get(middleware.RequestIDHeader) {
		t.Errorf("correlation id %q should equal request id %q", echo.correlationID, w.Header().Get(middleware.RequestIDHeader))
	}
}

func TestApplication_RequiresGatewaySignatureWhenConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.GatewaySigningSecret = "secret"

	a := NewApplication(cfg)
	a.SetApp(okPinger{}, &echoHandler{})
	a.ready.Store(true)
	defer func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	}()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "guest-1")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unsigned identity should be rejected, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "guest-1")
	req.Header.Set(middleware.UserSignatureHeader, middleware.SignUserID("guest-1", "secret"))
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("signed identity should pass, got %d", w.Code)
	}
}
