package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"PlanetWars/modules/kit/logx"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.DebugLevel)
	s := NewHttpServer(":0", gin.New(), logx.NewZapLogger(zap.New(core)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
	entries := logs.FilterField(zap.String("action", "GET /healthz")).All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log for /healthz, got=%d", len(entries))
	}
}

func TestNewHttpServer_CorsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewHttpServer(":0", nil, logx.Nop())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodOptions, "/games", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("preflight status: got=%d want=%d", w.Code, nethttp.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin: got=%q", got)
	}
}
