package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/config"
)

func clientIP(t *testing.T, cfg config.Config) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := newEngine(cfg)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.RemoteAddr = "192.0.2.10:51000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

// sin proxies de confianza X-Forwarded-For se ignora
func TestNewEngine_IgnoresForwardedForByDefault(t *testing.T) {
	cfg := config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	if ip := clientIP(t, cfg); ip != "192.0.2.10" {
		t.Fatalf("ip=%q, esperado 192.0.2.10", ip)
	}
}

func TestNewEngine_TrustedProxy(t *testing.T) {
	cfg := config.Config{
		CORSOrigins:    []string{"http://localhost:3000"},
		TrustedProxies: []string{"192.0.2.0/24"},
	}
	if ip := clientIP(t, cfg); ip != "203.0.113.7" {
		t.Fatalf("ip=%q, esperado 203.0.113.7", ip)
	}
}

func TestNewEngine_InvalidProxy(t *testing.T) {
	cfg := config.Config{CORSOrigins: []string{"http://localhost:3000"}, TrustedProxies: []string{"not-an-ip"}}
	if _, err := newEngine(cfg); err == nil {
		t.Fatalf("esperaba error con proxy inválido")
	}
}
