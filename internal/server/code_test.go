package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCodeHandler(t *testing.T) {
	t.Run("Captures The Code", func(t *testing.T) {
		handler := NewCodeHandler("state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth_code_xyz", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "return to the terminal") {
			t.Error("expected the success page")
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Code != "auth_code_xyz" {
			t.Errorf("expected captured code, got %q", result.Code)
		}
	})

	t.Run("Rejects Wrong State", func(t *testing.T) {
		handler := NewCodeHandler("state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=evil&code=auth_code_xyz", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected a state validation error")
		}
	})

	t.Run("Delivers Provider Errors", func(t *testing.T) {
		handler := NewCodeHandler("state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&error=access_denied&error_description=nope", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected the provider error, got %v", result.Error())
		}
	})

	t.Run("Second Callback Is Refused", func(t *testing.T) {
		handler := NewCodeHandler("state123")

		first := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=one", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)
		<-handler.Result()

		second := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=two", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on the second callback, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Routes And Middleware", func(t *testing.T) {
		var logged strings.Builder
		logger := log.New(&logged)

		router := NewBasicRouter()
		router.Use(RequestLogger(logger))
		router.Handler(NewCodeHandler("s"))

		req := httptest.NewRequest(http.MethodGet, "/callback?state=s&code=c", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(logged.String(), "/callback") {
			t.Error("expected the request to be logged")
		}
	})

	t.Run("Unknown Route", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewCodeHandler("s"))

		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
