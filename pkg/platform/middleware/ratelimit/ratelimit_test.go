package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"erpsessions/pkg/testutil"
)

func request(ip string) *http.Request {
	return testutil.WithClientIP(httptest.NewRequest(http.MethodGet, "/SageErpUsers", nil), ip)
}

func TestByClientIP(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := ByClientIP(2, time.Minute)(ok)

	for range 2 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, request("10.0.0.1"))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "Too many requests")

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, request("10.0.0.2"))
	assert.Equal(t, http.StatusOK, rr.Code, "other clients have their own budget")
}

func TestByClientIP_Disabled(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := ByClientIP(0, time.Minute)(ok)

	for range 10 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, request("10.0.0.1"))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
