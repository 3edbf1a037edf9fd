package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGuardMutations_ProtectsWritesOnly(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	open := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := guardMutations(deny, open)

	cases := []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusUnauthorized},
		{http.MethodPut, http.StatusUnauthorized},
		{http.MethodDelete, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, "/api/v1/books", nil))
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.method, tc.want, rec.Code)
		}
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("CACHE_TTL_TEST", "90s")
	if got := getDurationEnv("CACHE_TTL_TEST", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}

	t.Setenv("CACHE_TTL_TEST", "not-a-duration")
	if got := getDurationEnv("CACHE_TTL_TEST", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback to default, got %v", got)
	}
}
