package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckNewerVersion(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)

	res := checkURL(context.Background(), srv.URL, "1.1.0")
	if res == nil {
		t.Fatal("expected a result for newer release")
	}
	if res.LatestVersion != "1.2.0" {
		t.Errorf("LatestVersion = %q, want %q", res.LatestVersion, "1.2.0")
	}
}

func TestCheckSameVersion(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.1.0"}`)

	if res := checkURL(context.Background(), srv.URL, "v1.1.0"); res != nil {
		t.Errorf("expected nil for same version, got %+v", res)
	}
}

func TestCheckErrorsAreSilent(t *testing.T) {
	srv := releaseServer(t, http.StatusForbidden, "rate limited")
	if res := checkURL(context.Background(), srv.URL, "1.0.0"); res != nil {
		t.Errorf("expected nil on non-200, got %+v", res)
	}

	bad := releaseServer(t, http.StatusOK, "{not json")
	if res := checkURL(context.Background(), bad.URL, "1.0.0"); res != nil {
		t.Errorf("expected nil on bad JSON, got %+v", res)
	}
}
