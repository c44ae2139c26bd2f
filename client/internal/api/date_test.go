package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newsdigest/digestsync/client/internal/types"
)

func TestGetDate_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/date" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"current_date":"2025-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	got, err := GetDate(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("GetDate error: %v", err)
	}
	if want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGetDate_DecodeErrors(t *testing.T) {
	t.Parallel()
	for _, body := range []string{`{bad`, `{"current_date":"soon"}`, `{}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		if _, err := GetDate(context.Background(), srv.Client(), srv.URL); err == nil {
			t.Fatalf("expected error for body %q", body)
		}
		srv.Close()
	}
}

func TestPutDate_SendsISOString(t *testing.T) {
	t.Parallel()
	var got types.DatePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := PutDate(context.Background(), srv.Client(), srv.URL, d); err != nil {
		t.Fatalf("PutDate error: %v", err)
	}
	if got.CurrentDate != "2025-02-01T00:00:00Z" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDate_HTTPDoError(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	if _, err := GetDate(context.Background(), hc, "http://example.com"); err == nil {
		t.Fatal("expected Do error for GetDate")
	}
	if err := PutDate(context.Background(), hc, "http://example.com", time.Now()); err == nil {
		t.Fatal("expected Do error for PutDate")
	}
}
