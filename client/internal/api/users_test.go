package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	digesterrors "github.com/newsdigest/digestsync/client/internal/errors"
	"github.com/newsdigest/digestsync/client/internal/types"
)

func TestGetUser_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if id := r.URL.Query().Get("id"); id != "user123" {
			t.Errorf("unexpected id %q", id)
		}
		_, _ = w.Write([]byte(`{
			"id":"user123","name":"John Doe","base_understanding":"Expert",
			"join_date":"2025-05-04T00:00:00Z",
			"interests":[{"topic":"Graph Neural Network","level":"Intermediate"}]
		}`))
	}))
	defer srv.Close()

	p, err := GetUser(context.Background(), srv.Client(), srv.URL, "user123")
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if p.ID != "user123" || p.DisplayName != "John Doe" || p.Level != types.Expert {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if len(p.Interests) != 1 || p.Interests[0].Level != types.Intermediate {
		t.Fatalf("unexpected interests: %+v", p.Interests)
	}
	if !p.JoinDate.Equal(time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected join date: %v", p.JoinDate)
	}
}

func TestGetUser_AbsentIsNotFound(t *testing.T) {
	t.Parallel()
	cases := map[string]func(http.ResponseWriter){
		"404":   func(w http.ResponseWriter) { w.WriteHeader(http.StatusNotFound) },
		"null":  func(w http.ResponseWriter) { _, _ = w.Write([]byte("null")) },
		"empty": func(w http.ResponseWriter) { w.WriteHeader(http.StatusOK) },
	}
	for name, respond := range cases {
		respond := respond
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { respond(w) }))
			defer srv.Close()
			if _, err := GetUser(context.Background(), srv.Client(), srv.URL, "u"); !errors.Is(err, types.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestGetUser_UnknownLevelIsDecodeError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u","name":"n","base_understanding":"Guru","join_date":"2025-01-01"}`))
	}))
	defer srv.Close()
	_, err := GetUser(context.Background(), srv.Client(), srv.URL, "u")
	if !errors.Is(err, types.ErrInvalidLevel) || !digesterrors.IsIrrecoverable(err) {
		t.Fatalf("expected irrecoverable invalid-level error, got %v", err)
	}
}

func TestGetUser_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err := GetUser(context.Background(), srv.Client(), srv.URL, "u")
	if err == nil || digesterrors.StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 classified error, got %v", err)
	}
}

func TestCreateAndUpdateUser_Payload(t *testing.T) {
	t.Parallel()
	var methods []string
	var last types.UserPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&last)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	p := types.UserProfile{ID: "u1", DisplayName: "Ada", Level: types.Beginner, JoinDate: time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)}
	if err := CreateUser(context.Background(), srv.Client(), srv.URL, p); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	p.Level = types.Expert
	if err := UpdateUser(context.Background(), srv.Client(), srv.URL, p); err != nil {
		t.Fatalf("UpdateUser error: %v", err)
	}
	if len(methods) != 2 || methods[0] != http.MethodPost || methods[1] != http.MethodPut {
		t.Fatalf("unexpected methods: %v", methods)
	}
	want := types.UserPayload{ID: "u1", Name: "Ada", BaseUnderstanding: "Expert", JoinDate: "2025-05-04T00:00:00Z"}
	if last != want {
		t.Fatalf("unexpected payload: %+v", last)
	}
}

func TestUsers_CtxCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GetUser(ctx, http.DefaultClient, "http://example.com", "u"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := UpdateUser(ctx, http.DefaultClient, "http://example.com", types.UserProfile{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUsers_HTTPDoError(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	if _, err := GetUser(context.Background(), hc, "http://example.com", "u"); err == nil {
		t.Fatal("expected Do error for GetUser")
	}
	if err := CreateUser(context.Background(), hc, "http://example.com", types.UserProfile{ID: "u"}); err == nil {
		t.Fatal("expected Do error for CreateUser")
	}
}

func TestGetUser_MissingJoinDateIsZero(t *testing.T) {
	t.Parallel()
	for _, joinDate := range []string{`"join_date":null,`, ``, `"join_date":"",`} {
		body := `{"id":"user123","name":"John Doe","base_understanding":"Beginner",` + joinDate + `"interests":[]}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		p, err := GetUser(context.Background(), srv.Client(), srv.URL, "user123")
		srv.Close()
		if err != nil {
			t.Fatalf("body %s: GetUser error: %v", body, err)
		}
		if p.ID != "user123" || p.Level != types.Beginner || !p.JoinDate.IsZero() {
			t.Fatalf("body %s: unexpected profile: %+v", body, p)
		}
	}
}

func TestGetUser_MalformedJoinDateFails(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u","name":"n","base_understanding":"Expert","join_date":"last spring"}`))
	}))
	defer srv.Close()
	if _, err := GetUser(context.Background(), srv.Client(), srv.URL, "u"); !digesterrors.IsIrrecoverable(err) {
		t.Fatalf("expected irrecoverable decode error, got %v", err)
	}
}
