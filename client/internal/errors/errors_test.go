package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestClassifyHTTPStatus(t *testing.T) {
	t.Parallel()
	cases := map[int]ErrorCategory{
		http.StatusBadRequest:          Irrecoverable,
		http.StatusNotFound:            Irrecoverable,
		http.StatusRequestTimeout:      Recoverable,
		http.StatusTooManyRequests:     Recoverable,
		http.StatusInternalServerError: Recoverable,
		http.StatusBadGateway:          Recoverable,
	}
	for code, want := range cases {
		if got := ClassifyHTTPStatus(code); got != want {
			t.Fatalf("status %d: got %s, want %s", code, got, want)
		}
	}
}

func TestIsIrrecoverable_WrappedChain(t *testing.T) {
	t.Parallel()
	base := NewHTTPError("put user", http.StatusConflict, "dup")
	wrapped := fmt.Errorf("persist profile: %w", base)
	if !IsIrrecoverable(wrapped) {
		t.Fatal("expected wrapped 409 to be irrecoverable")
	}
	if StatusCode(wrapped) != http.StatusConflict {
		t.Fatalf("unexpected status: %d", StatusCode(wrapped))
	}
	if IsIrrecoverable(NewNetworkError("put user", stderrors.New("reset"))) {
		t.Fatal("network errors must be recoverable")
	}
	if IsIrrecoverable(stderrors.New("plain")) {
		t.Fatal("unclassified errors are not irrecoverable")
	}
}

func TestNewHTTPError_TruncatesBody(t *testing.T) {
	t.Parallel()
	e := NewHTTPError("get articles", 500, strings.Repeat("x", 2048))
	if len(e.Body) != maxBodyInError {
		t.Fatalf("body not truncated: %d", len(e.Body))
	}
	if !strings.Contains(e.Error(), "get articles") || !strings.Contains(e.Error(), "HTTP 500") {
		t.Fatalf("unexpected message: %s", e.Error())
	}
}

func TestNewDecodeError(t *testing.T) {
	t.Parallel()
	cause := stderrors.New("unexpected EOF")
	e := NewDecodeError("get date", cause)
	if e.Category != Irrecoverable || !stderrors.Is(e, cause) {
		t.Fatalf("unexpected decode error: %+v", e)
	}
}
