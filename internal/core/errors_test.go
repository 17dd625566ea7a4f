package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("root")
	err := (&DomainError{
		Category: ErrCatValidation,
		Code:     "CODE",
		Message:  "message",
	}).WithCause(cause)

	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be unwrapped")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to match cause")
	}

	match := &DomainError{Category: ErrCatValidation, Code: "CODE"}
	if !errors.Is(err, match) {
		t.Fatalf("expected errors.Is to match category and code")
	}
}

func TestDomainError_WithDetail(t *testing.T) {
	err := &DomainError{Category: ErrCatService, Code: "X", Message: "msg"}
	err.WithDetail("k", "v")
	if err.Details == nil || err.Details["k"] != "v" {
		t.Fatalf("expected details to be set")
	}
}

func TestErrorFactories(t *testing.T) {
	if ErrValidation("C", "m").Retryable {
		t.Fatalf("validation should not be retryable")
	}
	if !ErrNetwork("m").Retryable {
		t.Fatalf("network should be retryable")
	}
	if !ErrTimeout("m").Retryable {
		t.Fatalf("timeout should be retryable")
	}
	if ErrService(400, "bad").Retryable {
		t.Fatalf("400 should not be retryable")
	}
	if !ErrService(503, "").Retryable {
		t.Fatalf("503 should be retryable")
	}
	if ErrDecode("m").Retryable {
		t.Fatalf("decode should not be retryable")
	}
	if e := ErrInternal(CodeHistoryUnavailable, "m"); e.Retryable || e.Category != ErrCatInternal {
		t.Fatalf("internal error = %+v", e)
	}
	if e := ErrCanceled("m"); e.Retryable || e.Category != ErrCatCanceled {
		t.Fatalf("canceled error = %+v", e)
	}
	if got := ErrService(422, "x").StatusCode; got != 422 {
		t.Fatalf("status code = %d", got)
	}
}

func TestCategoryHelpers(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrTimeout("slow"))
	if GetCategory(wrapped) != ErrCatTimeout {
		t.Fatalf("expected timeout category through wrapping")
	}
	if !IsCategory(wrapped, ErrCatTimeout) || !IsRetryable(wrapped) {
		t.Fatalf("helpers should see through wrapping")
	}
	if GetCategory(errors.New("plain")) != ErrCatInternal {
		t.Fatalf("plain errors are internal")
	}
}

type blankError struct{}

func (blankError) Error() string { return "   " }

func TestUserMessage_Precedence(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server detail wins", ErrService(422, "Could not extract content from the provided URL."),
			"Could not extract content from the provided URL."},
		{"detail through wrapping", fmt.Errorf("analyze: %w", ErrService(400, "Input cannot be empty.")),
			"Input cannot be empty."},
		{"domain message when no detail", ErrService(500, ""), "analyzer returned status 500"},
		{"cause when no message", (&DomainError{Category: ErrCatNetwork}).WithCause(errors.New("dial tcp: refused")),
			"dial tcp: refused"},
		{"canceled hides context text", ErrCanceled("analysis canceled").WithCause(context.Canceled),
			"analysis canceled"},
		{"plain error text", context.DeadlineExceeded, "context deadline exceeded"},
		{"blank error falls back", blankError{}, GenericFailureMessage},
		{"empty domain error falls back", &DomainError{}, GenericFailureMessage},
		{"nil falls back", nil, GenericFailureMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
