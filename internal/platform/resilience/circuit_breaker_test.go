package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream 503")

func newTestBreaker(now *time.Time, isFailure func(error) bool) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
		IsFailure:        isFailure,
	})
	b.now = func() time.Time { return *now }
	return b
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	now := time.Date(2024, 9, 14, 15, 30, 0, 0, time.UTC)
	b := newTestBreaker(&now, nil)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.Record(errUpstream)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.Record(errUpstream)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.Record(nil)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_IgnoresUnclassifiedErrors(t *testing.T) {
	now := time.Date(2024, 9, 14, 15, 30, 0, 0, time.UTC)
	permanent := errors.New("status 404")
	b := newTestBreaker(&now, func(err error) bool { return errors.Is(err, errUpstream) })

	for i := 0; i < 5; i++ {
		if err := b.Execute(func() error { return permanent }); !errors.Is(err, permanent) {
			t.Fatalf("expected wrapped call error, got %v", err)
		}
		b.Record(context.Canceled)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected breaker to stay closed, got %s", state)
	}
}

func TestCircuitBreaker_DisabledAlwaysAllows(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return errUpstream }); !errors.Is(err, errUpstream) {
			t.Fatalf("expected call error, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("disabled breaker must report closed, got %s", state)
	}
}
