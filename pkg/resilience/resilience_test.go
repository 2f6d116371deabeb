package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{FailureThreshold: 3, ResetTimeout: time.Hour})
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: err = %v, want boom", i, err)
		}
	}
	if got := cb.GetState(); got != StateOpen {
		t.Fatalf("state = %s, want open", got)
	}
	if err := cb.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open circuit err = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Millisecond})

	cb.Execute(func() error { return errors.New("boom") })
	if got := cb.GetState(); got != StateOpen {
		t.Fatalf("state = %s, want open", got)
	}

	time.Sleep(5 * time.Millisecond)
	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe err = %v", err)
	}
	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state after probe = %s, want closed", got)
	}
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker("test", CircuitBreakerConfig{FailureThreshold: 2, ResetTimeout: time.Hour})
	boom := errors.New("boom")

	cb.Execute(func() error { return boom })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return boom })
	if got := cb.GetState(); got != StateClosed {
		t.Fatalf("state = %s, want closed after interleaved success", got)
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), "flaky", RetryConfig{InitialDelay: time.Millisecond}, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry err = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryGivesUp(t *testing.T) {
	boom := errors.New("boom")
	err := Retry(context.Background(), "dead", RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond}, func() error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Retry err = %v, want wrapped boom", err)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, "cancelled", RetryConfig{MaxAttempts: 5, InitialDelay: time.Second}, func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry err = %v, want context.Canceled", err)
	}
}
