package hoverlate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := WithRetry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("got (%q, %v)", got, err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	got, err := WithRetry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &BackendError{Message: "flaky", Retryable: true}
		}
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Fatalf("got (%q, %v)", got, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), fastRetryConfig(), func() (string, error) {
		calls++
		return "", &BackendError{Message: "bad key", Retryable: false}
	})
	if err == nil {
		t.Fatal("expected the error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent failure)", calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := &BackendError{Message: "always down", Retryable: true}
	_, err := WithRetry(context.Background(), fastRetryConfig(), func() (int, error) {
		calls++
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want the last error", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want initial try plus 3 retries", calls)
	}
}

func TestWithRetry_HonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(ctx, fastRetryConfig(), func() (int, error) {
		t.Fatal("fn must not run after cancellation")
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
	if !IsRetryable(&BackendError{Retryable: true}) {
		t.Error("retryable backend errors are retryable")
	}
	if IsRetryable(&BackendError{Retryable: false}) {
		t.Error("permanent backend errors are not")
	}
	if IsRetryable(context.Canceled) || IsRetryable(errors.New("unknown")) {
		t.Error("context and unknown errors are not retryable")
	}
}
