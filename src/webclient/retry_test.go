package webclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWithRetryRetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	calls := 0
	status, body, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		if calls < 3 {
			return 429, nil, errors.New("status 429")
		}
		return 200, []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, 3, calls)
}

func TestDoWithRetryDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	status, body, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 400, []byte(`{"error":"bad request"}`), errors.New("status 400")
	})
	require.Error(t, err)
	assert.Equal(t, 400, status)
	assert.Contains(t, string(body), "bad request")
	assert.Equal(t, 1, calls)
}

func TestDoWithRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	_, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 503, nil, errors.New("status 503")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoWithRetryTransportError(t *testing.T) {
	t.Parallel()

	calls := 0
	_, _, err := DoWithRetry(context.Background(), 2, time.Millisecond, func() (int, []byte, error) {
		calls++
		return 0, nil, errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoWithRetryHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, _, err := DoWithRetry(ctx, 5, time.Minute, func() (int, []byte, error) {
		calls++
		return 500, nil, errors.New("status 500")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
