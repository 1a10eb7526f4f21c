package webclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantCalls int
	}{
		{"success", http.StatusOK, nil, 1},
		{"client error with body", http.StatusBadRequest, nil, 1},
		{"client error from sdk", http.StatusBadRequest, errors.New("token limit"), 1},
		{"rate limited", http.StatusTooManyRequests, errors.New("slow down"), 3},
		{"server error", http.StatusServiceUnavailable, nil, 3},
		{"transport error", 0, errors.New("connection reset"), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			status, _, err := DoWithRetry(context.Background(), 3, time.Millisecond, func() (int, []byte, error) {
				calls++
				return tt.status, nil, tt.err
			})
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestDoWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, _, err := DoWithRetry(ctx, 5, time.Hour, func() (int, []byte, error) {
		calls++
		cancel()
		return http.StatusBadGateway, nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
