package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

func TestWithRetry_RetriesQuotaErrors(t *testing.T) {
	repo := &GoogleSheetRepository{backoff: time.Millisecond, logger: zap.NewNop()}

	calls := 0
	err := repo.withRetry(context.Background(), "read", "Servicos!A:G", func() error {
		calls++
		if calls < 3 {
			return &googleapi.Error{Code: http.StatusTooManyRequests}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	repo := &GoogleSheetRepository{backoff: time.Millisecond, logger: zap.NewNop()}

	calls := 0
	err := repo.withRetry(context.Background(), "append", "Servicos!A:G", func() error {
		calls++
		return fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusServiceUnavailable})
	})
	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
}

func TestWithRetry_DoesNotRetryClientErrors(t *testing.T) {
	repo := &GoogleSheetRepository{backoff: time.Millisecond, logger: zap.NewNop()}

	calls := 0
	err := repo.withRetry(context.Background(), "update", "Servicos!G2", func() error {
		calls++
		return &googleapi.Error{Code: http.StatusBadRequest}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = repo.withRetry(context.Background(), "update", "Servicos!G2", func() error {
		calls++
		return errors.New("dial tcp: refused")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	repo := &GoogleSheetRepository{backoff: time.Hour, logger: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.withRetry(ctx, "read", "Servicos!A:G", func() error {
		return &googleapi.Error{Code: http.StatusTooManyRequests}
	})
	assert.ErrorIs(t, err, context.Canceled)
}
