package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobLifecycleTransitions(t *testing.T) {
	job := &Job{
		ID:         "test-job",
		Type:       JobTypeSubscriptionReconcile,
		Status:     JobStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("provider unavailable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "provider unavailable", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.RetryCount = job.MaxRetries
	assert.False(t, job.IsRetryable())

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)
}

func TestSubscriptionReconcilePayloadRoundTrip(t *testing.T) {
	payload := SubscriptionReconcileJobPayload{UserID: 42}

	decoded, err := SubscriptionReconcileJobPayloadFromMap(payload.ToMap())
	assert.NoError(t, err)
	assert.Equal(t, uint(42), decoded.UserID)
}
