package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-negotiation-backend/internal/config"
	"quote-negotiation-backend/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers both jobs", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			DrainOutbox:     "*/10 * * * * *",
			ReconcileExpiry: "0 */15 * * * *",
		}}
		s, err := NewScheduler(jobs.NewJobRunner(nil, nil, nil, nil, cfg))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Entries())
	})

	t.Run("Rejects a bad spec", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			DrainOutbox:     "every ten seconds",
			ReconcileExpiry: "0 */15 * * * *",
		}}
		_, err := NewScheduler(jobs.NewJobRunner(nil, nil, nil, nil, cfg))
		assert.Error(t, err)
	})
}
