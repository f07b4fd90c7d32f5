package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/config"
	"sailing-club-backend/internal/jobs"
	"sailing-club-backend/internal/repository/memory"
	"sailing-club-backend/internal/service"
)

const baseYAML = `
server:
  port: 8000
database:
  host: localhost
  user: club
  database: club
jwt:
  secret: 0123456789abcdef0123456789abcdef
`

func runner(t *testing.T, yaml string) *jobs.JobRunner {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	require.NoError(t, err)
	email := service.NewEmailService("", "", "")
	return jobs.NewJobRunner(memory.NewStore(time.Second), &jobs.Services{Email: email}, nil, cfg)
}

func TestNewScheduler_RegistersDefaults(t *testing.T) {
	s, err := NewScheduler(runner(t, baseYAML))
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	s.Start()
	defer s.Stop()

	// Entries only carry a next activation once the scheduler has started.
	require.Eventually(t, func() bool {
		next := s.NextRuns()
		if len(next) != 2 {
			return false
		}
		for _, n := range next {
			if n.IsZero() {
				return false
			}
		}
		return true
	}, time.Second, 10*time.Millisecond)
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(runner(t, baseYAML+"scheduler:\n  reconcile_balances: \"not a cron spec\"\n"))
	assert.Error(t, err)
}
