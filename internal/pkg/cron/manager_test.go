package cron

import (
	"Zuno/internal/api/config"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobsSkipsEmptySpec(t *testing.T) {
	noop := cron.FuncJob(func() {})
	mgr := NewCronManager(Entries(config.CronConfig{
		ContentReconcile: "0 */1 * * * *",
		MediaCleanup:     "@hourly",
	}, noop, noop, noop)...)

	require.NoError(t, mgr.RegisterJobs())
	assert.Len(t, mgr.engine.Entries(), 2)
}

func TestRegisterJobsRejectsBadSpec(t *testing.T) {
	mgr := NewCronManager(Entry{Name: "bad", Spec: "not a spec", Job: cron.FuncJob(func() {})})
	assert.Error(t, mgr.RegisterJobs())
}
