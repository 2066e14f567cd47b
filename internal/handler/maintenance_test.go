package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/premises-rental/internal/model"
)

func TestStampResolved(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-24 * time.Hour)

	t.Run("entering resolved stamps", func(t *testing.T) {
		m := &model.MaintenanceRequest{Status: model.RequestResolved}
		stampResolved(m, model.RequestInProgress, now)
		require.NotNil(t, m.ResolvedAt)
		assert.Equal(t, now, *m.ResolvedAt)
	})

	t.Run("staying resolved keeps the original stamp", func(t *testing.T) {
		m := &model.MaintenanceRequest{Status: model.RequestResolved, ResolvedAt: &earlier}
		stampResolved(m, model.RequestResolved, now)
		require.NotNil(t, m.ResolvedAt)
		assert.Equal(t, earlier, *m.ResolvedAt)
	})

	t.Run("leaving resolved clears", func(t *testing.T) {
		m := &model.MaintenanceRequest{Status: model.RequestInProgress, ResolvedAt: &earlier}
		stampResolved(m, model.RequestResolved, now)
		assert.Nil(t, m.ResolvedAt)
	})

	t.Run("re-resolving stamps fresh", func(t *testing.T) {
		m := &model.MaintenanceRequest{Status: model.RequestInProgress, ResolvedAt: &earlier}
		stampResolved(m, model.RequestResolved, now)
		require.Nil(t, m.ResolvedAt)

		m.Status = model.RequestResolved
		stampResolved(m, model.RequestInProgress, now)
		require.NotNil(t, m.ResolvedAt)
		assert.Equal(t, now, *m.ResolvedAt)
	})

	t.Run("unrelated transition leaves untouched", func(t *testing.T) {
		m := &model.MaintenanceRequest{Status: model.RequestInProgress}
		stampResolved(m, model.RequestPending, now)
		assert.Nil(t, m.ResolvedAt)
	})
}
