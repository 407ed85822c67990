package domain

import (
	"errors"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runningEntry(t *testing.T) *TimeEntry {
	t.Helper()
	entry, err := NewRunningEntry(uuid.New(), uuid.New(), "pairing session", "")
	require.NoError(t, err)
	entry.ClearDomainEvents()
	return entry
}

func TestNewRunningEntry(t *testing.T) {
	entry, err := NewRunningEntry(uuid.New(), uuid.New(), "review", CategoryReview)

	require.NoError(t, err)
	assert.True(t, entry.IsRunning())
	assert.True(t, entry.IsBillable())
	assert.Equal(t, 0, entry.DurationMinutes())
	assert.Nil(t, entry.EndTime())
	assert.Len(t, entry.DomainEvents(), 1)
}

func TestNewRunningEntryDefaultsCategory(t *testing.T) {
	entry, err := NewRunningEntry(uuid.New(), uuid.New(), "", "")

	require.NoError(t, err)
	assert.Equal(t, CategoryDevelopment, entry.Category())
}

func TestNewManualEntry(t *testing.T) {
	t.Run("defaults start time to now minus duration", func(t *testing.T) {
		entry, err := NewManualEntry(uuid.New(), uuid.New(), 90, "offsite workshop", CategoryMeeting, time.Time{})

		require.NoError(t, err)
		assert.False(t, entry.IsRunning())
		assert.Equal(t, 90, entry.DurationMinutes())
		require.NotNil(t, entry.EndTime())
		gap := entry.EndTime().Sub(entry.StartTime())
		assert.InDelta(t, 90, gap.Minutes(), 0.1)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := NewManualEntry(uuid.New(), uuid.New(), 0, "", "", time.Time{})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})
}

func TestTimeEntryStop(t *testing.T) {
	t.Run("computes duration in rounded minutes", func(t *testing.T) {
		entry := runningEntry(t)
		stopAt := entry.StartTime().Add(25*time.Minute + 40*time.Second)

		minutes, err := entry.Stop(stopAt)

		require.NoError(t, err)
		assert.Equal(t, 26, minutes)
		assert.Equal(t, 26, entry.DurationMinutes())
		assert.False(t, entry.IsRunning())
		require.NotNil(t, entry.EndTime())
		assert.Len(t, entry.DomainEvents(), 1)
	})

	t.Run("stopping a stopped timer fails", func(t *testing.T) {
		entry := runningEntry(t)
		_, err := entry.Stop(time.Now())
		require.NoError(t, err)

		_, err = entry.Stop(time.Now())

		require.Error(t, err)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})
}

func TestTimeEntryForceStop(t *testing.T) {
	entry := runningEntry(t)
	stopAt := entry.StartTime().Add(45 * time.Minute)

	entry.ForceStop(stopAt)

	assert.False(t, entry.IsRunning())
	require.NotNil(t, entry.EndTime())
	assert.Equal(t, 0, entry.DurationMinutes())
	assert.Empty(t, entry.DomainEvents())
}

func TestTimeEntryPauseResume(t *testing.T) {
	entry := runningEntry(t)
	originalStart := entry.StartTime()

	require.NoError(t, entry.Pause())
	assert.False(t, entry.IsRunning())
	assert.Nil(t, entry.EndTime())
	assert.Equal(t, originalStart, entry.StartTime())

	resumeAt := originalStart.Add(30 * time.Minute)
	require.NoError(t, entry.Resume(resumeAt))
	assert.True(t, entry.IsRunning())
	assert.Equal(t, resumeAt, entry.StartTime())

	// Paused time is lost: only the last start-to-stop span counts.
	minutes, err := entry.Stop(resumeAt.Add(10 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 10, minutes)
}

func TestTimeEntryResumeRunningFails(t *testing.T) {
	entry := runningEntry(t)

	err := entry.Resume(time.Now())

	require.Error(t, err)
	assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
}
