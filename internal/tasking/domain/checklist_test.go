package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name         string
		checklist    []ChecklistItem
		wantProgress int
		wantStatus   Status
	}{
		{
			name:         "empty checklist",
			checklist:    nil,
			wantProgress: 0,
			wantStatus:   StatusPending,
		},
		{
			name: "none completed",
			checklist: []ChecklistItem{
				{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"},
			},
			wantProgress: 0,
			wantStatus:   StatusPending,
		},
		{
			name: "half completed",
			checklist: []ChecklistItem{
				{Text: "a", Completed: true}, {Text: "b", Completed: true},
				{Text: "c"}, {Text: "d"},
			},
			wantProgress: 50,
			wantStatus:   StatusInProgress,
		},
		{
			name: "all completed",
			checklist: []ChecklistItem{
				{Text: "a", Completed: true}, {Text: "b", Completed: true},
			},
			wantProgress: 100,
			wantStatus:   StatusCompleted,
		},
		{
			name: "one of three rounds to 33",
			checklist: []ChecklistItem{
				{Text: "a", Completed: true}, {Text: "b"}, {Text: "c"},
			},
			wantProgress: 33,
			wantStatus:   StatusInProgress,
		},
		{
			name: "two of three rounds to 67",
			checklist: []ChecklistItem{
				{Text: "a", Completed: true}, {Text: "b", Completed: true}, {Text: "c"},
			},
			wantProgress: 67,
			wantStatus:   StatusInProgress,
		},
		{
			name: "exact half rounds up",
			checklist: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b"}, {Text: "c"}, {Text: "d"},
				{Text: "e"}, {Text: "f"}, {Text: "g"}, {Text: "h"},
			},
			wantProgress: 13,
			wantStatus:   StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress, status := ComputeProgress(tt.checklist)
			assert.Equal(t, tt.wantProgress, progress)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}
