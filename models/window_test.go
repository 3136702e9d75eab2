package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 3, 1, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		aStart     time.Time
		aEnd       time.Time
		bStart     time.Time
		bEnd       time.Time
		wantResult bool
	}{
		{"identical", at(14, 0), at(15, 0), at(14, 0), at(15, 0), true},
		{"partial overlap", at(14, 0), at(15, 0), at(14, 30), at(15, 30), true},
		{"contained", at(14, 0), at(15, 0), at(14, 15), at(14, 45), true},
		{"touching after", at(14, 0), at(15, 0), at(15, 0), at(16, 0), false},
		{"touching before", at(14, 0), at(15, 0), at(13, 0), at(14, 0), false},
		{"disjoint", at(14, 0), at(15, 0), at(16, 0), at(17, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantResult, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			assert.Equal(t, tt.wantResult, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd), "overlap must be symmetric")
		})
	}
}

func TestContainsIsHalfOpen(t *testing.T) {
	start := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	assert.True(t, Contains(start, end, start))
	assert.True(t, Contains(start, end, end.Add(-time.Nanosecond)))
	assert.False(t, Contains(start, end, end))
}

func TestBookingApplyMergesMetadata(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	b := &Booking{Status: StatusPending, Metadata: map[string]any{"source": "app"}}

	b.Apply(StatusUpdate{
		Status:      StatusConfirmed,
		ConfirmedAt: &now,
		Metadata:    map[string]any{"confirmation": map[string]any{"confirmedBy": "p1"}},
		UpdatedAt:   now,
	})

	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, "app", b.Metadata["source"])
	assert.Contains(t, b.Metadata, "confirmation")
	assert.Equal(t, 1, b.Version)

	later := now.Add(time.Hour)
	b.Apply(StatusUpdate{Status: StatusInProgress, ConfirmedAt: &later})
	assert.Equal(t, now, *b.ConfirmedAt, "confirmedAt is set once")
}

func TestBookingCloneIsDeep(t *testing.T) {
	b := &Booking{ServiceIDs: []string{"s1"}, Metadata: map[string]any{"k": map[string]any{"n": 1}}}
	c := b.Clone()
	c.ServiceIDs[0] = "s2"
	c.Metadata["k"].(map[string]any)["n"] = 2

	assert.Equal(t, "s1", b.ServiceIDs[0])
	assert.Equal(t, 1, b.Metadata["k"].(map[string]any)["n"])
}

func TestConflictingBookingsOnlyCountsBlockingStatuses(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 3, 1, h, m, 0, 0, time.UTC) }
	deleted := at(8, 0)
	candidates := []Booking{
		{ID: "pending", ProviderID: "p1", Status: StatusPending, StartTime: at(14, 0), EndTime: at(15, 0)},
		{ID: "confirmed", ProviderID: "p1", Status: StatusConfirmed, StartTime: at(14, 0), EndTime: at(15, 0)},
		{ID: "running", ProviderID: "p1", Status: StatusInProgress, StartTime: at(14, 30), EndTime: at(15, 30)},
		{ID: "cancelled", ProviderID: "p1", Status: StatusCancelledByClient, StartTime: at(14, 0), EndTime: at(15, 0)},
		{ID: "other-provider", ProviderID: "p2", Status: StatusConfirmed, StartTime: at(14, 0), EndTime: at(15, 0)},
		{ID: "tombstoned", ProviderID: "p1", Status: StatusConfirmed, StartTime: at(14, 0), EndTime: at(15, 0), DeletedAt: &deleted},
		{ID: "adjacent", ProviderID: "p1", Status: StatusConfirmed, StartTime: at(15, 0), EndTime: at(16, 0)},
	}

	got := ConflictingBookings(candidates, "p1", at(14, 0), at(15, 0), "")
	ids := make([]string, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{"confirmed", "running"}, ids)

	got = ConflictingBookings(candidates, "p1", at(14, 0), at(15, 0), "confirmed")
	assert.Len(t, got, 1)
	assert.Equal(t, "running", got[0].ID)
}
