package offers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveUnitPrice(t *testing.T) {
	schedule := []DiscountTier{
		{Participants: 5, Price: 90},
		{Participants: 10, Price: 80},
	}

	tests := []struct {
		name         string
		base         float64
		tiers        []DiscountTier
		participants int
		want         float64
	}{
		{"mid tier", 100, schedule, 7, 90},
		{"below first tier", 100, schedule, 3, 100},
		{"top tier", 100, schedule, 12, 80},
		{"exact threshold", 100, schedule, 5, 90},
		{"exact top threshold", 100, schedule, 10, 80},
		{"no schedule", 100, nil, 50, 100},
		{"empty schedule", 100, []DiscountTier{}, 50, 100},
		{"zero participants", 100, schedule, 0, 100},
		{"unsorted input", 100, []DiscountTier{
			{Participants: 10, Price: 80},
			{Participants: 5, Price: 90},
		}, 7, 90},
		{"zero threshold tier applies always", 100, []DiscountTier{
			{Participants: 0, Price: 95},
		}, 0, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUnitPrice(tt.base, tt.tiers, tt.participants)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnitPriceIsPure(t *testing.T) {
	tiers := []DiscountTier{
		{Participants: 10, Price: 80},
		{Participants: 5, Price: 90},
	}
	first := ResolveUnitPrice(100, tiers, 7)
	second := ResolveUnitPrice(100, tiers, 7)
	require.Equal(t, first, second)

	// The input slice order must survive the internal sort.
	require.Equal(t, []DiscountTier{
		{Participants: 10, Price: 80},
		{Participants: 5, Price: 90},
	}, tiers)
}

func TestResolveUnitPriceDuplicateThresholds(t *testing.T) {
	// Two tiers at the same threshold: the one listed first wins.
	tiers := []DiscountTier{
		{Participants: 5, Price: 90},
		{Participants: 5, Price: 85},
	}
	require.Equal(t, 90.0, ResolveUnitPrice(100, tiers, 6))

	tiers = []DiscountTier{
		{Participants: 5, Price: 85},
		{Participants: 5, Price: 90},
	}
	require.Equal(t, 85.0, ResolveUnitPrice(100, tiers, 6))
}

func TestNormalizeStrategy(t *testing.T) {
	in := []DiscountTier{
		{Participants: 5, Price: 90},
		{Participants: -1, Price: 50},
		{Participants: 10, Price: -3},
		{Participants: 0, Price: 0},
	}
	out := NormalizeStrategy(in)
	require.Equal(t, []DiscountTier{
		{Participants: 5, Price: 90},
		{Participants: 0, Price: 0},
	}, out)

	require.Empty(t, NormalizeStrategy(nil))
}

func TestJoinable(t *testing.T) {
	now := time.Now()
	o := &Offer{Status: StatusActive, Deadline: now.Add(time.Hour)}
	require.True(t, o.Joinable(now))

	o.Status = StatusCancelled
	require.False(t, o.Joinable(now))

	o.Status = StatusPending
	require.False(t, o.Joinable(now))

	o.Status = StatusActive
	o.Deadline = now.Add(-time.Minute)
	require.False(t, o.Joinable(now))

	o.Deadline = now
	require.False(t, o.Joinable(now))
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now()

	o := &Offer{Status: StatusActive, Deadline: now.Add(time.Hour)}
	require.Equal(t, StatusActive, o.EffectiveStatus(now))

	o.Deadline = now.Add(-time.Hour)
	require.Equal(t, StatusExpired, o.EffectiveStatus(now))

	// Non-active offers never flip to expired.
	o.Status = StatusCancelled
	require.Equal(t, StatusCancelled, o.EffectiveStatus(now))
}
