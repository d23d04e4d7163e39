package service

import (
	"math/rand"
	"testing"

	"inovocb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prize(id uint, name string, prob float64) models.SpinPrize {
	return models.SpinPrize{ID: id, Name: name, Probability: prob, IsActive: true}
}

func TestEligiblePrizes(t *testing.T) {
	tests := []struct {
		name   string
		prizes []models.SpinPrize
		want   []uint
	}{
		{
			name:   "all eligible",
			prizes: []models.SpinPrize{prize(1, "a", 50), prize(2, "b", 50)},
			want:   []uint{1, 2},
		},
		{
			name: "inactive excluded",
			prizes: []models.SpinPrize{
				prize(1, "a", 50),
				{ID: 2, Name: "b", Probability: 50, IsActive: false},
			},
			want: []uint{1},
		},
		{
			name: "zero probability excluded",
			prizes: []models.SpinPrize{
				prize(1, "a", 100),
				{ID: 2, Name: "b", Probability: 0, IsActive: true},
			},
			want: []uint{1},
		},
		{
			name: "daily cap exhausted",
			prizes: []models.SpinPrize{
				{ID: 1, Name: "a", Probability: 50, IsActive: true, DailyLimit: 3, TimesWonToday: 3},
				prize(2, "b", 50),
			},
			want: []uint{2},
		},
		{
			name: "total cap exhausted",
			prizes: []models.SpinPrize{
				{ID: 1, Name: "a", Probability: 50, IsActive: true, TotalLimit: 10, TimesWonTotal: 10},
				prize(2, "b", 50),
			},
			want: []uint{2},
		},
		{
			name: "zero limit means unlimited",
			prizes: []models.SpinPrize{
				{ID: 1, Name: "a", Probability: 50, IsActive: true, TimesWonToday: 999, TimesWonTotal: 9999},
			},
			want: []uint{1},
		},
		{
			name:   "empty input",
			prizes: nil,
			want:   []uint{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eligiblePrizes(tt.prizes)
			ids := make([]uint, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPickPrizeZeroMass(t *testing.T) {
	assert.Nil(t, pickPrize(nil, 0.5))
	assert.Nil(t, pickPrize([]models.SpinPrize{}, 0.5))
}

func TestPickPrizeBands(t *testing.T) {
	eligible := []models.SpinPrize{
		prize(1, "a", 50),
		prize(2, "b", 30),
		prize(3, "c", 20),
	}
	tests := []struct {
		roll float64
		want uint
	}{
		{0.0, 1},
		{0.49, 1},
		{0.5, 2},
		{0.79, 2},
		{0.8, 3},
		{0.999, 3},
	}
	for _, tt := range tests {
		got := pickPrize(eligible, tt.roll)
		require.NotNil(t, got)
		assert.Equal(t, tt.want, got.ID, "roll %v", tt.roll)
	}
}

// When capped prizes drop out, the remaining mass is renormalized: a roll
// over [0,1) always lands on an eligible prize even when the probabilities
// no longer sum to 100.
func TestPickPrizeRenormalizes(t *testing.T) {
	eligible := []models.SpinPrize{
		prize(1, "a", 30),
		prize(2, "b", 10),
	}
	// target = roll * 40: first band [0, 30), second [30, 40)
	assert.Equal(t, uint(1), pickPrize(eligible, 0.74).ID)
	assert.Equal(t, uint(2), pickPrize(eligible, 0.76).ID)
}

func TestPickPrizeDistribution(t *testing.T) {
	eligible := []models.SpinPrize{
		prize(1, "half", 50),
		prize(2, "third", 30),
		prize(3, "fifth", 20),
	}
	rnd := rand.New(rand.NewSource(42))
	const draws = 100000
	counts := map[uint]int{}
	for i := 0; i < draws; i++ {
		p := pickPrize(eligible, rnd.Float64())
		require.NotNil(t, p)
		counts[p.ID]++
	}
	assert.InDelta(t, 0.50, float64(counts[1])/draws, 0.01)
	assert.InDelta(t, 0.30, float64(counts[2])/draws, 0.01)
	assert.InDelta(t, 0.20, float64(counts[3])/draws, 0.01)
}

func TestPickPrizeRollAtUpperEdge(t *testing.T) {
	eligible := []models.SpinPrize{prize(1, "only", 33.33)}
	got := pickPrize(eligible, 0.9999999999)
	require.NotNil(t, got)
	assert.Equal(t, uint(1), got.ID)
}
