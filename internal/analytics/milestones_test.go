package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMilestoneMessage(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		wantCount int // 0 means nil
	}{
		{"five", 5, 5},
		{"ten is double digits", 10, 10},
		{"eleven is not a milestone", 11, 0},
		{"hundred", 100, 100},
		{"zero", 0, 0},
		{"between thresholds", 26, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GetMilestoneMessage(tt.count)
			if tt.wantCount == 0 {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.wantCount, m.Count)
			assert.NotEmpty(t, m.Message)
			assert.NotEmpty(t, m.Emoji)
		})
	}
}

func TestGetNextMilestone(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		wantCount int // 0 means nil
	}{
		{"fresh jar", 0, 5},
		{"at five the next is ten", 5, 10},
		{"eleven looks at twenty five", 11, 25},
		{"past fifty", 60, 100},
		{"all passed", 100, 0},
		{"way past", 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := GetNextMilestone(tt.count)
			if tt.wantCount == 0 {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.wantCount, m.Count)
		})
	}
}

func TestMilestonesAscending(t *testing.T) {
	ms := Milestones()
	require.NotEmpty(t, ms)
	for i := 1; i < len(ms); i++ {
		assert.Less(t, ms[i-1].Count, ms[i].Count)
	}
}
