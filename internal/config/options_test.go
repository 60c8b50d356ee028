package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arimaakit/aei-sdk-go/internal/aei"
)

func TestOptions_Defaults(t *testing.T) {
	var o Options

	assert.Equal(t, aei.SideGold, o.EffectiveSide())
	assert.Equal(t, DefaultMoveTime, o.EffectiveMoveTime())
	assert.Equal(t, DefaultPollInterval, o.EffectivePollInterval())
	assert.Equal(t, DefaultHandshakeTimeout, o.EffectiveHandshakeTimeout())
	assert.Equal(t, DefaultQuitTimeout, o.EffectiveQuitTimeout())
}

func TestOptions_ExplicitValues(t *testing.T) {
	moveTime := 3 * time.Second
	o := Options{
		SideToMove:       aei.SideSilver,
		MoveTime:         &moveTime,
		PollInterval:     25 * time.Millisecond,
		HandshakeTimeout: 2 * time.Second,
		QuitTimeout:      time.Second,
	}

	assert.Equal(t, aei.SideSilver, o.EffectiveSide())
	assert.Equal(t, moveTime, o.EffectiveMoveTime())
	assert.Equal(t, 25*time.Millisecond, o.EffectivePollInterval())
	assert.Equal(t, 2*time.Second, o.EffectiveHandshakeTimeout())
	assert.Equal(t, time.Second, o.EffectiveQuitTimeout())
}

func TestOptions_SearchDeadline(t *testing.T) {
	tests := []struct {
		name          string
		moveTime      *time.Duration
		searchTimeout time.Duration
		want          time.Duration
	}{
		{
			name: "derived from default move time",
			want: 2*DefaultMoveTime + searchGrace,
		},
		{
			name:     "derived from explicit move time",
			moveTime: durationPtr(3 * time.Second),
			want:     16 * time.Second,
		},
		{
			name:          "explicit override wins",
			moveTime:      durationPtr(3 * time.Second),
			searchTimeout: time.Minute,
			want:          time.Minute,
		},
		{
			name:     "zero move time means unbounded",
			moveTime: durationPtr(0),
			want:     0,
		},
		{
			name:          "zero move time with override stays bounded",
			moveTime:      durationPtr(0),
			searchTimeout: 30 * time.Second,
			want:          30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{MoveTime: tt.moveTime, SearchTimeout: tt.searchTimeout}
			assert.Equal(t, tt.want, o.SearchDeadline())
		})
	}
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
