package coaching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntentFor(t *testing.T) {
	tests := []struct {
		state State
		want  Intent
	}{
		{StateStart, Intent{GoalMaintain, ToneMotivational, UrgencyLow}},
		{StateSteady, Intent{GoalMaintain, ToneCalm, UrgencyLow}},
		{StateSpeedingUp, Intent{GoalMaintain, ToneMotivational, UrgencyLow}},
		{StateStrong, Intent{GoalMaintain, ToneMotivational, UrgencyMedium}},
		{StateSlowingDown, Intent{GoalMaintain, ToneSupportive, UrgencyLow}},
		{StateUphill, Intent{GoalReduceEffort, ToneSupportive, UrgencyMedium}},
		{StateDownhill, Intent{GoalMaintain, ToneCalm, UrgencyLow}},
		{StateFatigue, Intent{GoalStayCalm, ToneSupportive, UrgencyHigh}},
		{StateStruggling, Intent{GoalStayCalm, ToneSupportive, UrgencyHigh}},
		{StateFinishing, Intent{GoalPrepareFinish, ToneMotivational, UrgencyHigh}},
		{State(99), Intent{GoalMaintain, ToneCalm, UrgencyLow}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IntentFor(tt.state))
			// pure: a second call yields the identical intent
			assert.Equal(t, IntentFor(tt.state), IntentFor(tt.state))
		})
	}
}

func TestReasonFor(t *testing.T) {
	seen := make(map[string]State)
	for _, s := range AllStates() {
		reason := ReasonFor(s)
		assert.NotEmpty(t, reason, "state %v", s)
		assert.NotEqual(t, "Unknown state", reason, "state %v", s)
		if other, dup := seen[reason]; dup {
			t.Errorf("states %v and %v share reason %q", other, s, reason)
		}
		seen[reason] = s
	}

	assert.Equal(t, "Unknown state", ReasonFor(State(-1)))
	assert.Equal(t, "Elevation gain detected", ReasonFor(StateUphill))
}

func TestCooldowns(t *testing.T) {
	c := DefaultCooldowns()

	assert.Equal(t, 30*time.Second, c.For(UrgencyHigh))
	assert.Equal(t, 45*time.Second, c.For(UrgencyMedium))
	assert.Equal(t, 60*time.Second, c.For(UrgencyLow))
	assert.Equal(t, time.Duration(0), c.For(Urgency("critical")))

	// higher urgency may speak again sooner
	assert.Less(t, c.For(UrgencyHigh), c.For(UrgencyMedium))
	assert.Less(t, c.For(UrgencyMedium), c.For(UrgencyLow))
}

func TestSuppressDuplicate(t *testing.T) {
	steady := IntentFor(StateSteady)

	tests := []struct {
		name string
		last *Intent
		cur  Intent
		want bool
	}{
		{
			name: "first message always allowed",
			last: nil,
			cur:  steady,
			want: false,
		},
		{
			name: "different goal",
			last: &steady,
			cur:  IntentFor(StateUphill),
			want: false,
		},
		{
			name: "same goal, different tone",
			last: &steady,
			cur:  IntentFor(StateSlowingDown),
			want: false,
		},
		{
			name: "same goal and tone",
			last: &steady,
			cur:  IntentFor(StateDownhill),
			want: true,
		},
		{
			name: "same goal and tone, different urgency",
			last: &Intent{GoalMaintain, ToneMotivational, UrgencyLow},
			cur:  IntentFor(StateStrong),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuppressDuplicate(tt.last, tt.cur))
		})
	}
}
