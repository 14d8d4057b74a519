package coaching

import "time"

// IntentFor maps a run state to what the coach should try to accomplish.
// It decides WHAT to aim for, never the wording.
func IntentFor(s State) Intent {
	switch s {
	case StateStart:
		return Intent{Goal: GoalMaintain, Tone: ToneMotivational, Urgency: UrgencyLow}
	case StateSteady:
		return Intent{Goal: GoalMaintain, Tone: ToneCalm, Urgency: UrgencyLow}
	case StateSpeedingUp:
		return Intent{Goal: GoalMaintain, Tone: ToneMotivational, Urgency: UrgencyLow}
	case StateStrong:
		return Intent{Goal: GoalMaintain, Tone: ToneMotivational, Urgency: UrgencyMedium}
	case StateSlowingDown:
		return Intent{Goal: GoalMaintain, Tone: ToneSupportive, Urgency: UrgencyLow}
	case StateUphill:
		// Don't chase pace up the hill
		return Intent{Goal: GoalReduceEffort, Tone: ToneSupportive, Urgency: UrgencyMedium}
	case StateDownhill:
		return Intent{Goal: GoalMaintain, Tone: ToneCalm, Urgency: UrgencyLow}
	case StateFatigue:
		return Intent{Goal: GoalStayCalm, Tone: ToneSupportive, Urgency: UrgencyHigh}
	case StateStruggling:
		return Intent{Goal: GoalStayCalm, Tone: ToneSupportive, Urgency: UrgencyHigh}
	case StateFinishing:
		return Intent{Goal: GoalPrepareFinish, Tone: ToneMotivational, Urgency: UrgencyHigh}
	default:
		return Intent{Goal: GoalMaintain, Tone: ToneCalm, Urgency: UrgencyLow}
	}
}

// ReasonFor explains a state for logs and debugging
func ReasonFor(s State) string {
	switch s {
	case StateStart:
		return "Run has just started"
	case StateSteady:
		return "Pace is stable and sustainable"
	case StateSpeedingUp:
		return "Pace improving, momentum building"
	case StateStrong:
		return "Running significantly faster than typical"
	case StateSlowingDown:
		return "Pace deteriorating, needs encouragement"
	case StateUphill:
		return "Elevation gain detected"
	case StateDownhill:
		return "Elevation loss detected"
	case StateFatigue:
		return "Sustained pace degradation over time"
	case StateStruggling:
		return "Major pace collapse, needs immediate support"
	case StateFinishing:
		return "Run nearing end, prepare to finish"
	default:
		return "Unknown state"
	}
}

// Cooldowns is the minimum quiet time after feedback of each urgency.
// Higher urgency waits less so critical feedback can recur.
type Cooldowns struct {
	Low    time.Duration
	Medium time.Duration
	High   time.Duration
}

// DefaultCooldowns returns 60s/45s/30s for low/medium/high
func DefaultCooldowns() Cooldowns {
	return Cooldowns{
		Low:    60 * time.Second,
		Medium: 45 * time.Second,
		High:   30 * time.Second,
	}
}

// For returns the cooldown for an urgency, 0 when the urgency is unknown
func (c Cooldowns) For(u Urgency) time.Duration {
	switch u {
	case UrgencyLow:
		return c.Low
	case UrgencyMedium:
		return c.Medium
	case UrgencyHigh:
		return c.High
	default:
		return 0
	}
}

// SuppressDuplicate reports whether cur repeats last closely enough to stay quiet.
// Only an identical goal AND tone suppresses; the first message is always allowed.
func SuppressDuplicate(last *Intent, cur Intent) bool {
	if last == nil {
		return false
	}
	if last.Goal != cur.Goal {
		return false
	}
	if last.Tone != cur.Tone {
		return false
	}
	return true
}
