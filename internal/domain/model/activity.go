package model

import "strings"

// Activity is the lifecycle activity reported for stacks and environments.
type Activity string

const (
	ActivityQueued        Activity = "queued"
	ActivityLaunching     Activity = "launching"
	ActivityProvisioning  Activity = "provisioning"
	ActivityOrchestrating Activity = "orchestrating"
	ActivityExecuting     Activity = "executing"
	ActivityIdle          Activity = "idle"
	ActivityPausing       Activity = "pausing"
	ActivityPaused        Activity = "paused"
	ActivityResuming      Activity = "resuming"
	ActivityTerminating   Activity = "terminating"
	ActivityTerminated    Activity = "terminated"
	ActivityDead          Activity = "dead"
)

// Valid reports whether the activity is one the API is known to emit.
func (a Activity) Valid() bool {
	switch a {
	case ActivityQueued, ActivityLaunching, ActivityProvisioning, ActivityOrchestrating,
		ActivityExecuting, ActivityIdle, ActivityPausing, ActivityPaused, ActivityResuming,
		ActivityTerminating, ActivityTerminated, ActivityDead:
		return true
	default:
		return false
	}
}

// Transitional reports whether the activity is expected to change on its own,
// which is what makes auto-refresh worthwhile for a screen.
func (a Activity) Transitional() bool {
	switch a {
	case ActivityQueued, ActivityLaunching, ActivityProvisioning, ActivityOrchestrating,
		ActivityExecuting, ActivityPausing, ActivityResuming, ActivityTerminating:
		return true
	default:
		return false
	}
}

// Health is the aggregated host health reported for stacks and environments.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthDegraded  Health = "degraded"
	HealthUnhealthy Health = "unhealthy"
	HealthUnknown   Health = "unknown"
)

// NormalizeHealth lowercases the value and maps anything unrecognised to HealthUnknown.
func NormalizeHealth(v string) Health {
	h := Health(strings.ToLower(strings.TrimSpace(v)))
	switch h {
	case HealthHealthy, HealthDegraded, HealthUnhealthy:
		return h
	default:
		return HealthUnknown
	}
}
