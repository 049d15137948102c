// Package catalog maps spoken procedure names to appointment durations.
package catalog

import (
	"strings"
	"time"
)

// DefaultMinutes is used when no known procedure keyword matches.
const DefaultMinutes = 60

type entry struct {
	keyword string
	minutes int
}

// services is evaluated in declared order; the first keyword contained in
// the requested service type wins, so the lookup is deterministic no matter
// how the caller phrases the request.
var services = []entry{
	{"contrôle", 30},
	{"controle", 30},
	{"nettoyage", 45},
	{"détartrage", 45},
	{"detartrage", 45},
	{"carie", 60},
	{"obturation", 60},
	{"couronne", 90},
	{"bridge", 90},
	{"blanchiment", 60},
	{"canal", 90},
	{"extraction", 45},
}

// DurationMinutes resolves a free-text service type to a duration in
// minutes. Matching is case-insensitive substring against the declared
// keyword order. Unknown services get DefaultMinutes; this never fails.
func DurationMinutes(serviceType string) int {
	lowered := strings.ToLower(serviceType)
	for _, e := range services {
		if strings.Contains(lowered, e.keyword) {
			return e.minutes
		}
	}
	return DefaultMinutes
}

// Duration is DurationMinutes as a time.Duration.
func Duration(serviceType string) time.Duration {
	return time.Duration(DurationMinutes(serviceType)) * time.Minute
}
