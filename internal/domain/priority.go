package domain

import (
	"strconv"
	"strings"
)

// PriorityTier is the closed set of priority buckets reported by the statistics API.
type PriorityTier string

const (
	PriorityCritical PriorityTier = "1"
	PriorityHigh     PriorityTier = "2"
	PriorityMedium   PriorityTier = "3"
	PriorityLow      PriorityTier = "4"
	PriorityVeryLow  PriorityTier = "5"
	PriorityNA       PriorityTier = "na"
)

// PriorityTiers lists every tier, most severe first.
var PriorityTiers = []PriorityTier{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow, PriorityVeryLow, PriorityNA}

// ParsePriorityTier resolves a raw aggregate value.
func ParsePriorityTier(raw string) (PriorityTier, bool) {
	t := PriorityTier(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range PriorityTiers {
		if t == known {
			return t, true
		}
	}
	return t, false
}

// TierOf returns the tier of a numeric priority.
func TierOf(priority int) PriorityTier {
	if !LevelInRange(priority) {
		return PriorityNA
	}
	return PriorityTier(strconv.Itoa(priority))
}
