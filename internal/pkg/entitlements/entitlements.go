package entitlements

import "strings"

type Plan string

const (
	PlanNone     Plan = ""
	PlanBasic    Plan = "basic"
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
)

const (
	QualitySD = "SD"
	QualityHD = "HD"
	Quality4K = "4K"
)

// Normalize maps arbitrary tier strings to a known plan; unknown tiers
// get no entitlements.
func Normalize(tier string) Plan {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case string(PlanBasic):
		return PlanBasic
	case string(PlanStandard):
		return PlanStandard
	case string(PlanPremium):
		return PlanPremium
	default:
		return PlanNone
	}
}

// Rank orders plans so the best of several subscriptions wins.
func Rank(plan Plan) int {
	switch plan {
	case PlanPremium:
		return 3
	case PlanStandard:
		return 2
	case PlanBasic:
		return 1
	default:
		return 0
	}
}

// MaxProfiles returns how many viewing profiles a plan allows.
func MaxProfiles(plan Plan) int {
	switch plan {
	case PlanPremium:
		return 4
	case PlanStandard:
		return 2
	case PlanBasic:
		return 1
	default:
		return 1
	}
}

// MaxStreams returns how many concurrent playback sessions a plan allows.
func MaxStreams(plan Plan) int {
	switch plan {
	case PlanPremium:
		return 4
	case PlanStandard:
		return 2
	default:
		return 1
	}
}

// MaxQuality returns the best playback quality for a plan.
func MaxQuality(plan Plan) string {
	switch plan {
	case PlanPremium:
		return Quality4K
	case PlanStandard:
		return QualityHD
	default:
		return QualitySD
	}
}

// CanDownload reports whether offline downloads are included.
func CanDownload(plan Plan) bool {
	return plan == PlanStandard || plan == PlanPremium
}
