package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, PlanBasic, Normalize("basic"))
	assert.Equal(t, PlanStandard, Normalize(" Standard "))
	assert.Equal(t, PlanPremium, Normalize("PREMIUM"))
	assert.Equal(t, PlanNone, Normalize("gold"))
	assert.Equal(t, PlanNone, Normalize(""))
}

func TestRankOrdersPlans(t *testing.T) {
	assert.Greater(t, Rank(PlanPremium), Rank(PlanStandard))
	assert.Greater(t, Rank(PlanStandard), Rank(PlanBasic))
	assert.Greater(t, Rank(PlanBasic), Rank(PlanNone))
}

func TestPlanLimits(t *testing.T) {
	assert.Equal(t, 4, MaxProfiles(PlanPremium))
	assert.Equal(t, 2, MaxProfiles(PlanStandard))
	assert.Equal(t, 1, MaxProfiles(PlanBasic))
	assert.Equal(t, 1, MaxProfiles(PlanNone))

	assert.Equal(t, 4, MaxStreams(PlanPremium))
	assert.Equal(t, 1, MaxStreams(PlanBasic))

	assert.Equal(t, Quality4K, MaxQuality(PlanPremium))
	assert.Equal(t, QualityHD, MaxQuality(PlanStandard))
	assert.Equal(t, QualitySD, MaxQuality(PlanBasic))

	assert.True(t, CanDownload(PlanStandard))
	assert.False(t, CanDownload(PlanBasic))
}
