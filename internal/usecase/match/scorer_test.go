package match

import (
	"testing"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestScore_FullMatch(t *testing.T) {
	profile := &domain.Profile{
		Region:      "Lombardia",
		City:        "Milano",
		Vibe:        domain.VibePractical,
		HasChildren: domain.ChildrenNo,
	}
	listing := &domain.Listing{
		Region:      "Lombardia",
		City:        "Milano",
		Vibe:        domain.VibePractical,
		HasChildren: domain.ChildrenNo,
		Budget:      strPtr(domain.Budget500to700),
		Duration:    domain.DurationOneMonth,
	}

	got := Score(profile, listing)

	assert.Equal(t, 95, got.Score)
	assert.Equal(t, []string{ReasonSameArea, ReasonCompatiblePace, ReasonFamilyNeeds}, got.Reasons)
	assert.Empty(t, got.Risks)
}

func TestScore_CityMismatchNoBudget(t *testing.T) {
	profile := &domain.Profile{Region: "Lazio", City: "Roma"}
	listing := &domain.Listing{
		Region:   "Lombardia",
		City:     "Milano",
		Duration: domain.DurationOneMonth,
	}

	got := Score(profile, listing)

	assert.Equal(t, 18, got.Score)
	assert.Equal(t, []string{ReasonFlexibleBudget, ReasonClearDuration}, got.Reasons)
	assert.Equal(t, []string{RiskDifferentArea}, got.Risks)
}

func TestScore_EmptyProfileMinimum(t *testing.T) {
	listing := &domain.Listing{Budget: strPtr("da concordare")}

	got := Score(&domain.Profile{}, listing)
	assert.Equal(t, 8, got.Score)
	assert.Equal(t, []string{ReasonFlexibleBudget}, got.Reasons)
	assert.Empty(t, got.Risks)

	assert.Equal(t, got, Score(nil, listing))
}

func TestScore_SpacedBudgetLabelCounts(t *testing.T) {
	for _, label := range []string{"€ 500 - 700", "€ 900+", "€900 +"} {
		got := Score(&domain.Profile{}, &domain.Listing{Budget: strPtr(label)})
		assert.Equal(t, 10, got.Score, label)
		assert.Equal(t, []string{ReasonClearCosts}, got.Reasons, label)
	}
}

func TestScore_PartialVibeAndFamilyRisk(t *testing.T) {
	profile := &domain.Profile{
		Region:      "Lombardia",
		City:        "Bergamo",
		Vibe:        domain.VibeCalm,
		HasChildren: domain.ChildrenYes,
	}
	listing := &domain.Listing{
		Region:      "Lombardia",
		City:        "Milano",
		Vibe:        domain.VibeCollaborative,
		HasChildren: domain.ChildrenNo,
		Budget:      strPtr(domain.Budget900Plus),
		Duration:    domain.DurationThreeToSixMos,
	}

	got := Score(profile, listing)

	assert.Equal(t, 15+10+10+10, got.Score)
	assert.Equal(t, []string{ReasonClearCosts, ReasonClearDuration}, got.Reasons)
	assert.Equal(t, []string{RiskDifferentArea, RiskDifferentFamily}, got.Risks)
}

func TestScore_ReasonsTruncatedInEvaluationOrder(t *testing.T) {
	profile := &domain.Profile{City: "Milano", Vibe: domain.VibeCalm, HasChildren: domain.ChildrenYes}
	listing := &domain.Listing{
		City:        "Milano",
		Vibe:        domain.VibeCalm,
		HasChildren: domain.ChildrenYes,
		Budget:      strPtr(domain.Budget300to500),
		Duration:    domain.DurationOneTwoMonths,
	}

	got := Score(profile, listing)

	assert.Len(t, got.Reasons, 3)
	assert.Equal(t, ReasonSameArea, got.Reasons[0])
	assert.NotContains(t, got.Reasons, ReasonClearCosts)
}

func TestScore_Bounds(t *testing.T) {
	profiles := []*domain.Profile{
		{},
		{Region: "Lombardia", City: "Milano", Vibe: domain.VibeCalm, HasChildren: domain.ChildrenYes},
		{Region: "Lazio", City: "Roma", Vibe: domain.VibePractical, HasChildren: domain.ChildrenNo},
	}
	listings := []*domain.Listing{
		{},
		{Region: "Lombardia", City: "Milano", Vibe: domain.VibeCalm, HasChildren: domain.ChildrenYes, Budget: strPtr("€1-2"), Duration: "1 mese"},
		{Region: "Lazio", City: "Latina", Vibe: domain.VibeCalm, HasChildren: domain.ChildrenYes, Budget: strPtr("??")},
	}

	for _, p := range profiles {
		for _, l := range listings {
			got := Score(p, l)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
			assert.LessOrEqual(t, len(got.Reasons), 3)
			assert.LessOrEqual(t, len(got.Risks), 2)

			if contains(got.Risks, RiskDifferentArea) {
				assert.NotContains(t, got.Reasons, ReasonSameArea)
			}
			if contains(got.Risks, RiskDifferentFamily) {
				assert.NotContains(t, got.Reasons, ReasonFamilyNeeds)
			}
		}
	}
}

func TestRank_OrdersByScoreKeepingTies(t *testing.T) {
	profile := &domain.Profile{Region: "Lombardia", City: "Milano"}
	newest := &domain.Listing{ID: 3, Region: "Lombardia", City: "Bergamo"}
	best := &domain.Listing{ID: 2, Region: "Lombardia", City: "Milano", Duration: "1 mese"}
	tied := &domain.Listing{ID: 1, Region: "Lombardia", City: "Como"}

	cards := Rank(profile, []*domain.Listing{newest, best, tied})

	assert.Equal(t, []int64{2, 3, 1}, []int64{cards[0].Listing.ID, cards[1].Listing.ID, cards[2].Listing.ID})
	assert.Equal(t, 15+25+8+10, cards[0].Score)
	assert.Equal(t, cards[1].Score, cards[2].Score)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
