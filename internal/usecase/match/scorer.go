// Package match scores how well a listing fits a profile.
//
// The score is a transparent sum of fixed points so a user can read why a
// listing ranks where it does. Point values and the evaluation order are
// part of the contract: reasons and risks are truncated in that order.
package match

import (
	"sort"

	"github.com/gdugdh24/transitia-backend/internal/domain"
)

const (
	ReasonSameArea       = "same area"
	ReasonCompatiblePace = "compatible pace"
	ReasonFamilyNeeds    = "similar family needs"
	ReasonClearCosts     = "clear costs"
	ReasonFlexibleBudget = "flexible budget"
	ReasonClearDuration  = "clear duration"

	RiskDifferentArea   = "different area"
	RiskDifferentFamily = "different family needs"
)

const (
	pointsRegion        = 15
	pointsCity          = 25
	pointsVibe          = 20
	pointsVibePartial   = 10
	pointsChildren      = 15
	pointsBudget        = 10
	pointsBudgetUnknown = 8
	pointsDuration      = 10

	maxReasons = 3
	maxRisks   = 2
)

type Result struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Risks   []string `json:"risks"`
}

// Score computes the compatibility of listing with the preferences in profile.
func Score(profile *domain.Profile, listing *domain.Listing) Result {
	if profile == nil {
		profile = &domain.Profile{}
	}

	score := 0
	reasons := make([]string, 0, 5)
	risks := make([]string, 0, 2)

	if profile.Region != "" && profile.Region == listing.Region {
		score += pointsRegion
	}

	if profile.City != "" {
		if profile.City == listing.City {
			score += pointsCity
			reasons = append(reasons, ReasonSameArea)
		} else {
			risks = append(risks, RiskDifferentArea)
		}
	}

	if profile.Vibe != "" && listing.Vibe != "" {
		if profile.Vibe == listing.Vibe {
			score += pointsVibe
			reasons = append(reasons, ReasonCompatiblePace)
		} else {
			score += pointsVibePartial
		}
	}

	if profile.HasChildren != "" && listing.HasChildren != "" {
		if profile.HasChildren == listing.HasChildren {
			score += pointsChildren
			reasons = append(reasons, ReasonFamilyNeeds)
		} else {
			risks = append(risks, RiskDifferentFamily)
		}
	}

	if ParseRangePtr(listing.Budget) != nil {
		score += pointsBudget
		reasons = append(reasons, ReasonClearCosts)
	} else {
		score += pointsBudgetUnknown
		reasons = append(reasons, ReasonFlexibleBudget)
	}

	if listing.Duration != "" {
		score += pointsDuration
		reasons = append(reasons, ReasonClearDuration)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	if len(risks) > maxRisks {
		risks = risks[:maxRisks]
	}

	return Result{Score: score, Reasons: reasons, Risks: risks}
}

// Rank scores every listing against profile and orders the cards by score,
// highest first. Listings with equal scores keep their input order.
func Rank(profile *domain.Profile, listings []*domain.Listing) []domain.MatchCard {
	cards := make([]domain.MatchCard, 0, len(listings))
	for _, listing := range listings {
		result := Score(profile, listing)
		cards = append(cards, domain.MatchCard{
			Listing: listing,
			Score:   result.Score,
			Reasons: result.Reasons,
			Risks:   result.Risks,
		})
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Score > cards[j].Score
	})
	return cards
}
