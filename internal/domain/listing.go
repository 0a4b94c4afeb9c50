package domain

import "time"

type Role string

const (
	RoleHost   Role = "host"
	RoleSeeker Role = "seeker"
)

func (r Role) Valid() bool {
	return r == RoleHost || r == RoleSeeker
}

// Duration labels offered when creating a listing.
const (
	DurationOneMonth      = "1 mese"
	DurationOneTwoMonths  = "1-2 mesi"
	DurationThreeToSixMos = "3-6 mesi"
)

// Budget labels offered when creating a listing. A nil budget means flexible.
const (
	Budget300to500 = "€300-500"
	Budget500to700 = "€500-700"
	Budget700to900 = "€700-900"
	Budget900Plus  = "€900+"
)

type Listing struct {
	ID          int64        `json:"id" db:"id"`
	OwnerID     string       `json:"owner_id" db:"owner_id"`
	Role        Role         `json:"role" db:"role"`
	Region      string       `json:"region" db:"region"`
	City        string       `json:"city" db:"city"`
	Duration    string       `json:"duration" db:"duration"`
	Budget      *string      `json:"budget" db:"budget"`
	HasChildren ChildrenFlag `json:"has_children" db:"has_children"`
	Vibe        Vibe         `json:"vibe" db:"vibe"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// ListingFilter scopes a listing query. Empty fields are not applied.
type ListingFilter struct {
	Region string
	City   string
	Role   Role
	Limit  int
}

// MatchCard is a listing paired with its compatibility result. It is
// recomputed on every request and never stored.
type MatchCard struct {
	Listing *Listing `json:"listing"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Risks   []string `json:"risks"`
}

// ListingDraft is a suggested title and description for a new listing.
type ListingDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
