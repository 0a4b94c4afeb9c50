package domain

import "time"

// Conversation is a two-party thread about one listing. Participants are
// stored as a canonical pair: UserLow < UserHigh.
type Conversation struct {
	ID        int64     `json:"id" db:"id"`
	ListingID int64     `json:"listing_id" db:"listing_id"`
	UserLow   string    `json:"user_low" db:"user_low"`
	UserHigh  string    `json:"user_high" db:"user_high"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CanonicalPair orders two identities ascending.
func CanonicalPair(a, b string) (low, high string) {
	if b < a {
		return b, a
	}
	return a, b
}

func (c *Conversation) HasUser(userID string) bool {
	return userID != "" && (c.UserLow == userID || c.UserHigh == userID)
}

func (c *Conversation) GetOtherUserID(userID string) (string, bool) {
	if c.UserLow == userID {
		return c.UserHigh, true
	}
	if c.UserHigh == userID {
		return c.UserLow, true
	}
	return "", false
}
