package domain

// Link represents a shortened URL
type Link struct {
	ShortCode     string `json:"short_code"`
	TargetURL     string `json:"target_url"`
	DeletionToken string `json:"deletion_token"`
	Clicks        int64  `json:"clicks"`
	CreatedAt     int64  `json:"created_at"` // Unix epoch seconds, immutable
}
