package models

import "time"

// Deal is a single store offer for a game, normalized to numeric amounts.
type Deal struct {
	Store       string  `json:"store"`
	Price       float64 `json:"price"`
	RetailPrice float64 `json:"retailPrice"`
	Savings     float64 `json:"savings"`
	DealLink    string  `json:"dealLink"`
}

// Game is a catalog record. Created at seed time, mutated only by the
// price-refresh path, never deleted.
type Game struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Price         float64   `gorm:"not null" json:"price"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	Genre         []string  `gorm:"serializer:json" json:"genre"`
	Tags          []string  `gorm:"serializer:json" json:"tags"`
	Features      []string  `gorm:"serializer:json" json:"features"`
	Languages     []string  `gorm:"serializer:json" json:"languages"`
	Platform      []string  `gorm:"serializer:json" json:"platform"`
	Rating        float64   `json:"rating"`
	Publisher     string    `json:"publisher"`
	Developer     string    `json:"developer"`
	ReleaseDate   time.Time `json:"releaseDate"`
	ReviewsCount  int       `gorm:"default:0" json:"reviewsCount"`
	IsEarlyAccess bool      `gorm:"default:false" json:"isEarlyAccess"`

	// Price comparison cache. LastPriceUpdate is stamped only on a successful
	// deals lookup; BestDeal always equals the minimum-price entry of AllDeals.
	LastPriceUpdate *time.Time `json:"lastPriceUpdate"`
	BestDeal        *Deal      `gorm:"serializer:json" json:"bestDeal"`
	AllDeals        []Deal     `gorm:"serializer:json" json:"allDeals"`
}

// HasDiscount reports whether the cached best deal carries real savings.
func (g *Game) HasDiscount() bool {
	return g.BestDeal != nil && g.BestDeal.Savings > 0
}
