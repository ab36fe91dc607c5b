package models

import (
	"fmt"
	"time"
)

// Purchase statuses, in declared order. Library listings sort by this order,
// not alphabetically.
const (
	StatusWishlist  = "wishlist"
	StatusToPlay    = "to_play"
	StatusPlaying   = "playing"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
	StatusMastered  = "mastered"
)

// StatusOrder lists every valid status in its sort position.
var StatusOrder = []string{
	StatusWishlist,
	StatusToPlay,
	StatusPlaying,
	StatusCompleted,
	StatusAbandoned,
	StatusMastered,
}

// Purchase sources (provenance of a library entry).
const (
	SourceMistStore   = "mist_store"
	SourceManual      = "manual"
	SourceSteamImport = "steam_import"
	SourceEpicImport  = "epic_import"
)

// Purchase is a user's library entry: a game they bought, added by hand, or
// imported. GameID is nil for manual and imported entries not tied to the
// catalog; for non-nil GameID a user can hold at most one entry per game
// (partial unique index, see db.InitDB).
type Purchase struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	GameID      *uint      `json:"gameId"`
	Status      string     `gorm:"not null;default:to_play" json:"status"`
	Source      string     `gorm:"not null" json:"source"`
	Platform    string     `json:"platform"`
	LaunchPath  string     `json:"launchPath"`
	CustomTitle string     `json:"customTitle"`
	CustomImage string     `json:"customImage"`
	Notes       string     `json:"notes"`
	Rating      *int       `json:"rating"`
	PlayTime    int        `gorm:"default:0" json:"playTime"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	IsFavorite  bool       `gorm:"default:false" json:"isFavorite"`
	IsHidden    bool       `gorm:"default:false" json:"isHidden"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsValidStatus reports whether s is one of the declared statuses.
func IsValidStatus(s string) bool {
	for _, v := range StatusOrder {
		if s == v {
			return true
		}
	}
	return false
}

// StatusRank returns the sort position of a status within StatusOrder.
// Unknown statuses sort last.
func StatusRank(s string) int {
	for i, v := range StatusOrder {
		if s == v {
			return i
		}
	}
	return len(StatusOrder)
}

// ApplyStatus moves the purchase into the given status and applies the derived
// timestamps: entering playing sets StartedAt only the first time, entering
// completed or mastered refreshes CompletedAt every time.
func (p *Purchase) ApplyStatus(status string, now time.Time) {
	if status == StatusPlaying && p.StartedAt == nil {
		started := now
		p.StartedAt = &started
	}
	if status == StatusCompleted || status == StatusMastered {
		completed := now
		p.CompletedAt = &completed
	}
	p.Status = status
}

// DisplayTitle returns the custom title when set, otherwise a catalog
// reference label.
func (p *Purchase) DisplayTitle() string {
	if p.CustomTitle != "" {
		return p.CustomTitle
	}
	if p.GameID != nil {
		return fmt.Sprintf("Game #%d", *p.GameID)
	}
	return "Untitled Game"
}

// BuyGameInput - for the store purchase route
type BuyGameInput struct {
	GameID uint `json:"gameId" validate:"required,gte=1"`
}

// AddManualInput - for manually adding a library entry
type AddManualInput struct {
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	LaunchPath  string `json:"launchPath"`
	CustomImage string `json:"customImage"`
	Status      string `json:"status" validate:"omitempty,oneof=wishlist to_play playing completed abandoned mastered"`
	Notes       string `json:"notes"`
}

// ImportedGame - a single entry of a batch import payload
type ImportedGame struct {
	Title    string `json:"title"`
	Image    string `json:"image"`
	Playtime int    `json:"playtime"`
}

// ImportInput - for the batch import route
type ImportInput struct {
	Games []ImportedGame `json:"games"`
}

// UpdateStatusInput - for the status update route
type UpdateStatusInput struct {
	Status string `json:"status"`
}

// UpdateRatingInput - rating arrives as a float so non-integers like 5.5 can
// be rejected explicitly instead of being truncated by JSON binding.
type UpdateRatingInput struct {
	Rating *float64 `json:"rating"`
}

// UpdateNotesInput - pointer distinguishes "clear notes" from "field omitted"
type UpdateNotesInput struct {
	Notes *string `json:"notes"`
}

// UpdateDetailsInput - partial update; nil fields keep their prior value, an
// explicit empty string clears the field.
type UpdateDetailsInput struct {
	LaunchPath *string `json:"launchPath"`
	Platform   *string `json:"platform"`
}
