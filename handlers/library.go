package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mist/cache"
	"mist/db"
	"mist/middleware"
	"mist/models"
	"mist/monitoring"
)

// statusOrderExpr builds the ORDER BY CASE ranking statuses by their declared
// order (wishlist first, mastered last), not alphabetically.
func statusOrderExpr() string {
	var b strings.Builder
	b.WriteString("CASE status")
	for i, s := range models.StatusOrder {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, i)
	}
	b.WriteString(fmt.Sprintf(" ELSE %d END", len(models.StatusOrder)))
	return b.String()
}

// findOwnedPurchase loads a purchase and verifies it belongs to the
// requester. Existence is checked before ownership, so a foreign id that does
// not exist reports 404, never 403.
func findOwnedPurchase(c *gin.Context, userID uint) (*models.Purchase, bool) {
	var purchase models.Purchase
	if err := db.DB.First(&purchase, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase"})
		}
		return nil, false
	}
	if purchase.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return &purchase, true
}

func savePurchase(c *gin.Context, purchase *models.Purchase) bool {
	if err := db.DB.Save(purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase"})
		return false
	}
	cache.InvalidateUserLibrary(purchase.UserID)
	return true
}

// requireOwnUserParam parses the :id path parameter and rejects requests for
// anyone but the authenticated user.
func requireOwnUserParam(c *gin.Context) (uint, bool) {
	requested, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	user := middleware.CurrentUser(c)
	if uint(requested) != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return 0, false
	}
	return user.ID, true
}

// GetUserLibrary lists a user's whole library: favorites first, then status
// in declared order, then most recently acquired.
func GetUserLibrary(c *gin.Context) {
	userID, ok := requireOwnUserParam(c)
	if !ok {
		return
	}

	var cached []models.Purchase
	if err := cache.GetUserLibrary(userID, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var library []models.Purchase
	err := db.DB.Where("user_id = ?", userID).
		Order("is_favorite DESC").
		Order(statusOrderExpr()).
		Order("created_at DESC").
		Find(&library).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch library"})
		return
	}

	cache.SetUserLibrary(userID, library)
	c.JSON(http.StatusOK, library)
}

// GetLibraryByStatus lists a user's library filtered to one status.
func GetLibraryByStatus(c *gin.Context) {
	userID, ok := requireOwnUserParam(c)
	if !ok {
		return
	}

	var library []models.Purchase
	err := db.DB.Where("user_id = ? AND status = ?", userID, c.Param("status")).
		Order("is_favorite DESC").
		Order("created_at DESC").
		Find(&library).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch library"})
		return
	}
	c.JSON(http.StatusOK, library)
}

// BuyGame adds a store game to the requester's library. The partial unique
// index backs up the duplicate pre-check, so concurrent buys of the same game
// resolve to one success and one conflict.
func BuyGame(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var input models.BuyGameInput
	if err := c.ShouldBindJSON(&input); err != nil || input.GameID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gameId is required"})
		return
	}

	var existing models.Purchase
	if err := db.DB.Where("user_id = ? AND game_id = ?", user.ID, input.GameID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Game already in library"})
		return
	}

	gameID := input.GameID
	purchase := models.Purchase{
		UserID: user.ID,
		GameID: &gameID,
		Status: models.StatusToPlay,
		Source: models.SourceMistStore,
	}
	if err := db.DB.Create(&purchase).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Game already in library"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase"})
		return
	}

	monitoring.PurchasesTotal.WithLabelValues(models.SourceMistStore).Inc()
	cache.InvalidateUserLibrary(user.ID)
	c.JSON(http.StatusCreated, purchase)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// AddManualGame creates a library entry not tied to the catalog.
func AddManualGame(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var input models.AddManualInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	status := input.Status
	if status == "" {
		status = models.StatusToPlay
	}
	if !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid status. Must be one of: " + strings.Join(models.StatusOrder, ", "),
		})
		return
	}

	purchase := models.Purchase{
		UserID:      user.ID,
		GameID:      nil,
		CustomTitle: title,
		Status:      status,
		Source:      models.SourceManual,
		Platform:    input.Platform,
		LaunchPath:  input.LaunchPath,
		CustomImage: input.CustomImage,
		Notes:       input.Notes,
	}
	if err := db.DB.Create(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase"})
		return
	}

	monitoring.PurchasesTotal.WithLabelValues(models.SourceManual).Inc()
	cache.InvalidateUserLibrary(user.ID)
	c.JSON(http.StatusCreated, purchase)
}

// ImportGames batch-imports entries from an external library dump. An entry
// is a duplicate when this user already has a purchase with the same custom
// title; duplicates are skipped silently and the response reports how many
// entries were actually inserted.
func ImportGames(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var input models.ImportInput
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Games) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "games must be a non-empty array"})
		return
	}

	imported := 0
	for _, game := range input.Games {
		var exists models.Purchase
		err := db.DB.Where("user_id = ? AND custom_title = ?", user.ID, game.Title).First(&exists).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
			return
		}

		purchase := models.Purchase{
			UserID:      user.ID,
			Source:      models.SourceSteamImport,
			CustomTitle: game.Title,
			CustomImage: game.Image,
			PlayTime:    game.Playtime,
			Status:      models.StatusToPlay,
		}
		if err := db.DB.Create(&purchase).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
			return
		}
		monitoring.PurchasesTotal.WithLabelValues(models.SourceSteamImport).Inc()
		imported++
	}

	cache.InvalidateUserLibrary(user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d games imported", imported),
		"count":   imported,
	})
}

// UpdateStatus moves a purchase through the status lifecycle, applying the
// derived startedAt/completedAt side effects.
func UpdateStatus(c *gin.Context) {
	var input models.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid status. Must be one of: " + strings.Join(models.StatusOrder, ", "),
		})
		return
	}

	purchase, ok := findOwnedPurchase(c, middleware.CurrentUser(c).ID)
	if !ok {
		return
	}

	purchase.ApplyStatus(input.Status, time.Now())
	if !savePurchase(c, purchase) {
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// UpdateRating sets a purchase's rating; only integers 0 through 5 pass.
func UpdateRating(c *gin.Context) {
	var input models.UpdateRatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r := input.Rating
	if r == nil || *r < 0 || *r > 5 || *r != math.Trunc(*r) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be an integer between 0 and 5"})
		return
	}

	purchase, ok := findOwnedPurchase(c, middleware.CurrentUser(c).ID)
	if !ok {
		return
	}

	rating := int(*r)
	purchase.Rating = &rating
	if !savePurchase(c, purchase) {
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// ToggleFavorite flips the favorite flag; each call flips once.
func ToggleFavorite(c *gin.Context) {
	purchase, ok := findOwnedPurchase(c, middleware.CurrentUser(c).ID)
	if !ok {
		return
	}

	purchase.IsFavorite = !purchase.IsFavorite
	if !savePurchase(c, purchase) {
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// UpdateNotes replaces the notes when the field is present in the payload; an
// omitted field keeps the prior value, an explicit empty string clears it.
func UpdateNotes(c *gin.Context) {
	var input models.UpdateNotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, ok := findOwnedPurchase(c, middleware.CurrentUser(c).ID)
	if !ok {
		return
	}

	if input.Notes != nil {
		purchase.Notes = *input.Notes
	}
	if !savePurchase(c, purchase) {
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// UpdateDetails partially updates launch path and platform.
func UpdateDetails(c *gin.Context) {
	var input models.UpdateDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, ok := findOwnedPurchase(c, middleware.CurrentUser(c).ID)
	if !ok {
		return
	}

	if input.LaunchPath != nil {
		purchase.LaunchPath = *input.LaunchPath
	}
	if input.Platform != nil {
		purchase.Platform = *input.Platform
	}
	if !savePurchase(c, purchase) {
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// LaunchGame returns what the client needs to launch an entry.
func LaunchGame(c *gin.Context) {
	purchase, ok := findOwnedPurchase(c, middleware.CurrentUser(c).ID)
	if !ok {
		return
	}

	if purchase.LaunchPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No launch path configured for this game",
			"hint":  "Edit the game details to add a launch path (e.g. steam://rungameid/730)",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"launchUrl": purchase.LaunchPath,
		"title":     purchase.DisplayTitle(),
		"platform":  purchase.Platform,
	})
}
