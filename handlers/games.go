package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mist/cache"
	"mist/db"
	"mist/models"
	"mist/pricing"
	"mist/utils"
)

// Prices is the price aggregation service used by the catalog handlers.
// Wired in main, replaced with a fake source in tests.
var Prices *pricing.Service

// gameFilters are the composable, all-optional catalog predicates.
type gameFilters struct {
	Search     string
	Genres     []string
	Tags       []string
	Platforms  []string
	MinPrice   *float64
	MaxPrice   *float64
	Discounted bool
	SortBy     string
}

func parseGameFilters(c *gin.Context) gameFilters {
	f := gameFilters{
		Search:     strings.TrimSpace(c.Query("search")),
		Discounted: c.Query("discounted") == "true",
		SortBy:     c.Query("sortBy"),
	}
	if v := c.Query("genre"); v != "" {
		f.Genres = strings.Split(v, ",")
	}
	if v := c.Query("tag"); v != "" {
		f.Tags = strings.Split(v, ",")
	}
	if v := c.Query("platform"); v != "" {
		f.Platforms = strings.Split(v, ",")
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		f.MaxPrice = &v
	}
	return f
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyOverlap(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// match applies every set predicate; fields left empty never exclude a game.
func (f gameFilters) match(g models.Game) bool {
	if f.Search != "" {
		hit := containsFold(g.Title, f.Search) ||
			containsFold(g.Description, f.Search) ||
			containsFold(g.Developer, f.Search) ||
			containsFold(g.Publisher, f.Search)
		for _, t := range g.Tags {
			hit = hit || containsFold(t, f.Search)
		}
		if !hit {
			return false
		}
	}
	if len(f.Genres) > 0 && !anyOverlap(g.Genre, f.Genres) {
		return false
	}
	if len(f.Tags) > 0 && !anyOverlap(g.Tags, f.Tags) {
		return false
	}
	if len(f.Platforms) > 0 && !anyOverlap(g.Platform, f.Platforms) {
		return false
	}
	if f.MinPrice != nil && g.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && g.Price > *f.MaxPrice {
		return false
	}
	if f.Discounted && !g.HasDiscount() {
		return false
	}
	return true
}

// sortGames orders the listing; the stable sort keeps catalog insertion order
// (the query's id order) as tie-breaker.
func sortGames(games []models.Game, sortBy string) {
	var less func(a, b models.Game) bool
	switch sortBy {
	case "rating":
		less = func(a, b models.Game) bool { return a.Rating > b.Rating }
	case "releaseDate":
		less = func(a, b models.Game) bool { return a.ReleaseDate.After(b.ReleaseDate) }
	case "popular":
		less = func(a, b models.Game) bool { return a.ReviewsCount > b.ReviewsCount }
	case "price_asc":
		less = func(a, b models.Game) bool { return a.Price < b.Price }
	case "price_desc":
		less = func(a, b models.Game) bool { return a.Price > b.Price }
	default:
		less = func(a, b models.Game) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	}
	sort.SliceStable(games, func(i, j int) bool { return less(games[i], games[j]) })
}

// GetGames lists the catalog with filters and sorting. Read-only; cached per
// query signature.
func GetGames(c *gin.Context) {
	signature := c.Request.URL.RawQuery

	var cached []models.Game
	if err := cache.GetGamesList(signature, &cached); err == nil {
		utils.Log.Debug("Cache HIT: games list")
		c.JSON(http.StatusOK, cached)
		return
	}

	filters := parseGameFilters(c)

	// Set-valued columns are JSON-serialized, so set predicates are applied
	// in memory over the id-ordered catalog rather than in SQL.
	var all []models.Game
	if err := db.DB.Order("id").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}

	games := make([]models.Game, 0, len(all))
	for _, g := range all {
		if filters.match(g) {
			games = append(games, g)
		}
	}
	sortGames(games, filters.SortBy)

	cache.SetGamesList(signature, games)
	c.JSON(http.StatusOK, games)
}

// GetGameByID returns a single catalog record, refreshing its price
// comparison cache first when stale.
func GetGameByID(c *gin.Context) {
	var game models.Game
	if err := db.DB.First(&game, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	Prices.EnsureFreshPrices(c.Request.Context(), &game)
	c.JSON(http.StatusOK, game)
}

// RefreshPrices re-runs the price refresh path for one game. Still
// TTL-guarded: within the freshness window it is a no-op.
func RefreshPrices(c *gin.Context) {
	var game models.Game
	if err := db.DB.First(&game, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	Prices.EnsureFreshPrices(c.Request.Context(), &game)
	cache.InvalidateGamesLists()
	c.JSON(http.StatusOK, game)
}

func distinctValues(pick func(models.Game) []string) ([]string, error) {
	var all []models.Game
	if err := db.DB.Order("id").Find(&all).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var values []string
	for _, g := range all {
		for _, v := range pick(g) {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				values = append(values, v)
			}
		}
	}
	sort.Strings(values)
	return values, nil
}

// GetGenres lists the distinct genres across the catalog.
func GetGenres(c *gin.Context) {
	filterOptions(c, "genres", func(g models.Game) []string { return g.Genre })
}

// GetTags lists the distinct tags across the catalog.
func GetTags(c *gin.Context) {
	filterOptions(c, "tags", func(g models.Game) []string { return g.Tags })
}

func filterOptions(c *gin.Context, kind string, pick func(models.Game) []string) {
	var cached []string
	if err := cache.GetFilterOptions(kind, &cached); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	values, err := distinctValues(pick)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + kind})
		return
	}

	cache.SetFilterOptions(kind, values)
	c.JSON(http.StatusOK, values)
}

// GetDiscounts lists the ten best currently-discounted games.
func GetDiscounts(c *gin.Context) {
	var all []models.Game
	if err := db.DB.Order("id").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}

	var discounted []models.Game
	for _, g := range all {
		if g.HasDiscount() {
			discounted = append(discounted, g)
		}
	}
	sort.SliceStable(discounted, func(i, j int) bool {
		return discounted[i].BestDeal.Savings > discounted[j].BestDeal.Savings
	})
	if len(discounted) > 10 {
		discounted = discounted[:10]
	}
	c.JSON(http.StatusOK, discounted)
}

// GetPopular lists the ten most-reviewed games.
func GetPopular(c *gin.Context) {
	topGames(c, db.DB.Order("reviews_count DESC"))
}

// GetNewReleases lists the ten most recent releases.
func GetNewReleases(c *gin.Context) {
	topGames(c, db.DB.Order("release_date DESC"))
}

func topGames(c *gin.Context, query *gorm.DB) {
	var games []models.Game
	if err := query.Limit(10).Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}
	c.JSON(http.StatusOK, games)
}
