package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"mist/db"
	"mist/models"
)

// GetStats reports platform-wide counts. Each count is an independent query,
// so they run in parallel.
func GetStats(c *gin.Context) {
	var totalUsers, totalGames, totalPurchases int64
	statusCounts := make(map[string]int64, len(models.StatusOrder))
	var mu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(3 + len(models.StatusOrder))

	go func() {
		defer wg.Done()
		db.DB.Model(&models.User{}).Count(&totalUsers)
	}()
	go func() {
		defer wg.Done()
		db.DB.Model(&models.Game{}).Count(&totalGames)
	}()
	go func() {
		defer wg.Done()
		db.DB.Model(&models.Purchase{}).Count(&totalPurchases)
	}()
	for _, status := range models.StatusOrder {
		go func(status string) {
			defer wg.Done()
			var n int64
			db.DB.Model(&models.Purchase{}).Where("status = ?", status).Count(&n)
			mu.Lock()
			statusCounts[status] = n
			mu.Unlock()
		}(status)
	}
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{
		"total_users":     totalUsers,
		"total_games":     totalGames,
		"total_purchases": totalPurchases,
		"by_status":       statusCounts,
	})
}
