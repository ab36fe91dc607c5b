package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mist/utils"
)

// CompareDeals exposes the price comparator directly: the normalized offer
// list for a free-text title, without touching any catalog record.
func CompareDeals(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	deals, err := Prices.Compare(c.Request.Context(), title)
	if err != nil {
		utils.Log.WithField("title", title).WithError(err).Warn("Deals comparison failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Deals source unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":  title,
		"prices": deals,
	})
}
