package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sitterbid-backend/config"
	"sitterbid-backend/models"
)

type RecentBid struct {
	CustomerName string  `json:"customer_name"`
	Date         string  `json:"date"`
	BidAmount    float64 `json:"bid_amount"`
	Status       string  `json:"status"`
	Placed       string  `json:"placed"` // e.g. "Today", "Yesterday"
}

type PendingDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GetDashboardOverview returns the admin landing-page aggregates:
// available days, pending/confirmed counts, confirmed bid value, the
// latest bids and the dates waiting on a decision.
func GetDashboardOverview(c *gin.Context) {
	// Available days: distinct dates with an active slot
	var availableDays int64
	config.DB.Model(&models.AvailabilitySlot{}).
		Where("is_active = ?", true).
		Distinct("date").
		Count(&availableDays)

	// Pending and confirmed bid counts
	var pendingCount int64
	config.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusPending).
		Count(&pendingCount)

	var confirmedCount int64
	config.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusConfirmed).
		Count(&confirmedCount)

	// Confirmed bid value
	var totalBidValue float64
	config.DB.Model(&models.Booking{}).
		Where("status = ?", models.StatusConfirmed).
		Select("COALESCE(SUM(bid_amount), 0)").Scan(&totalBidValue)

	// Latest bids
	var latest []models.Booking
	config.DB.Order("created_at DESC").Limit(5).Find(&latest)

	recentBids := make([]RecentBid, 0, len(latest))
	for _, b := range latest {
		daysAgo := int(time.Since(b.CreatedAt).Hours() / 24)
		var placed string
		switch daysAgo {
		case 0:
			placed = "Today"
		case 1:
			placed = "Yesterday"
		default:
			placed = fmt.Sprintf("%d days ago", daysAgo)
		}
		recentBids = append(recentBids, RecentBid{
			CustomerName: b.CustomerName,
			Date:         b.Date,
			BidAmount:    b.BidAmount,
			Status:       b.Status,
			Placed:       placed,
		})
	}

	// Dates with pending bids awaiting a decision
	var pendingDays []PendingDay
	config.DB.Raw(`
        SELECT date, COUNT(*) as count FROM bookings
        WHERE status = ?
        GROUP BY date
        ORDER BY date
    `, models.StatusPending).Scan(&pendingDays)

	c.JSON(http.StatusOK, gin.H{
		"availableDays":  availableDays,
		"pendingCount":   pendingCount,
		"confirmedCount": confirmedCount,
		"totalBidValue":  totalBidValue,
		"recentBids":     recentBids,
		"pendingDays":    pendingDays,
	})
}
