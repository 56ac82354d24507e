package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitterbid-backend/config"
	"sitterbid-backend/services"
	"sitterbid-backend/utils"
)

// GetAllBookings lists every bid, full detail, newest dates first (admin).
func GetAllBookings(c *gin.Context) {
	svc := services.NewBidService(config.DB)
	bids, err := svc.ListAllBids()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := bids[:0]
		for _, b := range bids {
			if b.Status == status {
				filtered = append(filtered, b)
			}
		}
		bids = filtered
	}

	c.JSON(http.StatusOK, bids)
}

// AcceptBid confirms a pending bid and auto-declines the overlapping
// competition.
func AcceptBid(c *gin.Context) {
	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	svc := services.NewBidService(config.DB)
	accepted, err := svc.AcceptBid(bidID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, accepted)
}

// DeclineBid rejects a single pending bid.
func DeclineBid(c *gin.Context) {
	bidID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	svc := services.NewBidService(config.DB)
	declined, err := svc.DeclineBid(bidID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, declined)
}

// AdminCancelBooking cancels fee-free on the sitter's behalf, storing the
// reason.
func AdminCancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	// The reason body is optional.
	_ = c.ShouldBindJSON(&input)

	svc := services.NewBidService(config.DB)
	cancelled, err := svc.AdminCancelBooking(bookingID, input.Reason, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cancelled)
}
