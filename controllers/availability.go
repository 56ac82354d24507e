package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitterbid-backend/config"
	"sitterbid-backend/models"
	"sitterbid-backend/services"
	"sitterbid-backend/utils"
)

// CreateSlotInput defines the expected JSON structure for adding a slot
type CreateSlotInput struct {
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time" binding:"required"`
	MinRate   float64 `json:"min_rate" binding:"required,min=0"`
}

// GetAvailability lists active slots in a date range (public), each
// annotated with its pending bid count, top bid and booked flag so the
// calendar can badge competition without a second round trip.
func GetAvailability(c *gin.Context) {
	start := c.DefaultQuery("start", "1970-01-01")
	end := c.DefaultQuery("end", "2999-12-31")

	svc := services.NewBidService(config.DB)
	slots, err := svc.ListSlots(start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve availability")
		return
	}
	bids, err := svc.ListBids(start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve availability")
		return
	}

	c.JSON(http.StatusOK, services.SummarizeSlots(slots, bids))
}

// CreateSlot adds an availability window (admin).
func CreateSlot(c *gin.Context) {
	var input CreateSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	start, err := utils.TimeToMinutes(input.StartTime)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid start time")
		return
	}
	end, err := utils.TimeToMinutes(input.EndTime)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid end time")
		return
	}
	if start >= end {
		utils.RespondWithError(c, http.StatusBadRequest, services.ErrInvalidRange.Error())
		return
	}

	slot := models.AvailabilitySlot{
		Date:      input.Date,
		StartTime: utils.MinutesToTime(start),
		EndTime:   utils.MinutesToTime(end),
		MinRate:   input.MinRate,
		IsActive:  true,
	}

	if err := config.DB.Create(&slot).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create slot")
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// RemoveSlot deactivates a slot (admin). Slots are never hard-deleted so
// historic bookings keep their window.
func RemoveSlot(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid slot ID format")
		return
	}

	var slot models.AvailabilitySlot
	if err := config.DB.First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Slot not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&slot).Update("is_active", false).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to remove slot")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot removed successfully"})
}
