package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitterbid-backend/config"
	"sitterbid-backend/models"
	"sitterbid-backend/services"
	"sitterbid-backend/utils"
)

// SubmitBidInput defines the expected JSON structure for a customer bid
type SubmitBidInput struct {
	Date            string   `json:"date" binding:"required"`
	StartTime       string   `json:"start_time" binding:"required"`
	EndTime         string   `json:"end_time" binding:"required"`
	CustomerName    string   `json:"customer_name" binding:"required"`
	CustomerEmail   string   `json:"customer_email"`
	CustomerPhone   string   `json:"customer_phone"`
	NumChildren     int      `json:"num_children"`
	BidAmount       float64  `json:"bid_amount" binding:"required,min=0"`
	Notes           string   `json:"notes"`
	ReferralCode    string   `json:"referral_code"`
	ExpectedMinimum *float64 `json:"expected_minimum"`
}

// PublicBid is a bid stripped of contact details for the open calendar.
type PublicBid struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	BidAmount float64   `json:"bid_amount"`
	Status    string    `json:"status"`
}

func sanitizeBids(bids []models.Booking) []PublicBid {
	out := make([]PublicBid, 0, len(bids))
	for _, b := range bids {
		out = append(out, PublicBid{
			ID:        b.ID,
			Date:      b.Date,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			BidAmount: b.BidAmount,
			Status:    b.Status,
		})
	}
	return out
}

// GetPublicBookings lists bids in a date range without contact details,
// enough for the calendar to show competition and confirmed windows.
func GetPublicBookings(c *gin.Context) {
	start := c.DefaultQuery("start", "1970-01-01")
	end := c.DefaultQuery("end", "2999-12-31")

	svc := services.NewBidService(config.DB)
	bids, err := svc.ListBids(start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, sanitizeBids(bids))
}

// GetMinimumBid returns the effective minimum for a candidate window, so
// the form can hint the floor before submission.
func GetMinimumBid(c *gin.Context) {
	date := c.Query("date")
	startStr := c.Query("start")
	endStr := c.Query("end")
	if date == "" || startStr == "" || endStr == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "date, start and end are required")
		return
	}

	start, err := utils.TimeToMinutes(startStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid start time")
		return
	}
	end, err := utils.TimeToMinutes(endStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid end time")
		return
	}
	if start >= end {
		utils.RespondWithError(c, http.StatusBadRequest, services.ErrInvalidRange.Error())
		return
	}

	svc := services.NewBidService(config.DB)
	minimum, err := svc.CurrentMinimum(date, start, end)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute minimum")
		return
	}

	c.JSON(http.StatusOK, gin.H{"minimum": minimum})
}

// SubmitBid creates a pending bid after validating it against the
// current floor.
func SubmitBid(c *gin.Context) {
	var input SubmitBidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CustomerPhone != "" && !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}
	if input.CustomerEmail != "" && !utils.ValidateEmail(input.CustomerEmail) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid email format")
		return
	}

	svc := services.NewBidService(config.DB)
	refs := services.NewReferralService(config.DB)

	booking, soft, err := svc.SubmitBid(services.BidInput{
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		NumChildren:     input.NumChildren,
		BidAmount:       input.BidAmount,
		Notes:           input.Notes,
		ReferralCode:    input.ReferralCode,
		ExpectedMinimum: input.ExpectedMinimum,
	}, refs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if soft != nil {
		// Best-effort accounting: the booking stands either way.
		log.Printf("referral usage not recorded: %v", soft)
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBookingStatus lists a customer's bids by the email they booked with.
func GetBookingStatus(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "email is required")
		return
	}

	svc := services.NewBidService(config.DB)
	bids, err := svc.ListBidsByEmail(email)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bids)
}

// authorizeCustomer checks the booking belongs to the email in the
// request body. The email used at booking time doubles as the
// authorisation token. On failure the response has been written.
func authorizeCustomer(c *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return uuid.Nil, false
	}

	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return uuid.Nil, false
	}

	var booking models.Booking
	if err := config.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		return uuid.Nil, false
	}
	if booking.CustomerEmail == nil ||
		!strings.EqualFold(strings.TrimSpace(input.Email), *booking.CustomerEmail) {
		utils.RespondWithError(c, http.StatusForbidden, "Email does not match this booking")
		return uuid.Nil, false
	}
	return bookingID, true
}

// CancelBooking handles a customer cancellation. A pending bid is
// withdrawn for free; a confirmed one gets the tiered fee.
func CancelBooking(c *gin.Context) {
	bookingID, ok := authorizeCustomer(c)
	if !ok {
		return
	}

	svc := services.NewBidService(config.DB)
	cancelled, err := svc.CancelBooking(bookingID, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cancelled)
}

// WithdrawBid pulls a still-pending bid off the table. Unlike a
// cancellation it never computes a fee; a bid that has already been
// confirmed must go through the cancel path instead.
func WithdrawBid(c *gin.Context) {
	bookingID, ok := authorizeCustomer(c)
	if !ok {
		return
	}

	svc := services.NewBidService(config.DB)
	withdrawn, err := svc.WithdrawBid(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, withdrawn)
}

// PreviewCancellation quotes the fee a cancellation would incur right
// now, without changing anything.
func PreviewCancellation(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := config.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		return
	}
	if booking.Status != models.StatusConfirmed {
		c.JSON(http.StatusOK, gin.H{"tier": nil, "fee": 0})
		return
	}

	tier, fee, err := services.CancellationTier(&booking, time.Now())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute fee")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tier": tier, "fee": fee})
}
