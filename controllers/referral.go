package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitterbid-backend/config"
	"sitterbid-backend/services"
	"sitterbid-backend/utils"
)

// CreateReferralInput defines the expected JSON structure for a new code
type CreateReferralInput struct {
	Code            string  `json:"referral_code" binding:"required"`
	ReferrerName    string  `json:"referrer_name" binding:"required"`
	ReferrerEmail   *string `json:"referrer_email"`
	DiscountPercent int     `json:"discount_percent" binding:"required,min=1,max=50"`
}

// CheckReferral validates a code for the booking form (public). Lookup is
// case-insensitive and whitespace-tolerant.
func CheckReferral(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "code is required")
		return
	}

	svc := services.NewReferralService(config.DB)
	ref, err := svc.Lookup(code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code":    ref.Code,
		"discount_percent": ref.DiscountPercent,
	})
}

// GetReferrals lists every code with usage counts (admin).
func GetReferrals(c *gin.Context) {
	svc := services.NewReferralService(config.DB)
	refs, err := svc.ListCodes()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve referral codes")
		return
	}

	c.JSON(http.StatusOK, refs)
}

// CreateReferral registers a new code (admin).
func CreateReferral(c *gin.Context) {
	var input CreateReferralInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewReferralService(config.DB)
	ref, err := svc.CreateCode(input.Code, input.ReferrerName, input.ReferrerEmail, input.DiscountPercent)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ref)
}

// ToggleReferral enables or disables a code (admin).
func ToggleReferral(c *gin.Context) {
	refID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid referral ID format")
		return
	}

	active, err := strconv.ParseBool(c.DefaultQuery("active", "true"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid active value")
		return
	}

	svc := services.NewReferralService(config.DB)
	ref, err := svc.SetActive(refID, active)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ref)
}
