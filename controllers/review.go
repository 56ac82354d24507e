package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitterbid-backend/config"
	"sitterbid-backend/models"
	"sitterbid-backend/utils"
)

// CreateReviewInput defines the expected JSON structure for a testimonial
type CreateReviewInput struct {
	ParentName string `json:"parent_name" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"review_text" binding:"required"`
}

// GetVisibleReviews lists the testimonials shown on the public site.
func GetVisibleReviews(c *gin.Context) {
	var reviews []models.Review
	if err := config.DB.
		Where("is_visible = ?", true).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetAllReviews lists every testimonial, hidden ones included (admin).
func GetAllReviews(c *gin.Context) {
	var reviews []models.Review
	if err := config.DB.Order("created_at DESC").Find(&reviews).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview adds a testimonial (admin).
func CreateReview(c *gin.Context) {
	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	review := models.Review{
		ParentName: input.ParentName,
		Rating:     input.Rating,
		ReviewText: input.ReviewText,
		IsVisible:  true,
	}

	if err := config.DB.Create(&review).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ToggleReview shows or hides a testimonial (admin).
func ToggleReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	var input struct {
		IsVisible *bool `json:"is_visible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var review models.Review
	if err := config.DB.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Review not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Model(&review).Update("is_visible", *input.IsVisible).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update review")
		return
	}
	review.IsVisible = *input.IsVisible

	c.JSON(http.StatusOK, review)
}

// DeleteReview removes a testimonial (admin).
func DeleteReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	result := config.DB.Delete(&models.Review{}, "id = ?", reviewID)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Review not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
