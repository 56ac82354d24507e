// services/referral.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitterbid-backend/models"
)

var (
	ErrCodeNotFound = errors.New("referral code not found")
	ErrCodeExists   = errors.New("referral code already exists")
	ErrBadDiscount  = errors.New("discount must be between 1 and 50 percent")
)

// ReferralUsageError is a soft failure: the usage counter could not be
// incremented, but the booking that applied the code went through.
type ReferralUsageError struct {
	Code string
	Err  error
}

func (e *ReferralUsageError) Error() string {
	return fmt.Sprintf("failed to record usage of referral code %s: %v", e.Code, e.Err)
}

func (e *ReferralUsageError) Unwrap() error { return e.Err }

// ReferralService manages discount codes.
type ReferralService struct {
	db *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{db: db}
}

// NormalizeCode strips all whitespace and uppercases, so "  friend10 "
// and "FRIEND10" resolve to the same record.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// Lookup finds an active code, case-insensitively.
func (s *ReferralService) Lookup(code string) (*models.ReferralCode, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrCodeNotFound
	}
	var ref models.ReferralCode
	err := s.db.Where("code = ? AND is_active = ?", normalized, true).First(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// RecordUsage increments the code's usage counter. Returns a soft error
// the caller should log but must not fail the booking on.
func (s *ReferralService) RecordUsage(code string) *ReferralUsageError {
	normalized := NormalizeCode(code)
	res := s.db.Model(&models.ReferralCode{}).
		Where("code = ? AND is_active = ?", normalized, true).
		Update("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return &ReferralUsageError{Code: normalized, Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &ReferralUsageError{Code: normalized, Err: ErrCodeNotFound}
	}
	return nil
}

// CreateCode registers a new referral code.
func (s *ReferralService) CreateCode(code, referrerName string, referrerEmail *string, discountPercent int) (*models.ReferralCode, error) {
	normalized := NormalizeCode(code)
	if normalized == "" || strings.TrimSpace(referrerName) == "" {
		return nil, ErrMissingField
	}
	if discountPercent < 1 || discountPercent > 50 {
		return nil, ErrBadDiscount
	}

	var existing models.ReferralCode
	err := s.db.Where("code = ?", normalized).First(&existing).Error
	if err == nil {
		return nil, ErrCodeExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ref := &models.ReferralCode{
		Code:            normalized,
		ReferrerName:    strings.TrimSpace(referrerName),
		ReferrerEmail:   referrerEmail,
		DiscountPercent: discountPercent,
		IsActive:        true,
	}
	if err := s.db.Create(ref).Error; err != nil {
		return nil, err
	}
	return ref, nil
}

// SetActive enables or disables a code.
func (s *ReferralService) SetActive(id uuid.UUID, active bool) (*models.ReferralCode, error) {
	var ref models.ReferralCode
	if err := s.db.First(&ref, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	ref.IsActive = active
	if err := s.db.Save(&ref).Error; err != nil {
		return nil, err
	}
	return &ref, nil
}

// ListCodes returns every code, newest first.
func (s *ReferralService) ListCodes() ([]models.ReferralCode, error) {
	var refs []models.ReferralCode
	err := s.db.Order("created_at DESC").Find(&refs).Error
	return refs, err
}
