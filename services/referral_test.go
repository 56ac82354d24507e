package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	// " friend10 " and "FRIEND10" resolve to the same code
	assert.Equal(t, "FRIEND10", NormalizeCode("  friend10 "))
	assert.Equal(t, "FRIEND10", NormalizeCode("FRIEND10"))
	assert.Equal(t, "FRIEND10", NormalizeCode("Friend 10"))
	assert.Equal(t, "", NormalizeCode("   "))
	assert.Equal(t, "", NormalizeCode(""))
}

func TestReferralUsageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &ReferralUsageError{Code: "FRIEND10", Err: cause}

	assert.Contains(t, err.Error(), "FRIEND10")
	assert.ErrorIs(t, err, cause)
}
