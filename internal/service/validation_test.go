package service

import (
	"testing"

	"github.com/VibeBuddies/vibecheck-service/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestFirstViolation_OrderDecidesMessage(t *testing.T) {
	rules := []rule{
		{ok: func() bool { return false }, message: "first"},
		{ok: func() bool { return false }, message: "second"},
	}

	err := firstViolation(rules)

	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	assert.EqualError(t, err, "first")
}

func TestFirstViolation_AllPass(t *testing.T) {
	rules := []rule{
		{ok: func() bool { return true }, message: "never"},
	}

	assert.NoError(t, firstViolation(rules))
}
