package user

import (
	"agriVest/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPasswordPolicy(t *testing.T) {
	assert.NoError(t, checkPasswordPolicy("Gr33n-Fields!", "ada", "ada@farm.test"))

	err := checkPasswordPolicy("1234", "ada", "ada@farm.test")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "too short")
	assert.ErrorContains(t, err, "entirely numeric")

	assert.ErrorContains(t, checkPasswordPolicy("Password", "ada", "ada@farm.test"), "too common")
	assert.ErrorContains(t, checkPasswordPolicy("mr-okonkwo-2024", "okonkwo", "x@farm.test"), "username")
	assert.ErrorContains(t, checkPasswordPolicy("chiamaka-rocks", "cc", "chiamaka@farm.test"), "email address")
}
