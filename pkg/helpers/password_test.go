package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashedPassword, err := HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
}

func TestCompareHashAndPassword(t *testing.T) {
	password := "password123"
	hashedPassword, _ := HashPassword(password)

	assert.True(t, CompareHashAndPassword(hashedPassword, password))
	assert.False(t, CompareHashAndPassword(hashedPassword, "wrongpassword"))
}

func TestCompareHashAndPassword_InvalidHash(t *testing.T) {
	assert.False(t, CompareHashAndPassword("invalidhash", "password123"))
}
