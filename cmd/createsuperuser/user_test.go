package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuperuser(t *testing.T) {
	user := newSuperuser("  Admin@Example.COM ", "", "hash")

	require.NotNil(t, user.Email)
	assert.Equal(t, "Admin@example.com", *user.Email)
	assert.Nil(t, user.PhoneNumber)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestNewSuperuserPhoneOnly(t *testing.T) {
	user := newSuperuser("", "1234567890", "hash")

	assert.Nil(t, user.Email)
	require.NotNil(t, user.PhoneNumber)
	assert.Equal(t, "1234567890", *user.PhoneNumber)
}
