package main

import (
	"strings"

	"github.com/example/salon/internal/models"
)

func newSuperuser(email, phone, hash string) *models.User {
	user := &models.User{
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if email = models.NormalizeEmail(email); email != "" {
		user.Email = &email
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		user.PhoneNumber = &phone
	}
	return user
}
