package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		kind  IdentifierKind
		value string
	}{
		{name: "email", raw: "Jane@Example.COM", kind: IdentifierEmail, value: "Jane@example.com"},
		{name: "phone", raw: "1234567890", kind: IdentifierPhone, value: "1234567890"},
		{name: "trimmed phone", raw: "  1234567890 ", kind: IdentifierPhone, value: "1234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseIdentifier(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, id.Kind)
			assert.Equal(t, tt.value, id.Value)
		})
	}
}

func TestParseIdentifierEmpty(t *testing.T) {
	_, err := ParseIdentifier("   ")
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestCouponClean(t *testing.T) {
	bad := Coupon{CouponCode: "SAVE", DiscountPrice: 600, MinimumAmount: 500}
	err := bad.Clean()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Discount price must be less than the minimum amount."}, verr.Fields[NonFieldErrors])

	equal := Coupon{DiscountPrice: 500, MinimumAmount: 500}
	assert.Error(t, equal.Clean())

	good := Coupon{DiscountPrice: 100, MinimumAmount: 500}
	assert.NoError(t, good.Clean())
}

func TestUserString(t *testing.T) {
	email := "a@b.com"
	phone := "1234567890"

	assert.Equal(t, "a@b.com", (&User{Email: &email, PhoneNumber: &phone}).String())
	assert.Equal(t, "1234567890", (&User{PhoneNumber: &phone}).String())
}
