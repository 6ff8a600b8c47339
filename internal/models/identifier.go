package models

import (
	"errors"
	"strings"
)

// IdentifierKind tells which user column an identifier refers to.
type IdentifierKind int

const (
	IdentifierEmail IdentifierKind = iota + 1
	IdentifierPhone
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierEmail:
		return "email"
	case IdentifierPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// ErrEmptyIdentifier is returned when an identifier is blank.
var ErrEmptyIdentifier = errors.New("identifier is required")

// Identifier is a login handle resolved once at the request boundary: either an email
// address or a phone number.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// EmailIdentifier builds an email identifier with a normalized domain.
func EmailIdentifier(email string) Identifier {
	return Identifier{Kind: IdentifierEmail, Value: NormalizeEmail(email)}
}

// PhoneIdentifier builds a phone identifier.
func PhoneIdentifier(phone string) Identifier {
	return Identifier{Kind: IdentifierPhone, Value: strings.TrimSpace(phone)}
}

// ParseIdentifier classifies raw input: anything containing "@" is an email.
func ParseIdentifier(raw string) (Identifier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identifier{}, ErrEmptyIdentifier
	}
	if strings.Contains(raw, "@") {
		return EmailIdentifier(raw), nil
	}
	return PhoneIdentifier(raw), nil
}

// IsEmail reports whether the identifier is an email address.
func (i Identifier) IsEmail() bool { return i.Kind == IdentifierEmail }

// IsPhone reports whether the identifier is a phone number.
func (i Identifier) IsPhone() bool { return i.Kind == IdentifierPhone }

func (i Identifier) String() string { return i.Value }

// NormalizeEmail lower-cases the domain part and leaves the local part untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
