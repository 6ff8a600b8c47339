// Package repositories holds the gorm-backed stores. Every store returns ErrNotFound
// instead of gorm.ErrRecordNotFound so callers never depend on gorm error values.
package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
