package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
)

const dateLayout = "2006-01-02"

// ProfileHandler manages user profile and address endpoints.
type ProfileHandler struct {
	profiles  repositories.ProfileRepository
	addresses repositories.AddressRepository
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles repositories.ProfileRepository, addresses repositories.AddressRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, addresses: addresses}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.loadProfile(c, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": profile})
}

type updateProfileRequest struct {
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,url"`
	DateOfBirth    *string `json:"date_of_birth"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=M F O N"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,max=15"`
	IsVerified     *bool   `json:"is_verified"`
}

// UpdateProfile applies the provided fields and leaves the rest unchanged.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	profile, err := h.loadProfile(c, userID)
	if err != nil {
		return err
	}

	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.ProfilePicture != nil {
		profile.ProfilePicture = req.ProfilePicture
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			profile.DateOfBirth = nil
		} else {
			dob, err := time.Parse(dateLayout, *req.DateOfBirth)
			if err != nil {
				return models.NewFieldError("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.")
			}
			profile.DateOfBirth = &dob
		}
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = req.PhoneNumber
	}
	if req.IsVerified != nil {
		profile.IsVerified = *req.IsVerified
	}

	if err := h.profiles.Save(c.UserContext(), profile); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": profile})
}

func (h *ProfileHandler) loadProfile(c *fiber.Ctx, userID uuid.UUID) (*models.Profile, error) {
	profile, err := h.profiles.FindByUserID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Profile not found.")
		}
		return nil, err
	}
	return profile, nil
}

// Address endpoints

// ListAddresses returns the user's addresses.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	addresses, err := h.addresses.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": addresses})
}

type addressRequest struct {
	Title      *string  `json:"title" validate:"omitempty,max=100"`
	Address    *string  `json:"address"`
	City       *string  `json:"city" validate:"omitempty,max=100"`
	State      *string  `json:"state" validate:"omitempty,max=100"`
	Country    *string  `json:"country" validate:"omitempty,max=100"`
	PostalCode *string  `json:"postal_code" validate:"omitempty,max=20"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (r addressRequest) apply(a *models.Address) {
	if r.Title != nil {
		a.Title = r.Title
	}
	if r.Address != nil {
		a.Address = r.Address
	}
	if r.City != nil {
		a.City = r.City
	}
	if r.State != nil {
		a.State = r.State
	}
	if r.Country != nil {
		a.Country = r.Country
	}
	if r.PostalCode != nil {
		a.PostalCode = r.PostalCode
	}
	if r.Latitude != nil {
		a.Latitude = r.Latitude
	}
	if r.Longitude != nil {
		a.Longitude = r.Longitude
	}
}

// CreateAddress creates an address for the user.
func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	address := models.Address{UserID: userID}
	req.apply(&address)
	if err := h.addresses.Create(c.UserContext(), &address); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": address})
}

// GetAddress returns one of the user's addresses by uid.
func (h *ProfileHandler) GetAddress(c *fiber.Ctx) error {
	address, err := h.ownedAddress(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": address})
}

// UpdateAddress applies the provided fields to one of the user's addresses.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	address, err := h.ownedAddress(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	req.apply(address)
	if err := h.addresses.Save(c.UserContext(), address); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": address})
}

// DeleteAddress removes one of the user's addresses.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	uid, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "address not found")
	}

	if err := h.addresses.Delete(c.UserContext(), userID, uid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "address not found")
		}
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProfileHandler) ownedAddress(c *fiber.Ctx) (*models.Address, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "address not found")
	}

	address, err := h.addresses.Get(c.UserContext(), userID, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "address not found")
		}
		return nil, err
	}
	return address, nil
}
