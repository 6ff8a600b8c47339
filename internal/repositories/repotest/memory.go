// Package repotest provides in-memory repositories for tests of the layers above the
// database.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
)

// Users is an in-memory UserRepository that also provisions profiles.
type Users struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile
	nextID   uint
}

// NewUsers returns an empty Users store.
func NewUsers() *Users {
	return &Users{
		users:    make(map[uuid.UUID]*models.User),
		profiles: make(map[uuid.UUID]*models.Profile),
	}
}

func (f *Users) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if user.Email != nil && u.EmailValue() == *user.Email {
			return repositories.ErrEmailTaken
		}
		if user.PhoneNumber != nil && u.PhoneValue() == *user.PhoneNumber {
			return repositories.ErrPhoneTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.nextID++
	profile := &models.Profile{UserID: user.ID}
	profile.ID = f.nextID
	profile.UID = uuid.New()
	f.profiles[user.ID] = profile

	user.Profile = profile
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *Users) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *Users) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.EmailValue() == email })
}

func (f *Users) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.PhoneValue() == phone })
}

func (f *Users) FindByIdentifier(ctx context.Context, id models.Identifier) (*models.User, error) {
	if id.IsEmail() {
		return f.FindByEmail(ctx, id.Value)
	}
	return f.FindByPhone(ctx, id.Value)
}

func (f *Users) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f *Users) PhoneExists(ctx context.Context, phone string) (bool, error) {
	_, err := f.FindByPhone(ctx, phone)
	return err == nil, nil
}

// Mutate applies fn to the stored user, e.g. to grant staff rights in a test.
func (f *Users) Mutate(id uuid.UUID, fn func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(u)
	return nil
}

func (f *Users) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return f.Mutate(id, func(u *models.User) { u.PasswordHash = hash })
}

func (f *Users) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	return f.Mutate(id, func(u *models.User) { u.Email = &email })
}

func (f *Users) UpdatePhone(_ context.Context, id uuid.UUID, phone string) error {
	return f.Mutate(id, func(u *models.User) { u.PhoneNumber = &phone })
}

func (f *Users) GetOrCreateByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	if u, err := f.FindByEmail(ctx, email); err == nil {
		return u, false, nil
	}
	user := &models.User{Email: &email, IsActive: true}
	if err := f.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// ProfileCount reports how many profiles exist for userID.
func (f *Users) ProfileCount(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[userID]; ok {
		return 1
	}
	return 0
}

// Profiles exposes the provisioned profiles as a ProfileRepository.
func (f *Users) Profiles() repositories.ProfileRepository {
	return profileView{f}
}

type profileView struct {
	users *Users
}

func (p profileView) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	p.users.mu.Lock()
	defer p.users.mu.Unlock()
	profile, ok := p.users.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (p profileView) Save(_ context.Context, profile *models.Profile) error {
	p.users.mu.Lock()
	defer p.users.mu.Unlock()
	stored := *profile
	p.users.profiles[profile.UserID] = &stored
	return nil
}

// OTPs is an in-memory OTPRepository stamping CreatedAt from now.
type OTPs struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID uint
	otps   []*models.OTP
}

// NewOTPs returns an empty OTPs store.
func NewOTPs(now func() time.Time) *OTPs {
	return &OTPs{now: now}
}

func (f *OTPs) Create(_ context.Context, otp *models.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	otp.ID = f.nextID
	otp.CreatedAt = f.now()
	stored := *otp
	f.otps = append(f.otps, &stored)
	return nil
}

func (f *OTPs) FindActive(_ context.Context, userID uuid.UUID, code string, since time.Time) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matches []*models.OTP
	for _, o := range f.otps {
		if o.UserID == userID && o.Code == code && o.IsActive && !o.CreatedAt.Before(since) {
			matches = append(matches, o)
		}
	}
	if len(matches) == 0 {
		return nil, repositories.ErrNotFound
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	copied := *matches[0]
	return &copied, nil
}

func (f *OTPs) Consume(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.otps {
		if o.ID == id && o.IsActive {
			o.IsActive = false
			return true, nil
		}
	}
	return false, nil
}

// Active returns copies of the codes still marked active.
func (f *OTPs) Active() []models.OTP {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OTP
	for _, o := range f.otps {
		if o.IsActive {
			out = append(out, *o)
		}
	}
	return out
}

// Addresses is an in-memory AddressRepository.
type Addresses struct {
	mu        sync.Mutex
	nextID    uint
	addresses map[uuid.UUID]*models.Address
}

// NewAddresses returns an empty Addresses store.
func NewAddresses() *Addresses {
	return &Addresses{addresses: make(map[uuid.UUID]*models.Address)}
}

func (f *Addresses) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Address{}
	for _, a := range f.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *Addresses) Get(_ context.Context, userID, uid uuid.UUID) (*models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.addresses[uid]
	if !ok || a.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *Addresses) Create(_ context.Context, address *models.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	address.ID = f.nextID
	if address.UID == uuid.Nil {
		address.UID = uuid.New()
	}
	stored := *address
	f.addresses[address.UID] = &stored
	return nil
}

func (f *Addresses) Save(_ context.Context, address *models.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *address
	f.addresses[address.UID] = &stored
	return nil
}

func (f *Addresses) Delete(_ context.Context, userID, uid uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.addresses[uid]
	if !ok || a.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(f.addresses, uid)
	return nil
}

var (
	_ repositories.UserRepository    = (*Users)(nil)
	_ repositories.OTPRepository     = (*OTPs)(nil)
	_ repositories.AddressRepository = (*Addresses)(nil)
)
