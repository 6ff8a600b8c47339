package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/handlers"
	"github.com/example/salon/internal/middleware"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/services"
)

// Dependencies holds everything the routes need. Tests may build it by hand.
type Dependencies struct {
	Config *config.Config
	Log    *zap.Logger

	Users     repositories.UserRepository
	Profiles  repositories.ProfileRepository
	Addresses repositories.AddressRepository
	Catalog   *repositories.Catalog

	Auth   *services.AuthService
	OTP    *services.OTPService
	Reset  *services.PasswordResetService
	Social *services.SocialService
	Ranker *services.ShopRanker

	// LimitStorage backs the rate limiter; nil keeps counters in memory.
	LimitStorage fiber.Storage
}

// NewDependencies wires gorm repositories and services.
func NewDependencies(db *gorm.DB, cfg *config.Config, log *zap.Logger, limitStorage fiber.Storage) *Dependencies {
	users := repositories.NewUserRepository(db)
	catalog := repositories.NewCatalog(db)
	sms := services.NewLogNotifier(log)
	mailer := services.NewMailer(cfg, log)

	auth := services.NewAuthService(users, cfg, log)
	resetTokens := services.NewResetTokenGenerator(cfg.JWTSecret, cfg.PasswordResetTTL)

	return &Dependencies{
		Config:       cfg,
		Log:          log,
		Users:        users,
		Profiles:     repositories.NewProfileRepository(db),
		Addresses:    repositories.NewAddressRepository(db),
		Catalog:      catalog,
		Auth:         auth,
		OTP:          services.NewOTPService(users, repositories.NewOTPRepository(db), auth, sms, cfg, log),
		Reset:        services.NewPasswordResetService(users, resetTokens, mailer, sms, cfg, log),
		Social:       services.NewSocialService(users, auth, cfg, log),
		Ranker:       services.NewShopRanker(catalog, services.NewDistanceMatrixClient(cfg)),
		LimitStorage: limitStorage,
	}
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps *Dependencies) {
	cfg := deps.Config

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.OTP)
	accountHandler := handlers.NewAccountHandler(deps.Auth)
	resetHandler := handlers.NewPasswordResetHandler(deps.Reset)
	socialHandler := handlers.NewSocialHandler(deps.Social)
	profileHandler := handlers.NewProfileHandler(deps.Profiles, deps.Addresses)

	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret)
	limit := middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, deps.LimitStorage)

	app.Get("/", handlers.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/registration", authHandler.Register)
	auth.Post("/login", limit, authHandler.Login)
	auth.Post("/token/refresh", authHandler.RefreshToken)
	auth.Post("/token/verify", authHandler.VerifyToken)
	auth.Post("/send-otp", limit, authHandler.SendOTP)
	auth.Post("/verify-otp", limit, authHandler.VerifyOTP)

	auth.Post("/password/reset", limit, resetHandler.RequestReset)
	auth.Post("/password-reset/confirm/:uid/:token", resetHandler.ConfirmReset)

	auth.Post("/google", socialHandler.Google)
	auth.Post("/facebook", socialHandler.Facebook)
	auth.Get("/result", socialHandler.GoogleCallback)

	auth.Post("/change-password", requireAuth, accountHandler.ChangePassword)
	auth.Post("/update-email", requireAuth, accountHandler.UpdateEmail)
	auth.Post("/update-phone", requireAuth, accountHandler.UpdatePhone)

	// Profile and addresses
	auth.Get("/profile", requireAuth, profileHandler.GetProfile)
	auth.Put("/profile", requireAuth, profileHandler.UpdateProfile)
	auth.Patch("/profile", requireAuth, profileHandler.UpdateProfile)

	addresses := auth.Group("/addresses", requireAuth)
	addresses.Get("/", profileHandler.ListAddresses)
	addresses.Post("/", profileHandler.CreateAddress)
	addresses.Get("/:uid", profileHandler.GetAddress)
	addresses.Put("/:uid", profileHandler.UpdateAddress)
	addresses.Patch("/:uid", profileHandler.UpdateAddress)
	addresses.Delete("/:uid", profileHandler.DeleteAddress)

	if deps.Catalog != nil {
		registerCatalog(app, deps, requireAuth)
	}
}

func registerCatalog(app *fiber.App, deps *Dependencies, requireAuth fiber.Handler) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	nearestHandler := handlers.NewNearestShopHandler(deps.Ranker)
	staff := []fiber.Handler{requireAuth, middleware.RequireStaff(deps.Users)}

	service := app.Group("/service")

	service.Post("/coupons/validate", catalogHandler.ValidateCoupon)
	service.Get("/nearest-shops", nearestHandler.Nearest)

	mountCRUD(service, "/categories", catalogHandler.Categories, staff)
	mountCRUD(service, "/shops", catalogHandler.Shops, staff)
	mountCRUD(service, "/services", catalogHandler.Services, staff)
	mountCRUD(service, "/coupons", catalogHandler.Coupons, staff)

	service.Get("/services/:id/reviews", catalogHandler.ListReviews)
	service.Post("/services/:id/reviews", requireAuth, catalogHandler.CreateReview)

	service.Get("/time-slots", catalogHandler.TimeSlots.List)
	service.Post("/time-slots", with(staff, catalogHandler.TimeSlots.Create)...)

	service.Get("/service-addresses", catalogHandler.ServiceAddresses.List)
}

func mountCRUD[T any](r fiber.Router, path string, res *handlers.Resource[T], guard []fiber.Handler) {
	r.Get(path, res.List)
	r.Get(path+"/:id", res.Get)
	r.Post(path, with(guard, res.Create)...)
	r.Put(path+"/:id", with(guard, res.Update)...)
	r.Patch(path+"/:id", with(guard, res.Update)...)
	r.Delete(path+"/:id", with(guard, res.Delete)...)
}

func with(guard []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guard)+1)
	out = append(out, guard...)
	return append(out, h)
}
