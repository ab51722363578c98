// Package http wires the Fiber handlers and middleware for the REST API.
package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nabl-labs/accounts-api/internal/application/auth"
	"github.com/nabl-labs/accounts-api/internal/application/usecase"
	"github.com/nabl-labs/accounts-api/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	OrganizationUC *usecase.OrganizationUseCase
	KeyUC          *usecase.KeyUseCase
	LocationUC     *usecase.LocationUseCase
	Log            *logger.Logger
	Production     bool
	MinPassword    int
	CookieMaxAge   time.Duration
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	r := newResponder(deps.Log, deps.Production)

	authHandler := NewAuthHandler(deps.AuthUC, r, deps.MinPassword, deps.CookieMaxAge, deps.Production)
	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC, r)
	orgHandler := NewOrganizationHandler(deps.OrganizationUC, r)
	keyHandler := NewKeyHandler(deps.KeyUC, r)
	locationHandler := NewLocationHandler(deps.LocationUC, r)

	requireAuth := RequireAuth(deps.AuthUC, r)
	requireManager := RequireManager(r)
	requireAdmin := RequireAdmin(r)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Users: public auth endpoints first, then protected profile routes.
	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)
	users.Post("/logout", authHandler.Logout)
	users.Post("/forgot-password", authHandler.ForgotPassword)
	users.Post("/reset-password", authHandler.ResetPassword)

	users.Get("/profile", requireAuth, userHandler.Profile)
	users.Put("/profile", requireAuth, userHandler.UpdateProfile)
	users.Post("/change-password", requireAuth, authHandler.ChangePassword)
	users.Post("/user-type", requireAuth, userHandler.SaveUserType)
	users.Get("/user-type", requireAuth, userHandler.GetUserType)

	users.Get("/all", requireAuth, requireManager, userHandler.List)
	users.Post("/add", requireAuth, requireManager, userHandler.Add)
	users.Get("/admin/:id", requireAuth, requireAdmin, userHandler.GetByID)

	// Organizations: listing is manager-only, single reads need only auth,
	// writes are admin-only.
	orgs := api.Group("/organizations", requireAuth)
	orgs.Get("/", requireManager, orgHandler.List)
	orgs.Get("/:id", orgHandler.Get)
	orgs.Post("/", requireAdmin, orgHandler.Create)
	orgs.Put("/:id", requireAdmin, orgHandler.Update)
	orgs.Delete("/:id", requireAdmin, orgHandler.Delete)

	// Keys.
	keys := api.Group("/keys", requireAuth)
	keys.Get("/my-keys", keyHandler.MyKeys)
	keys.Get("/all", requireManager, keyHandler.ListAll)
	keys.Post("/", keyHandler.Create)
	keys.Get("/:id", keyHandler.Get)
	keys.Put("/:id", keyHandler.Update)
	keys.Delete("/:id", keyHandler.Delete)

	// Locations. Literal segments are registered before the ":id" routes so
	// Fiber matches them first.
	locations := api.Group("/locations", requireAuth)
	locations.Get("/my-locations", locationHandler.MyLocations)
	locations.Get("/primary/location", locationHandler.Primary)
	locations.Get("/type/:locationType", locationHandler.ByType)
	locations.Get("/all", requireManager, locationHandler.ListAll)
	locations.Post("/", locationHandler.Create)
	locations.Get("/:id", locationHandler.Get)
	locations.Put("/:id", locationHandler.Update)
	locations.Put("/:id/set-primary", locationHandler.SetPrimary)
	locations.Delete("/:id", locationHandler.Delete)
}
