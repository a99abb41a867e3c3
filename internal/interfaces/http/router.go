package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/invitation"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Ledger      *invitation.Ledger
	CompanyUC   *usecase.CompanyUseCase
	ProductUC   *usecase.ProductUseCase
	QuotationUC *quotation.UseCase
	MailAuthUC  *usecase.MailAuthUseCase
	SupportUC   *usecase.SupportUseCase
	TTL         InvitationTTL
}

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name         string
	AllowOrigins string
}

// NewApp crea la app Fiber con recover, CORS y log de peticiones.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   cfg.Name,
		BodyLimit: 4 * 1024 * 1024,
	})
	app.Use(recover.New())
	if cfg.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}
	app.Use(RequestLogger(log))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.AuthUC)

	// Auth (público salvo logout)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authMW, authHandler.Logout)

	invHandler := NewInvitationHandler(deps.Ledger, deps.AuthUC, deps.TTL)
	api.Post("/codigo/seguridad", invHandler.Bootstrap)

	// OAuth2 Gmail: authorize lleva el token como query param, callback lo trae en state
	oauthHandler := NewOAuthHandler(deps.MailAuthUC)
	api.Get("/oauth2/authorize", oauthHandler.Authorize)
	api.Get("/oauth2/callback", oauthHandler.Callback)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	supportHandler := NewSupportHandler(deps.SupportUC)

	// Administrador
	admin := api.Group("/admin", authMW, RequireAdmin())
	admin.Post("/codigos", invHandler.Issue)
	admin.Get("/codigos", invHandler.List)
	admin.Delete("/codigos/:id", invHandler.Revoke)
	admin.Get("/empresas", companyHandler.List)
	admin.Get("/soporte", supportHandler.List)
	admin.Post("/soporte/:id/responder", supportHandler.Answer)

	// Empresa autenticada
	tenantMW := RequireTenant()
	api.Get("/empresa/me", authMW, tenantMW, companyHandler.Me)
	api.Post("/soporte", authMW, tenantMW, supportHandler.Submit)

	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/productos", authMW, tenantMW)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	quotationHandler := NewQuotationHandler(deps.QuotationUC)
	quotes := api.Group("/cotizaciones", authMW, tenantMW)
	quotes.Post("/", quotationHandler.Create)
	quotes.Get("/", quotationHandler.List)
	quotes.Get("/:id", quotationHandler.GetByID)
	quotes.Get("/:id/pdf", quotationHandler.Document)
	quotes.Put("/:id", quotationHandler.Update)
	quotes.Delete("/:id", quotationHandler.Delete)
}
