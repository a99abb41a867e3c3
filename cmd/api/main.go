package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/invitation"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/branding"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/gmail"
	infrapdf "github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Cotizador-api/internal/interfaces/http"
	"github.com/jhoicas/Cotizador-api/pkg/config"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	invitationRepo := postgres.NewInvitationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	supportRepo := postgres.NewSupportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	objects, err := newObjectStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}

	ledger := invitation.NewLedger(invitationRepo, txRunner)
	authUC := auth.NewAuthUseCase(
		companyRepo, ledger, txRunner, objects,
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.AdminCredentials{Email: cfg.Admin.Email, Password: cfg.Admin.Password},
		auth.RegistrationPolicy{RollbackOnFailure: cfg.Invitation.RollbackOnFailure},
		log,
	)
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD vacíos: el inicio de sesión de administrador queda deshabilitado")
	}

	gmailCfg := gmail.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		TokenURL:     cfg.Google.TokenURL,
		APIEndpoint:  cfg.Google.GmailAPIURL,
	}

	// PDF: el logo se lee de la URL http(s) o, con almacenamiento local, de su directorio
	logoRoot := ""
	if cfg.Storage.Driver != "s3" {
		logoRoot = cfg.Storage.LocalDir
	}
	logos := branding.NewLogoFetcher(branding.NewPublicClient(10*time.Second), afero.NewOsFs(), logoRoot, log)
	quotationUC := quotation.NewUseCase(quotation.Deps{
		Products: productRepo,
		Repo:     quotationRepo,
		Tx:       txRunner,
		Renderer: infrapdf.NewQuotationRenderer(logos),
		Archive:  objects,
		Mailer:   gmail.NewDispatcher(gmailCfg, log),
		Log:      log,
	})

	mailAuthUC := usecase.NewMailAuthUseCase(companyRepo, gmail.NewAuthorizer(gmailCfg), authUC, cfg.Google.FrontendURL, log)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		AllowOrigins: cfg.HTTP.AllowOrigins,
	}, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotizador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Ledger:      ledger,
		CompanyUC:   usecase.NewCompanyUseCase(companyRepo),
		ProductUC:   usecase.NewProductUseCase(productRepo),
		QuotationUC: quotationUC,
		MailAuthUC:  mailAuthUC,
		SupportUC:   usecase.NewSupportUseCase(supportRepo, log),
		TTL: httpRouter.InvitationTTL{
			Admin:     cfg.Invitation.TTLMinutes,
			Bootstrap: cfg.Invitation.BootstrapTTLMinutes,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (ports.ObjectStore, error) {
	if cfg.Driver == "s3" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
		}, log)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	return storage.NewLocal(afero.NewOsFs(), cfg.LocalDir), nil
}
