package router

import (
	"github.com/satriohq/blognest-api/internal/application"
	"github.com/satriohq/blognest-api/internal/container"
	pginfra "github.com/satriohq/blognest-api/internal/infrastructure/postgres"
	handlers "github.com/satriohq/blognest-api/internal/interface/http"
	"github.com/satriohq/blognest-api/internal/router/modules"
	"github.com/satriohq/blognest-api/pkg/helpers"
	"github.com/satriohq/blognest-api/pkg/mailer"
)

// InitModules builds the application services from the container singletons
// and registers all feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	mail := mailer.NewQueueMailer(container.GetRabbitPub(), cfg.MailSendEnabled)

	svc := application.NewAuthService(repo, container.GetJWT(), mail, container.GetLogger())
	svc.ResetURLBase = cfg.ResetPasswordURL
	svc.VerifyURLBase = cfg.VerifyAccountURL
	svc.GCS = container.GetGCS()
	svc.GCSBucket = cfg.GCSBucket
	svc.ES = container.GetES()
	svc.ESAuthorsIndex = cfg.ESAuthorsIndex

	cookies := helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure())

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, container.GetLogger(), cookies), svc))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, container.GetLogger()), svc))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
