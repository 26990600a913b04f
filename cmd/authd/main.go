package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Shiki0138/sms-sub003/config"
	"github.com/Shiki0138/sms-sub003/internal/delivery"
	"github.com/Shiki0138/sms-sub003/internal/delivery/http"
	"github.com/Shiki0138/sms-sub003/internal/delivery/http/middleware"
	"github.com/Shiki0138/sms-sub003/internal/delivery/http/router/handler"
	"github.com/Shiki0138/sms-sub003/internal/infra/auth"
	logs "github.com/Shiki0138/sms-sub003/internal/infra/log"
	"github.com/Shiki0138/sms-sub003/internal/infra/persistence/postgres"
	"github.com/Shiki0138/sms-sub003/internal/infra/security"
	"github.com/Shiki0138/sms-sub003/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
			startSweeper,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewIdentityRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewSecurityEventRepository,
			postgres.NewLoginRecordRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			security.NewEventRecorder,
			security.NewLockoutPolicy,
			security.NewSuspicionDetector,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewReportService,
			impl.NewTokenSweeper,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewSecurityHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}

// startSweeper forces the sweeper's construction; its goroutine is managed
// by the Fx lifecycle hooks registered in its constructor.
func startSweeper(_ *impl.TokenSweeper) {}
