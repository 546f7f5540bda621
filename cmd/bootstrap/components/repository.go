package components

import (
	"unified-checkout/internal/infra/gateway"
	"unified-checkout/internal/infra/readstore"
	repo_impl "unified-checkout/internal/infra/repository"
	"unified-checkout/internal/pkg/config"
	"unified-checkout/internal/usecase/commands"
	"unified-checkout/internal/usecase/queries"
	"unified-checkout/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewCartRepository,
			fx.As(new(commands.CartRepository)),
		),
		fx.Annotate(
			repo_impl.NewBusinessRepository,
			fx.As(new(commands.BusinessRepository)),
			fx.As(new(worker.BusinessReads)),
		),
		fx.Annotate(
			repo_impl.NewSessionRepository,
			fx.As(new(commands.SessionRepository)),
		),
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(commands.OrderRepository)),
			fx.As(new(worker.OrderReads)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(worker.BookingReads)),
			fx.As(new(worker.BookingSyncWriter)),
		),
		fx.Annotate(
			repo_impl.NewCalendarIntegrationRepository,
			fx.As(new(gateway.IntegrationStore)),
		),
		fx.Annotate(
			NewSideEffectRepository,
			fx.As(new(commands.JobQueue)),
			fx.As(new(worker.JobStore)),
		),
		// Read-side store for queries
		fx.Annotate(
			readstore.NewSessionReadStore,
			fx.As(new(queries.SessionStore)),
		),
	),
)

func NewSideEffectRepository(pool *pgxpool.Pool, cfg config.Config) *repo_impl.SideEffectRepository {
	return repo_impl.NewSideEffectRepository(pool, cfg.Worker.MaxAttempts)
}
