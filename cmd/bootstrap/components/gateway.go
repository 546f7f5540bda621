package components

import (
	"log/slog"

	gateway_impl "unified-checkout/internal/infra/gateway"
	"unified-checkout/internal/pkg/clock"
	"unified-checkout/internal/pkg/config"
	"unified-checkout/internal/usecase/commands"
	"unified-checkout/internal/worker"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewSquareClient,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			NewCalendarClient,
			fx.As(new(worker.CalendarSyncer)),
		),
		fx.Annotate(
			NewMailer,
			fx.As(new(worker.EmailSender)),
		),
	),
)

func NewSquareClient(cfg config.Config) *gateway_impl.SquareClient {
	return gateway_impl.NewSquareClient(cfg.Square)
}

func NewCalendarClient(cfg config.Config, integrations gateway_impl.IntegrationStore, clk clock.Clock, logger *slog.Logger) *gateway_impl.CalendarClient {
	return gateway_impl.NewCalendarClient(cfg.Calendar, integrations, clk, logger)
}

func NewMailer(cfg config.Config) *gateway_impl.Mailer {
	return gateway_impl.NewMailer(cfg.Mail)
}
