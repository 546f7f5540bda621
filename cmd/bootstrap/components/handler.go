package components

import (
	"unified-checkout/internal/handler"
	"unified-checkout/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewSessionHandler,
	),
	fx.Invoke(handler.NewRouter),
)
