package events

import "go.uber.org/zap"

// ZapObserver returns an observer that logs every cart event.
func ZapObserver(logger *zap.Logger) Observer {
	return func(evt Event) {
		logger.Info("cart event",
			zap.String("event", evt.Name),
			zap.String("cart", evt.Cart),
			zap.Any("payload", evt.Payload),
		)
	}
}
