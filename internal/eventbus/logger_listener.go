package eventbus

import (
	"context"

	"github.com/annel0/masonry/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог.
// Функция неблокирующая.
func StartLoggingListener(ctx context.Context, bus EventBus) (Subscription, error) {
	sub, err := bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		var p UnitPayload
		if err := ev.Decode(&p); err != nil || p.ID == "" {
			logging.Debug("[EventBus] %s %s src=%s size=%dB", ev.ID, ev.EventType, ev.Source, len(ev.Payload))
			return
		}
		logging.Debug("[EventBus] %s %s id=%s type=%s sub=%s parent=%s", ev.ID, ev.EventType, p.ID, p.Type, p.SubType, p.ParentID)
	})
	if err != nil {
		return nil, err
	}
	logging.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
