package engine

import (
	"context"

	"github.com/annel0/masonry/internal/eventbus"
	"github.com/annel0/masonry/internal/joint"
	"github.com/annel0/masonry/internal/logging"
	"github.com/annel0/masonry/internal/unit"
)

// Notifier получает уведомления об изменениях сцены
type Notifier interface {
	UnitPlaced(ctx context.Context, u *unit.Unit)
	JointCreated(ctx context.Context, j *unit.Unit)
	UnitRemoved(ctx context.Context, u *unit.Unit)
}

// SceneNotifier — необязательное расширение Notifier для загрузки сцен
type SceneNotifier interface {
	SceneLoaded(ctx context.Context, units int, report joint.ReanchorReport)
}

// NopNotifier ничего не делает
type NopNotifier struct{}

func (NopNotifier) UnitPlaced(context.Context, *unit.Unit)   {}
func (NopNotifier) JointCreated(context.Context, *unit.Unit) {}
func (NopNotifier) UnitRemoved(context.Context, *unit.Unit)  {}

// BusNotifier публикует уведомления в шину событий. Ошибки публикации
// только логируются.
type BusNotifier struct {
	bus    eventbus.EventBus
	source string
}

// NewBusNotifier создает публикатор с указанным именем источника
func NewBusNotifier(bus eventbus.EventBus, source string) *BusNotifier {
	if source == "" {
		source = "engine"
	}
	return &BusNotifier{bus: bus, source: source}
}

func (n *BusNotifier) UnitPlaced(ctx context.Context, u *unit.Unit) {
	n.publish(ctx, eventbus.EventUnitPlaced, u)
}

func (n *BusNotifier) JointCreated(ctx context.Context, j *unit.Unit) {
	n.publish(ctx, eventbus.EventJointCreated, j)
}

func (n *BusNotifier) UnitRemoved(ctx context.Context, u *unit.Unit) {
	n.publish(ctx, eventbus.EventUnitRemoved, u)
}

func (n *BusNotifier) SceneLoaded(ctx context.Context, units int, report joint.ReanchorReport) {
	ev, err := eventbus.NewEnvelope(eventbus.EventSceneLoaded, n.source, eventbus.ScenePayload{
		Units:    units,
		Moved:    report.Moved,
		Relinked: report.Relinked,
		Orphaned: report.Orphaned,
	})
	if err != nil {
		logging.Warn("Уведомление %s не сформировано: %v", eventbus.EventSceneLoaded, err)
		return
	}
	ev.Priority = eventbus.GuaranteedPriority
	n.send(ctx, ev)
}

func (n *BusNotifier) publish(ctx context.Context, eventType string, u *unit.Unit) {
	ev, err := eventbus.NewEnvelope(eventType, n.source, eventbus.UnitPayload{
		ID:          u.ID,
		Type:        string(u.Type),
		SubType:     u.SubType,
		ParentID:    u.ParentID,
		Orientation: string(u.Orientation),
	})
	if err != nil {
		logging.Warn("Уведомление %s не сформировано: %v", eventType, err)
		return
	}
	ev.CorrelationID = u.ID
	if u.ParentID != "" {
		ev.CorrelationID = u.ParentID
	}
	// Структурные изменения нужны истории отмены, их нельзя терять
	ev.Priority = eventbus.GuaranteedPriority
	n.send(ctx, ev)
}

func (n *BusNotifier) send(ctx context.Context, ev *eventbus.Envelope) {
	if err := n.bus.Publish(ctx, ev); err != nil {
		logging.Warn("Не удалось опубликовать %s: %v", ev.EventType, err)
	}
}
