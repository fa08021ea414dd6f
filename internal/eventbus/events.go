package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений движка укладки
const (
	EventUnitPlaced   = "unitPlaced"
	EventJointCreated = "jointCreated"
	EventUnitRemoved  = "unitRemoved"
	EventSceneLoaded  = "sceneLoaded"
)

// PayloadVersion текущая версия схемы UnitPayload
const PayloadVersion = 1

// UnitPayload полезная нагрузка уведомлений об элементах кладки
type UnitPayload struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	SubType     string `json:"sub_type"`
	ParentID    string `json:"parent_id,omitempty"`
	Orientation string `json:"orientation,omitempty"`
}

// ScenePayload полезная нагрузка sceneLoaded
type ScenePayload struct {
	Units    int      `json:"units"`
	Moved    int      `json:"moved"`
	Relinked int      `json:"relinked"`
	Orphaned []string `json:"orphaned,omitempty"`
}

// NewEnvelope сериализует payload в JSON и заворачивает его в Envelope.
func NewEnvelope(eventType, source string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("eventbus: сериализация %s: %w", eventType, err)
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   PayloadVersion,
		Payload:   data,
	}, nil
}

// Decode разбирает JSON полезную нагрузку события.
func (e *Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("eventbus: разбор %s: %w", e.EventType, err)
	}
	return nil
}
