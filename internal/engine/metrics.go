package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics — счетчики движка укладки
type Metrics struct {
	placed     *prometheus.CounterVec
	joints     *prometheus.CounterVec
	duplicates prometheus.Counter
	removed    prometheus.Counter
	rejected   prometheus.Counter
	cancelled  prometheus.Counter
	superseded prometheus.Counter
	units      prometheus.Gauge
}

// NewMetrics создает метрики и регистрирует их в reg (nil — без регистрации)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		placed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "masonry",
			Name:      "units_placed_total",
			Help:      "Уложенные элементы по типу.",
		}, []string{"type"}),
		joints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "masonry",
			Name:      "joints_created_total",
			Help:      "Созданные швы по ориентации.",
		}, []string{"orientation"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "masonry",
			Name:      "joint_duplicates_suppressed_total",
			Help:      "Попытки создать уже существующий шов.",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "masonry",
			Name:      "units_removed_total",
			Help:      "Удаленные элементы.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "masonry",
			Name:      "placements_rejected_total",
			Help:      "Отклоненные запросы на укладку.",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "masonry",
			Name:      "placements_cancelled_total",
			Help:      "Отмененные незафиксированные укладки.",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "masonry",
			Name:      "placements_superseded_total",
			Help:      "Укладки, отмененные новым BeginPlacement.",
		}),
		units: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "masonry",
			Name:      "scene_units",
			Help:      "Количество элементов в сцене, включая швы.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.placed, m.joints, m.duplicates, m.removed,
			m.rejected, m.cancelled, m.superseded, m.units)
	}
	return m
}
