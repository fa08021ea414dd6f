package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/masonry/internal/adjacency"
	"github.com/annel0/masonry/internal/config"
	"github.com/annel0/masonry/internal/course"
	"github.com/annel0/masonry/internal/grid"
	"github.com/annel0/masonry/internal/joint"
	"github.com/annel0/masonry/internal/logging"
	"github.com/annel0/masonry/internal/registry"
	"github.com/annel0/masonry/internal/unit"
	"github.com/annel0/masonry/internal/vec"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidGeometry    = errors.New("некорректная геометрия укладки")
	ErrUnitNotFound       = errors.New("элемент не найден")
	ErrPlacementCancelled = errors.New("укладка отменена")
	ErrAlreadyCommitted   = errors.New("укладка уже зафиксирована")
)

// Options задает зависимости и допуски движка
type Options struct {
	GridSpacing       float64
	StackTolerance    float64
	PlanarTolerance   float64
	VerticalTolerance float64
	HorizontalMatch   float64
	VerticalMatch     float64
	BandHeight        float64
	Table             course.Table
	Thickness         joint.ThicknessSource
	Notifier          Notifier
	Registerer        prometheus.Registerer
	Tracer            trace.Tracer
}

// OptionsFromConfig переносит настройки кладки из конфигурации
func OptionsFromConfig(cfg config.MasonryConfig, thickness joint.ThicknessSource) Options {
	return Options{
		GridSpacing:       cfg.GridSpacing,
		StackTolerance:    cfg.StackTolerance,
		PlanarTolerance:   cfg.AdjacencyTolerance,
		VerticalTolerance: cfg.AdjacencyVerticalTolerance,
		HorizontalMatch:   cfg.HorizontalMatchTolerance,
		VerticalMatch:     cfg.VerticalMatchTolerance,
		BandHeight:        cfg.CourseBandHeight,
		Table:             cfg.CourseTable(),
		Thickness:         thickness,
	}
}

// Request — запрос на укладку элемента в точку, выбранную пользователем
type Request struct {
	RawX       float64         `json:"x"`
	RawZ       float64         `json:"z"`
	Type       unit.Type       `json:"type"`
	SubType    string          `json:"sub_type"`
	Dimensions unit.Dimensions `json:"dimensions"` // Нулевые — из каталога
	Rotation   float64         `json:"rotation"`
	Course     *int            `json:"course,omitempty"` // Ряд для укладки на землю
}

// Result — уложенный элемент и созданные для него швы
type Result struct {
	Unit      *unit.Unit   `json:"unit"`
	Joints    []*unit.Unit `json:"joints"`
	SupportID string       `json:"support_id,omitempty"`
}

// Stats — сводка по сцене
type Stats struct {
	Units       int               `json:"units"`
	Joints      int               `json:"joints"`
	ByType      map[unit.Type]int `json:"by_type"`
	PendingOpen bool              `json:"pending_open"`
}

// Engine связывает резолвер, классификатор рядов, локатор соседей и
// синтезатор швов. Все изменяющие операции выполняются под одним мьютексом.
type Engine struct {
	mu         sync.Mutex
	reg        *registry.Registry
	resolver   *grid.Resolver
	classifier *course.Classifier
	locator    *adjacency.Locator
	synth      *joint.Synthesizer
	notifier   Notifier
	metrics    *Metrics
	tracer     trace.Tracer

	pendingMu sync.Mutex
	pending   *Pending
}

// New создает движок над пустым реестром
func New(opts Options) *Engine {
	reg := registry.New()
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("github.com/annel0/masonry/internal/engine")
	}

	e := &Engine{
		reg:        reg,
		resolver:   grid.NewResolver(reg, opts.GridSpacing, opts.StackTolerance),
		classifier: course.NewClassifier(opts.Table, opts.BandHeight),
		locator:    adjacency.NewLocator(reg, opts.PlanarTolerance, opts.VerticalTolerance),
		notifier:   notifier,
		metrics:    NewMetrics(opts.Registerer),
		tracer:     tracer,
	}
	e.synth = joint.NewSynthesizer(reg, e.classifier, joint.Options{
		Thickness:           opts.Thickness,
		Listener:            jointListener{e},
		HorizontalTolerance: opts.HorizontalMatch,
		VerticalTolerance:   opts.VerticalMatch,
	})
	return e
}

// Classifier возвращает классификатор рядов движка
func (e *Engine) Classifier() *course.Classifier {
	return e.classifier
}

// Place укладывает элемент и создает его горизонтальный шов и вертикальные
// швы с подтвержденными соседями.
func (e *Engine) Place(ctx context.Context, req Request) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Place", trace.WithAttributes(
		attribute.String("unit.type", string(req.Type)),
		attribute.String("unit.sub_type", req.SubType),
	))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.place(ctx, req)
	if err != nil {
		e.metrics.rejected.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("unit.id", res.Unit.ID),
		attribute.Int("unit.course", res.Unit.Course),
		attribute.Int("joints.created", len(res.Joints)),
	)
	return res, nil
}

func (e *Engine) place(ctx context.Context, req Request) (*Result, error) {
	u, support, err := e.prepare(req)
	if err != nil {
		return nil, err
	}

	if err := e.reg.Add(u); err != nil {
		return nil, fmt.Errorf("не удалось добавить элемент: %w", err)
	}
	e.metrics.placed.WithLabelValues(string(u.Type)).Inc()
	e.notifier.UnitPlaced(ctx, u.Clone())

	res := &Result{Unit: u.Clone()}
	if support != nil {
		res.SupportID = support.ID
	}

	// Ошибка шва не отменяет укладку элемента
	if j, created, err := e.synth.EnsureHorizontalJoint(ctx, u); err != nil {
		logging.Warn("Горизонтальный шов для %s не создан: %v", u.ID, err)
	} else if created {
		res.Joints = append(res.Joints, j)
	} else {
		e.metrics.duplicates.Inc()
	}

	for _, side := range []unit.Side{unit.SideLeft, unit.SideRight} {
		neighbor := e.locator.FindNeighbor(u, side)
		if neighbor == nil {
			continue
		}
		j, created, err := e.synth.EnsureVerticalJoint(ctx, u, side)
		switch {
		case err != nil:
			logging.Warn("Вертикальный шов %s для %s не создан: %v", side, u.ID, err)
		case created:
			res.Joints = append(res.Joints, j)
		default:
			e.metrics.duplicates.Inc()
		}
	}

	e.metrics.units.Set(float64(e.reg.Len()))
	logging.Debug("🧱 Уложен %s %s (%s) ряд %d, y=%.2f, швов: %d",
		u.Type, u.ID, u.SubType, u.Course, u.Position.Y, len(res.Joints))
	return res, nil
}

// prepare проверяет запрос и вычисляет итоговый элемент, не изменяя реестр
func (e *Engine) prepare(req Request) (*unit.Unit, *unit.Unit, error) {
	if !req.Type.IsStructural() {
		return nil, nil, fmt.Errorf("%w: тип %q нельзя укладывать напрямую", ErrInvalidGeometry, req.Type)
	}
	if !vec.IsFinite(req.Rotation) {
		return nil, nil, fmt.Errorf("%w: поворот %v", ErrInvalidGeometry, req.Rotation)
	}
	if req.Course != nil && *req.Course < 0 {
		return nil, nil, fmt.Errorf("%w: ряд %d", ErrInvalidGeometry, *req.Course)
	}

	dims := req.Dimensions
	if dims.IsZero() {
		var err error
		if dims, err = unit.LookupDimensions(req.Type, req.SubType); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
		}
	}
	if err := dims.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	p, err := e.resolver.ResolvePlacement(req.RawX, req.RawZ)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	u := &unit.Unit{
		ID:            unit.NewID(),
		Type:          req.Type,
		SubType:       req.SubType,
		Rotation:      unit.NormalizeAngle(req.Rotation),
		Dimensions:    dims,
		CourseTracked: true,
	}

	var base float64
	if p.OnGround() {
		if req.Course != nil {
			u.Course = *req.Course
		}
		base = e.classifier.BaseOfCourse(u.Type, u.Course)
	} else {
		u.Course = e.classifier.CourseOf(p.Support) + 1
		base = p.Height
	}

	thickness := e.synth.Thickness(u)
	u.Position = vec.Vec3Float{
		X: p.SnappedX,
		Y: base + thickness + dims.Height/2,
		Z: p.SnappedZ,
	}

	if err := u.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return u, p.Support, nil
}

// Remove удаляет один элемент. Швы элемента остаются в реестре.
func (e *Engine) Remove(ctx context.Context, id string) (*unit.Unit, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Remove", trace.WithAttributes(attribute.String("unit.id", id)))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	u, err := e.reg.Remove(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			err = fmt.Errorf("%w: %s", ErrUnitNotFound, id)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	e.metrics.removed.Inc()
	e.metrics.units.Set(float64(e.reg.Len()))
	e.notifier.UnitRemoved(ctx, u.Clone())

	if joints := e.reg.JointsOf(id); len(joints) > 0 {
		logging.Debug("Элемент %s удален, его швы сохранены: %d", id, len(joints))
	}
	return u, nil
}

// Load заменяет содержимое реестра сохраненной сценой и выполняет
// повторную привязку горизонтальных швов.
func (e *Engine) Load(ctx context.Context, units []*unit.Unit) (joint.ReanchorReport, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Load", trace.WithAttributes(attribute.Int("units", len(units))))
	defer span.End()

	for _, u := range units {
		if u == nil {
			return joint.ReanchorReport{}, fmt.Errorf("%w: пустой элемент в сцене", ErrInvalidGeometry)
		}
		if err := u.ValidateLegacy(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return joint.ReanchorReport{}, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
		}
	}

	e.cancelPending()

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reg.Reset(units); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return joint.ReanchorReport{}, err
	}
	report := e.synth.Reanchor()
	e.metrics.units.Set(float64(e.reg.Len()))

	span.SetAttributes(
		attribute.Int("reanchor.moved", report.Moved),
		attribute.Int("reanchor.relinked", report.Relinked),
		attribute.Int("reanchor.orphaned", len(report.Orphaned)),
	)
	if sn, ok := e.notifier.(SceneNotifier); ok {
		sn.SceneLoaded(ctx, len(units), report)
	}
	logging.Info("📂 Сцена загружена: %d элементов, перемещено швов %d, без элемента %d",
		len(units), report.Moved, len(report.Orphaned))
	return report, nil
}

// Snapshot возвращает копии всех элементов, отсортированные по ID
func (e *Engine) Snapshot() []*unit.Unit {
	return e.reg.All()
}

// Unit возвращает копию элемента по ID
func (e *Engine) Unit(id string) (*unit.Unit, bool) {
	return e.reg.Get(id)
}

// Neighbors возвращает соседей элемента слева и справа (nil, если соседа нет)
func (e *Engine) Neighbors(id string) (left, right *unit.Unit, err error) {
	u, ok := e.reg.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnitNotFound, id)
	}
	left, right = e.locator.Neighbors(u)
	return left, right, nil
}

// Stats возвращает сводку по сцене
func (e *Engine) Stats() Stats {
	counts := e.reg.Counts()
	s := Stats{ByType: counts, Joints: counts[unit.TypeJoint]}
	for _, n := range counts {
		s.Units += n
	}

	e.pendingMu.Lock()
	s.PendingOpen = e.pending != nil
	e.pendingMu.Unlock()
	return s
}

// jointListener считает созданные швы и пересылает уведомление
type jointListener struct {
	e *Engine
}

func (l jointListener) JointCreated(ctx context.Context, j *unit.Unit) {
	l.e.metrics.joints.WithLabelValues(string(j.Orientation)).Inc()
	l.e.notifier.JointCreated(ctx, j.Clone())
}
