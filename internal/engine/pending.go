package engine

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/masonry/internal/unit"
)

type pendingState int

const (
	pendingOpen pendingState = iota
	pendingCommitted
	pendingCancelled
)

// Pending — подготовленная, но еще не зафиксированная укладка.
// Реестр изменяется только в Commit; отмена до Commit ничего не меняет.
type Pending struct {
	e       *Engine
	req     Request
	preview *unit.Unit

	mu    sync.Mutex
	state pendingState
}

// BeginPlacement вычисляет предварительный результат укладки. Новый вызов
// отменяет предыдущую незафиксированную укладку.
func (e *Engine) BeginPlacement(ctx context.Context, req Request) (*Pending, error) {
	_, span := e.tracer.Start(ctx, "engine.BeginPlacement")
	defer span.End()

	e.mu.Lock()
	preview, _, err := e.prepare(req)
	e.mu.Unlock()
	if err != nil {
		e.metrics.rejected.Inc()
		return nil, err
	}

	p := &Pending{e: e, req: req, preview: preview}

	e.pendingMu.Lock()
	prev := e.pending
	e.pending = p
	e.pendingMu.Unlock()

	if prev != nil && prev.Cancel() {
		e.metrics.superseded.Inc()
	}
	return p, nil
}

// Preview возвращает элемент в том виде, в каком он был бы уложен при вызове BeginPlacement
func (p *Pending) Preview() *unit.Unit {
	return p.preview.Clone()
}

// Commit выполняет укладку. Геометрия пересчитывается по текущему состоянию реестра.
func (p *Pending) Commit(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case pendingCancelled:
		return nil, ErrPlacementCancelled
	case pendingCommitted:
		return nil, ErrAlreadyCommitted
	}

	res, err := p.e.Place(ctx, p.req)
	if err != nil {
		return nil, err
	}
	p.state = pendingCommitted
	p.e.release(p)
	return res, nil
}

// Cancel отменяет укладку. Возвращает true, если укладка была открыта.
func (p *Pending) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != pendingOpen {
		return false
	}
	p.state = pendingCancelled
	p.e.metrics.cancelled.Inc()
	p.e.release(p)
	return true
}

// CommitAfter фиксирует укладку после задержки d (анимация появления).
// Отмена контекста или Cancel во время ожидания оставляют реестр без изменений.
func (p *Pending) CommitAfter(ctx context.Context, d time.Duration) (*Result, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		p.Cancel()
		return nil, ctx.Err()
	case <-timer.C:
		return p.Commit(ctx)
	}
}

// release снимает p с учета как текущую укладку
func (e *Engine) release(p *Pending) {
	e.pendingMu.Lock()
	if e.pending == p {
		e.pending = nil
	}
	e.pendingMu.Unlock()
}

func (e *Engine) cancelPending() {
	e.pendingMu.Lock()
	p := e.pending
	e.pendingMu.Unlock()
	if p != nil {
		p.Cancel()
	}
}
