package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/annel0/masonry/internal/eventbus"
)

const timeFormat = "15:04:05.000"

func main() {
	var (
		natsURL    = flag.String("nats", "nats://127.0.0.1:4222", "NATS server URL")
		stream     = flag.String("stream", "MASONRY", "JetStream stream name")
		command    = flag.String("cmd", "tail", "Command: tail, stats")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		history    = flag.Bool("history", false, "Replay stream history before new events")
		limit      = flag.Int("limit", 0, "Stop after N events (0 = unlimited)")
		idle       = flag.Duration("idle", 2*time.Second, "stats: stop after no events for this long")
	)
	flag.Parse()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	filter := eventbus.Filter{Types: parseStringList(*eventTypes)}

	switch *command {
	case "tail":
		if err := tailEvents(ctx, bus, filter, *history, *limit); err != nil {
			log.Fatalf("❌ Tail failed: %v", err)
		}
	case "stats":
		if err := showStats(ctx, bus, filter, *idle); err != nil {
			log.Fatalf("❌ Stats failed: %v", err)
		}
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: tail, stats")
		os.Exit(1)
	}
}

// tailEvents выводит события в реальном времени
func tailEvents(ctx context.Context, bus *eventbus.JetStreamBus, filter eventbus.Filter, history bool, limit int) error {
	fmt.Printf("🎬 Tailing events (types: %v, history: %v, limit: %d)\n", filter.Types, history, limit)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		count int
	)
	handler := func(_ context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		if limit > 0 && count >= limit {
			return
		}
		count++
		fmt.Println(formatEvent(ev))
		if limit > 0 && count >= limit {
			cancel()
		}
	}

	subscribe := bus.Subscribe
	if history {
		subscribe = bus.SubscribeFromStart
	}
	sub, err := subscribe(ctx, filter, handler)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	mu.Lock()
	fmt.Printf("📊 Total events: %d\n", count)
	mu.Unlock()
	return nil
}

// showStats читает историю стрима и выводит количество событий по типам
func showStats(ctx context.Context, bus *eventbus.JetStreamBus, filter eventbus.Filter, idle time.Duration) error {
	var (
		mu     sync.Mutex
		counts = make(map[string]int)
		seen   = make(chan struct{}, 1)
	)
	sub, err := bus.SubscribeFromStart(ctx, filter, func(_ context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		counts[ev.EventType]++
		mu.Unlock()
		select {
		case seen <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	timer := time.NewTimer(idle)
	defer timer.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-timer.C:
			break loop
		case <-seen:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(idle)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	types := make([]string, 0, len(counts))
	total := 0
	for t, n := range counts {
		types = append(types, t)
		total += n
	}
	sort.Strings(types)

	fmt.Println("📊 Event statistics:")
	for _, t := range types {
		fmt.Printf("   %-14s %d\n", t, counts[t])
	}
	fmt.Printf("   %-14s %d\n", "total", total)
	return nil
}

func formatEvent(ev *eventbus.Envelope) string {
	var p eventbus.UnitPayload
	if err := ev.Decode(&p); err != nil || p.ID == "" {
		return fmt.Sprintf("[%s] %-13s src=%s %s", ev.Timestamp.Format(timeFormat), ev.EventType, ev.Source, string(ev.Payload))
	}
	line := fmt.Sprintf("[%s] %-13s %s %s %s", ev.Timestamp.Format(timeFormat), ev.EventType, p.Type, p.SubType, p.ID)
	if p.ParentID != "" {
		line += fmt.Sprintf(" parent=%s %s", p.ParentID, p.Orientation)
	}
	return line
}

func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
