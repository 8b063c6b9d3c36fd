package workers

import (
	"context"
	"log/slog"

	"agro-chat/contract"
	"agro-chat/presence"
)

// LifecycleWorker maps surface lifecycle signals to presence broadcasts:
// visible means online, hidden or teardown means offline. An initial online
// broadcast is pushed as soon as the worker starts, mirroring the page-load
// behaviour of the chat surface.
type LifecycleWorker struct {
	broadcaster *presence.Broadcaster
	signals     chan contract.Signal
	log         *slog.Logger
}

func NewLifecycleWorker(broadcaster *presence.Broadcaster, signals chan contract.Signal, log *slog.Logger) *LifecycleWorker {
	return &LifecycleWorker{broadcaster: broadcaster, signals: signals, log: log}
}

func (w *LifecycleWorker) Run(ctx context.Context) error {
	w.broadcaster.SetOnline(true)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case signal, ok := <-w.signals:
			if !ok {
				w.log.Debug("Signal channel is closed")
				return nil
			}
			switch signal {
			case contract.SignalVisible:
				w.broadcaster.SetOnline(true)
			case contract.SignalHidden:
				w.broadcaster.SetOnline(false)
			case contract.SignalTeardown:
				// Best effort before the surface goes away; the worker keeps
				// running in case the teardown is aborted by the host.
				w.broadcaster.SetOnline(false)
			}
		}
	}
}
