package websocket

import (
	"context"

	"github.com/rs/zerolog"
)

// Auditor writes every published event to the structured log
type Auditor struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewAuditor creates an event auditor
func NewAuditor(hub *Hub, logger zerolog.Logger) *Auditor {
	return &Auditor{hub: hub, logger: logger}
}

// Start consumes events until ctx is cancelled
func (a *Auditor) Start(ctx context.Context) {
	events := make(chan *Event, 64)
	a.hub.AddListener(events)

	go func() {
		defer a.hub.RemoveListener(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				a.logger.Info().
					Str("event", ev.Type).
					Int64("companyID", ev.CompanyID).
					Int64("actorID", ev.ActorID).
					Time("at", ev.Timestamp).
					Msg("Dashboard change")
			}
		}
	}()
}
