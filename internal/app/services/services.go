package services

import (
	"context"

	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/metrics"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

// Services defined in this package:
// - AuthService: Moodle login and the caller profile
// - AnalyticsService: school dashboard figures
// - LicenseService: IOMAD license CRUD and seat allocation
// - EnrollmentService: manual course enrolments
// - DashboardAccessService: per-school dashboard toggles
// - TrainingRuleService: AI assistant training rules
// - CompanyService: school listing

// TxRunner runs fn inside a database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// EventPublisher fans domain events out to connected dashboards
type EventPublisher interface {
	Publish(event *websocket.Event)
}

type hubPublisher struct {
	hub     *websocket.Hub
	metrics *metrics.Metrics
}

// NewEventPublisher publishes on the hub and counts every event
func NewEventPublisher(hub *websocket.Hub, m *metrics.Metrics) EventPublisher {
	return &hubPublisher{hub: hub, metrics: m}
}

func (p *hubPublisher) Publish(event *websocket.Event) {
	p.hub.Publish(event)
	if p.metrics != nil {
		p.metrics.EventPublished(event.Type)
	}
}

func publish(p EventPublisher, eventType string, companyID, actorID int64, payload interface{}) {
	if p == nil {
		return
	}
	p.Publish(&websocket.Event{
		Type:      eventType,
		CompanyID: companyID,
		ActorID:   actorID,
		Payload:   payload,
	})
}
