package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AllSchools is the subscription key of clients that receive every school's events
const AllSchools int64 = 0

// Event types pushed to dashboard clients
const (
	EventLicenseCreated      = "license.created"
	EventLicenseUpdated      = "license.updated"
	EventLicenseDeleted      = "license.deleted"
	EventLicenseAllocated    = "license.allocated"
	EventLicenseRevoked      = "license.revoked"
	EventEnrollmentCreated   = "enrollment.created"
	EventEnrollmentUpdated   = "enrollment.updated"
	EventEnrollmentDeleted   = "enrollment.deleted"
	EventDashboardAccess     = "dashboard_access.updated"
	EventTrainingRuleChanged = "training_rule.changed"
)

// Event is a change notification sent over WebSocket
type Event struct {
	Type string `json:"type"`

	// School the change happened in
	CompanyID int64 `json:"companyId"`

	// User who made the change
	ActorID int64 `json:"actorId"`

	Payload interface{} `json:"payload,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and fans events out to them
type Hub struct {
	// Registered clients organized by company ID
	clients map[int64]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	// Closed once Run returns
	done     chan struct{}
	doneOnce sync.Once

	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *Event

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles client registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer h.doneOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Register hands a client to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; it returns immediately after the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	companyID := client.companyID
	if _, ok := h.clients[companyID]; !ok {
		h.clients[companyID] = make(map[*Client]bool)
	}
	h.clients[companyID][client] = true

	h.logger.Info().
		Int64("companyID", companyID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	companyID := client.companyID
	clients, ok := h.clients[companyID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, companyID)
	}

	h.logger.Info().
		Int64("companyID", companyID).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// broadcastEvent delivers an event to the clients of its school and to the
// clients subscribed to all schools
func (h *Hub) broadcastEvent(event *Event) {
	h.notifyListeners(event)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("type", event.Type).
			Int64("companyID", event.CompanyID).
			Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	targets := []int64{event.CompanyID}
	if event.CompanyID != AllSchools {
		targets = append(targets, AllSchools)
	}

	delivered := 0
	for _, companyID := range targets {
		for client := range h.clients[companyID] {
			select {
			case client.send <- data:
				delivered++
			default:
				// Slow or dead consumer
				h.removeLocked(client)
			}
		}
	}

	h.logger.Debug().
		Str("type", event.Type).
		Int64("companyID", event.CompanyID).
		Int("clientCount", delivered).
		Msg("Event broadcasted")
}

func (h *Hub) notifyListeners(event *Event) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Str("type", event.Type).Msg("Skipped slow event listener")
		}
	}
}

// Publish queues an event for broadcast without blocking the caller.
// Events are dropped when the queue is full.
func (h *Hub) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().
			Str("type", event.Type).
			Int64("companyID", event.CompanyID).
			Msg("Event queue full, dropping event")
	}
}

// GetClientsCount returns the number of connected clients for a company
func (h *Hub) GetClientsCount(companyID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[companyID])
}

// AddListener registers a channel to receive every event
func (h *Hub) AddListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes a listener from the hub
func (h *Hub) RemoveListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}
