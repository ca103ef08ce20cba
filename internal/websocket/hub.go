package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ai-chat-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Update event types pushed to connected clients.
const (
	EventMessageUpdated = "message.updated"
	EventThreadUpdated  = "thread.updated"
	EventThreadDeleted  = "thread.deleted"
)

// StreamUpdate is the wire frame delivered to clients. Data carries the
// entity snapshot after the change.
type StreamUpdate struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Hub struct {
	// Registered clients map: OwnerId -> List of Clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.OwnerId] = append(h.clients[client.OwnerId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"owner_id": client.OwnerId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.OwnerId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.OwnerId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.OwnerId]) == 0 {
					delete(h.clients, client.OwnerId)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"owner_id": client.OwnerId})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers an update to every connection the owner currently has, on
// this instance and, through Redis, on every other instance.
func (h *Hub) Send(ownerId string, update StreamUpdate) {
	data, _ := json.Marshal(update)

	h.mu.RLock()
	clients, localFound := h.clients[ownerId]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping update", map[string]interface{}{"owner_id": ownerId})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	// Always publish for multi-device and multi-instance delivery.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_owner_id": ownerId,
			"message":         json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// Broadcast sends an update to ALL connected clients.
func (h *Hub) Broadcast(update StreamUpdate) {
	data, _ := json.Marshal(update)

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_owner_id": "*", // Wildcard for broadcast
			"message":         json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), "cluster_events", jsonPayload)
	}
}

// Every instance subscribes to "cluster_events". When a payload arrives the
// instance checks whether it holds the target owner locally and forwards.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetOwnerId string          `json:"target_owner_id"`
			Message       json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetOwnerId == "*" {
			h.mu.RLock()
			for _, clients := range h.clients {
				for _, client := range clients {
					select {
					case client.Send <- payload.Message:
					default:
						close(client.Send)
						h.unregister <- client
					}
				}
			}
			h.mu.RUnlock()
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[payload.TargetOwnerId]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- payload.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
