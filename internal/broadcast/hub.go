package broadcast

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event types pushed to connected clients.
type EventType string

const (
	EventBoardStatus      EventType = "board_status"
	EventCheckoutCreated  EventType = "checkout_created"
	EventCheckoutReturned EventType = "checkout_returned"
)

// Event is the JSON frame written to every subscriber of a location.
type Event struct {
	Type       EventType   `json:"type"`
	LocationID string      `json:"locationId"`
	Data       interface{} `json:"data,omitempty"`
}

type boardStatusPayload struct {
	BoardID string `json:"boardId"`
	Status  string `json:"status"`
}

type checkoutPayload struct {
	CheckoutID string `json:"checkoutId"`
	BoardID    string `json:"boardId"`
	UserID     string `json:"userId,omitempty"`
}

// Client is one websocket subscriber scoped to a single location.
type Client struct {
	ID         string
	LocationID string
	Conn       *websocket.Conn
	Send       chan []byte
	once       sync.Once
}

// Hub fans events out to clients keyed by location. Delivery is best
// effort: a client whose send buffer is full misses the frame rather than
// stalling the hub loop.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	events     chan Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 64),
	}
}

// Run blocks, serving registrations and fan-out until the channel owner
// exits. Start it once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
		case client := <-h.unregister:
			if _, exists := h.clients[client.ID]; exists {
				delete(h.clients, client.ID)
				client.once.Do(func() { close(client.Send) })
			}
		case event := <-h.events:
			frame, err := json.Marshal(event)
			if err != nil {
				log.Printf("marshal broadcast event: %v", err)
				continue
			}
			for _, client := range h.clients {
				if client.LocationID != event.LocationID {
					continue
				}
				select {
				case client.Send <- frame:
				default:
				}
			}
		}
	}
}

func (h *Hub) publish(event Event) {
	select {
	case h.events <- event:
	default:
		log.Printf("broadcast queue full, dropping %s event", event.Type)
	}
}

// BoardStatusChanged implements service.Broadcaster.
func (h *Hub) BoardStatusChanged(locationID, boardID, status string) {
	h.publish(Event{
		Type: EventBoardStatus, LocationID: locationID,
		Data: boardStatusPayload{BoardID: boardID, Status: status},
	})
}

// CheckoutCreated implements service.Broadcaster.
func (h *Hub) CheckoutCreated(locationID, checkoutID, boardID, userID string) {
	h.publish(Event{
		Type: EventCheckoutCreated, LocationID: locationID,
		Data: checkoutPayload{CheckoutID: checkoutID, BoardID: boardID, UserID: userID},
	})
}

// CheckoutReturned implements service.Broadcaster.
func (h *Hub) CheckoutReturned(locationID, checkoutID, boardID string) {
	h.publish(Event{
		Type: EventCheckoutReturned, LocationID: locationID,
		Data: checkoutPayload{CheckoutID: checkoutID, BoardID: boardID},
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement happens in the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and subscribes the connection to the
// location named in the path.
func (h *Hub) ServeWS(c *gin.Context) {
	locationID := c.Param("locationId")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locationId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	client := &Client{
		ID:         uuid.NewString(),
		LocationID: locationID,
		Conn:       conn,
		Send:       make(chan []byte, 64),
	}
	h.register <- client

	// Write loop
	go func() {
		defer conn.Close()
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	// Read loop: clients do not speak, so this only detects disconnects.
	go func() {
		defer func() {
			h.unregister <- client
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
