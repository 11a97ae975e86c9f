package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID       uint
	UserType string
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// BroadcastToUserType sends a message to all users of a specific type
func (h *Hub) BroadcastToUserType(userType string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.UserType == userType {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// BookingCreated announces a fresh booking to all connected transporters.
type BookingCreated struct {
	BookingID   uint    `json:"booking_id"`
	PlotName    string  `json:"plot_name"`
	DropLoc     string  `json:"drop_location"`
	VehicleType string  `json:"vehicle_type"`
	IsShared    bool    `json:"is_shared"`
	DistanceKm  float64 `json:"distance_km"`
}

// BookingAccepted tells the farmer a transporter claimed their booking.
type BookingAccepted struct {
	BookingID     uint   `json:"booking_id"`
	VehicleID     uint   `json:"vehicle_id"`
	VehicleNumber string `json:"vehicle_number"`
	DriverName    string `json:"driver_name"`
	EstimatedTime int    `json:"estimated_time"` // in minutes
}

// TripStarted tells the farmer the driver has picked up from their plot.
type TripStarted struct {
	BookingID uint `json:"booking_id"`
	VehicleID uint `json:"vehicle_id"`
}

// TripCompleted tells the farmer the load was delivered at the drop point.
type TripCompleted struct {
	BookingID  uint    `json:"booking_id"`
	VehicleID  uint    `json:"vehicle_id"`
	DistanceKm float64 `json:"distance_km"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, userType string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:       userID,
		UserType: userType,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// The feed is one-way; inbound frames only keep the connection alive.
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendBookingCreated fans a new booking out to every connected transporter.
func (hub *Hub) SendBookingCreated(created BookingCreated) {
	message := WebSocketMessage{
		Type: "booking_created",
		Data: created,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling booking created: %v", err)
		return
	}

	hub.BroadcastToUserType("transporter", data)
}

// SendBookingAccepted notifies the farmer their booking was claimed.
func (hub *Hub) SendBookingAccepted(farmerID uint, accepted BookingAccepted) {
	message := WebSocketMessage{
		Type: "booking_accepted",
		Data: accepted,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling booking accepted: %v", err)
		return
	}

	hub.BroadcastToUser(farmerID, data)
}

// SendTripStarted notifies the farmer the trip has started.
func (hub *Hub) SendTripStarted(farmerID uint, started TripStarted) {
	message := WebSocketMessage{
		Type: "trip_started",
		Data: started,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling trip started: %v", err)
		return
	}

	hub.BroadcastToUser(farmerID, data)
}

// SendTripCompleted notifies the farmer the trip has completed.
func (hub *Hub) SendTripCompleted(farmerID uint, completed TripCompleted) {
	message := WebSocketMessage{
		Type: "trip_completed",
		Data: completed,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling trip completed: %v", err)
		return
	}

	hub.BroadcastToUser(farmerID, data)
}
