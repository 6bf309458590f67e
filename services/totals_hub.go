package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	DeviceID string
	Conn     *websocket.Conn
}

// TotalsHub pushes the running daily total to connected clients after each
// confirmed entry, so the home screen updates without polling.
type TotalsHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewTotalsHub() *TotalsHub {
	return &TotalsHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *TotalsHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.DeviceID] == nil {
		h.clients[c.DeviceID] = make(map[*WSClient]struct{})
	}
	h.clients[c.DeviceID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *TotalsHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.DeviceID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.DeviceID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

type TotalUpdate struct {
	Date      string `json:"date"`
	TotalKcal int    `json:"total_kcal"`
}

// BroadcastTotal fans the update out to every connection of the device.
func (h *TotalsHub) BroadcastTotal(deviceID string, update TotalUpdate) {
	msg, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[deviceID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
