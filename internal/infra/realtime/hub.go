// Package realtime рассылает подписчикам календаря уведомления об изменении доступности.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second

	// EventAvailabilityChanged тип события об изменении доступности
	EventAvailabilityChanged = "availability_changed"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Event сообщение, отправляемое подписчикам
type Event struct {
	Type       string `json:"type"`
	CalendarID int64  `json:"calendarId"`
	Date       string `json:"date"`
}

// Hub держит websocket-подписки по календарям
type Hub struct {
	upgrader websocket.Upgrader
	logger   Logger

	mu          sync.Mutex
	subscribers map[int64]map[*websocket.Conn]struct{}
}

// NewHub создает хаб. allowedOrigins пуст = разрешены все источники.
func NewHub(logger Logger, allowedOrigins []string) *Hub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Hub{
		logger:      logger,
		subscribers: make(map[int64]map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// Serve апгрейдит соединение и держит подписку на календарь до отключения клиента
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, calendarID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Feed: websocket upgrade failed for calendar %d: %v", calendarID, err)
		return
	}

	h.add(calendarID, conn)
	defer h.remove(calendarID, conn)

	for {
		// Входящие сообщения не используются, чтение нужно для обнаружения закрытия
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish отправляет событие всем подписчикам календаря; отвалившиеся соединения закрываются
func (h *Hub) Publish(calendarID int64, date string) {
	payload, err := json.Marshal(Event{Type: EventAvailabilityChanged, CalendarID: calendarID, Date: date})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.subscribers[calendarID] {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.subscribers[calendarID], conn)
		}
	}
}

// Subscribers количество активных подписок календаря
func (h *Hub) Subscribers(calendarID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[calendarID])
}

func (h *Hub) add(calendarID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[calendarID] == nil {
		h.subscribers[calendarID] = make(map[*websocket.Conn]struct{})
	}
	h.subscribers[calendarID][conn] = struct{}{}
}

func (h *Hub) remove(calendarID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	delete(h.subscribers[calendarID], conn)
	if len(h.subscribers[calendarID]) == 0 {
		delete(h.subscribers, calendarID)
	}
}

// Close закрывает все подписки
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for calendarID, conns := range h.subscribers {
		for conn := range conns {
			conn.Close()
		}
		delete(h.subscribers, calendarID)
	}
}
