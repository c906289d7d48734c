package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

// Hub управляет WebSocket клиентами live-reload и рассылает им сообщения.
// Реализует интерфейс port.ReloadNotifier.
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для broadcast сообщений
	broadcast chan Message

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для удаления клиентов
	unregister chan *Client

	// Mutex для защиты clients map
	mu sync.RWMutex

	// Закрывается при остановке Run
	done chan struct{}

	// Вызывается после каждой рассылки (метрики)
	onBroadcast func(delivered int)

	logger *logger.Logger
}

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// OnBroadcast sets a hook called with the number of clients reached by each broadcast.
// Must be called before Run.
func (h *Hub) OnBroadcast(fn func(delivered int)) {
	h.onBroadcast = fn
}

// Run запускает hub (должен быть запущен в отдельной goroutine) и
// отключает всех клиентов при отмене ctx.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Reload hub started")

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Reload hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Reload client registered", "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Reload client unregistered", "total_clients", total)

		case message := <-h.broadcast:
			delivered := 0
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					delivered++
				default:
					// Канал клиента заполнен, закрываем соединение
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Reload client channel full, disconnected")
				}
			}
			h.mu.Unlock()

			if h.onBroadcast != nil {
				h.onBroadcast(delivered)
			}
			h.logger.Debug("Reload broadcasted", "type", message.Type, "clients", delivered)
		}
	}
}

// Register регистрирует нового клиента. Возвращает false, если hub уже остановлен.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastReload просит браузеры перезагрузить страницу (реализация port.ReloadNotifier)
func (h *Hub) BroadcastReload(reason string) {
	msg := Message{
		Type: MessageTypeReload,
		Data: ReloadEvent{Reason: reason, At: time.Now().UTC()},
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Broadcast channel full, dropping reload", "reason", reason)
	}
}

// ClientCount возвращает количество подключенных клиентов (реализация port.ReloadNotifier)
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

const (
	MessageTypeHello  = "hello"
	MessageTypeReload = "reload"
)

// Message представляет сообщение для отправки клиенту
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ReloadEvent describes why a reload was requested.
type ReloadEvent struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}
