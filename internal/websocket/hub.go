package websocket

import (
	"encoding/json"
	"sync"

	"github.com/yorkie01/restaurant-order-system/pkg/logger"
)

// Client キッチンディスプレイの WebSocket クライアント
type Client struct {
	Hub       *Hub
	Conn      *Conn
	DisplayID string
	Send      chan []byte
}

// Hub WebSocket 接続管理（全ディスプレイへのブロードキャストのみ）
type Hub struct {
	// 接続中のディスプレイ
	clients map[*Client]bool

	// クライアント登録
	register chan *Client

	// クライアント登録解除
	unregister chan *Client

	// メッセージブロードキャスト
	broadcast chan []byte

	mu sync.RWMutex
}

// NewHub Hub 生成
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run Hub 実行
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			logger.Info("Kitchen display connected", map[string]interface{}{
				"display_id":     client.DisplayID,
				"total_displays": count,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			logger.Info("Kitchen display disconnected", map[string]interface{}{
				"display_id":         client.DisplayID,
				"remaining_displays": count,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
					// 送信成功
				default:
					// Send チャネルが詰まっている場合は非同期で切断
					go h.Unregister(client)
					logger.Warn("Display send buffer full, disconnecting", map[string]interface{}{
						"display_id": client.DisplayID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast 全ディスプレイにメッセージを送信
func (h *Hub) Broadcast(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal broadcast message", err, nil)
		return err
	}

	select {
	case h.broadcast <- data:
		return nil
	default:
		logger.Warn("Broadcast channel full, message dropped", nil)
		return nil // ディスプレイは次回リロードで追い付くため損失を許容
	}
}

// Register クライアント登録
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister クライアント登録解除
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// DisplayCount 接続中のディスプレイ数
func (h *Hub) DisplayCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
