package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub 按主题（批次 ID）维护 websocket 客户端并广播事件

// Event 是推送给前端的一条事件
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// 事件类型
const (
	EventTaskUpdate     = "task.update"
	EventBatchDone      = "batch.done"
	EventGalleryRefresh = "gallery.refresh"
)

type envelope struct {
	topic   string
	payload []byte
}

type Hub struct {
	mu         sync.RWMutex
	topics     map[string]map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run 启动事件分发循环，应当在独立 goroutine 中运行
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.topics[client.topic] == nil {
				h.topics[client.topic] = make(map[*Client]bool)
			}
			h.topics[client.topic][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.topics[client.topic]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.topics, client.topic)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			clients := h.topics[msg.topic]
			for client := range clients {
				select {
				case client.send <- msg.payload:
				default:
					// 发送缓冲已满的客户端视为掉线
					delete(clients, client)
					close(client.send)
				}
			}
			if len(clients) == 0 {
				delete(h.topics, msg.topic)
			}
			h.mu.Unlock()
		}
	}
}

// Publish 向主题下所有客户端广播一条事件
func (h *Hub) Publish(topic string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ 事件序列化失败: %v", err)
		return
	}
	select {
	case h.broadcast <- envelope{topic: topic, payload: payload}:
	default:
		// 广播队列打满时丢弃事件，进度流允许有损
	}
}
