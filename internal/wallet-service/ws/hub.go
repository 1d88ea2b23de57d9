package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/radieske/raphbet-wallet/internal/wallet"
)

// conn serializa as escritas: gorilla não aceita writers concorrentes
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(2 * time.Second))
	return c.ws.WriteJSON(v)
}

// Hub entrega os eventos da carteira para os clientes WebSocket da sessão
// (é o feed que a UI usa para os toasts de aposta ganha/perdida)
// subs: mapeia sessionID para o conjunto de conexões
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[string]map[*conn]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*conn]struct{}),
	}
}

// Serve faz o upgrade e mantém a conexão inscrita em sessionID até o cliente sair
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &conn{ws: wsConn}
	defer wsConn.Close()

	h.mu.Lock()
	if _, ok := h.subs[sessionID]; !ok {
		h.subs[sessionID] = make(map[*conn]struct{})
	}
	h.subs[sessionID][c] = struct{}{}
	h.mu.Unlock()

	defer h.remove(sessionID, c)

	if err := c.writeJSON(ServerMsg{Type: "subscribed", SessionID: sessionID}); err != nil {
		return
	}

	for {
		var msg ClientMsg
		if err := wsConn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == "ping" {
			_ = c.writeJSON(ServerMsg{Type: "pong"})
		}
	}
}

func (h *Hub) remove(sessionID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
}

// Subscribers retorna quantos clientes estão inscritos na sessão
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}

func (h *Hub) Name() string { return "websocket" }

// Publish envia o evento para todos os clientes inscritos na sessão do evento.
// Falha de escrita em um cliente fecha só aquela conexão.
func (h *Hub) Publish(_ context.Context, ev wallet.Event) error {
	h.mu.RLock()
	conns := make([]*conn, 0, len(h.subs[ev.SessionID]))
	for c := range h.subs[ev.SessionID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.writeJSON(ServerMsg{Type: "event", SessionID: ev.SessionID, Payload: ev}); err != nil {
			_ = c.ws.Close()
		}
	}
	return nil
}
