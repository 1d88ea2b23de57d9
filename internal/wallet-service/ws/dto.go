package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: ping (qualquer outro tipo é ignorado)
type ClientMsg struct {
	Type string `json:"type"`
}

// ServerMsg é o envelope enviado ao cliente
// Type: subscribed | pong | event
type ServerMsg struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}
