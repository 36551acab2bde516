package types

const (
	TypeWebsocketPing     = "ping"
	TypeWebsocketPong     = "pong"
	TypeWebsocketGenerate = "generate"
	TypeWebsocketSnapshot = "snapshot"
	TypeWebsocketError    = "error"
)

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebSocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StreamHandler receives one text increment from a streaming
// generation backend.
type StreamHandler func(delta string)
