package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// message type constants for websocket communication
const (
	// is sent by the client to start an animation
	TypeAnimate = "animate"

	// is sent while a long operation makes progress
	TypeProgress = "progress"

	// is sent once with the finished media
	TypeResult = "result"

	// is sent when an error occurs
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"
)

// stream connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// time allowed for the client to send its request after connecting
	requestWait = 30 * time.Second

	// maximum message size allowed from peer; requests carry a base64 image
	maxMessageSize = 16 << 20 // 16 MB

	// outbound messages queued before the stream gives up on a slow reader
	sendBufferSize = 32
)

// errors
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrInvalidMessage   = errors.New("invalid message format")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// contains a human readable progress milestone
type ProgressPayload struct {
	Message string `json:"message"`
}

// a single websocket connection serving one request/response exchange
type Stream struct {
	// unique identifier for this connection
	ID string

	// authenticated user
	UserID string

	conn *websocket.Conn

	// buffered channel of outbound messages
	send chan []byte

	mu     sync.RWMutex
	closed bool
}
