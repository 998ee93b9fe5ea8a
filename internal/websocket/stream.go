package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"codeberg.org/pixelmind/server/internal/logger"
	"github.com/gorilla/websocket"
)

func NewStream(id, userID string, conn *websocket.Conn) *Stream {
	return &Stream{
		ID:     id,
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// creates a message with a JSON encoded payload
func NewMessage(msgType string, payload any) (*Message, error) {
	msg := &Message{Type: msgType, Timestamp: time.Now().UTC()}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		msg.Payload = raw
	}

	return msg, nil
}

// reads the client's request and decodes its payload into v.
// must be called before ReadPump.
func (s *Stream) ReadRequest(wantType string, v any) error {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(requestWait)) //nolint:errcheck,gosec // G104: websocket setup

	_, raw, err := s.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if msg.Type != wantType {
		return fmt.Errorf("%w: expected %q message, got %q", ErrInvalidMessage, wantType, msg.Type)
	}

	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	return nil
}

// reads until the peer goes away, answering client pings; calls onClose on exit
func (s *Stream) ReadPump(onClose func()) {
	defer onClose()

	s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Warn("websocket error", "stream_id", s.ID, "user_id", s.UserID, "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != TypePing {
			continue
		}

		s.Send(TypePong, nil) //nolint:errcheck,gosec // G104: best effort pong
	}
}

// writes queued messages and keepalive pings until the stream is closed
func (s *Stream) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		s.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				s.conn.WriteMessage(websocket.CloseMessage, closeMsg) //nolint:errcheck,gosec // G104: close message
				return
			}

			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queues a message for the client without blocking
func (s *Stream) Send(msgType string, payload any) error {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrConnectionClosed
	}

	select {
	case s.send <- raw:
		return nil
	default:
		logger.Warn("websocket send buffer full, dropping message", "stream_id", s.ID, "type", msgType)
		return ErrSendBufferFull
	}
}

// sends a progress milestone
func (s *Stream) SendProgress(message string) {
	if err := s.Send(TypeProgress, ProgressPayload{Message: message}); err != nil {
		logger.Debug("progress not delivered", "stream_id", s.ID, "error", err)
	}
}

// flushes queued messages and closes the connection
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// checks if the stream is closed
func (s *Stream) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.closed
}
