package websocket

import (
	"log"
	"time"

	websocketcontrib "github.com/gofiber/contrib/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 50 * time.Second
)

type frameWriter interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
}

// WritePump copies queued frames to conn until the hub closes the client.
// It is the only writer on conn. Done is closed when it returns.
func (c *Client) WritePump(conn frameWriter) {
	defer close(c.done)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocketcontrib.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocketcontrib.TextMessage, frame); err != nil {
				log.Printf("Error sending chat frame to %s: %v", c.UserID, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocketcontrib.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
