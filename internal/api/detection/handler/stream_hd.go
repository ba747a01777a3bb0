package detectionHandler

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 10 * time.Second
	streamFrameTimeout = 5 * time.Second
)

// handleStream answers each binary JPEG/PNG frame with a StreamResult. Text
// messages are ignored; nothing is persisted.
func (h *DetectionHandler) handleStream(c *websocket.Conn) {
	h.log.Info("Detection stream client connected")
	defer h.log.Info("Detection stream client disconnected")

	c.SetReadLimit(h.detectionService.FrameLimit())

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(streamReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			return
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Detection stream error: %v", err)
			}
			return
		}

		if messageType != websocket.BinaryMessage {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), streamFrameTimeout)
		result, err := h.detectionService.DetectFrame(ctx, message)
		cancel()

		if err := c.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			return
		}

		if err != nil {
			h.log.Warnf("Error processing stream frame: %v", err)
			if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if err := c.WriteJSON(result); err != nil {
			h.log.Errorf("Error writing stream result: %v", err)
			return
		}
	}
}
