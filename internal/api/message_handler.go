package api

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"inkmatch-backend/internal/core"
	"inkmatch-backend/internal/models"
)

const (
	// Time allowed to write a frame to the peer.
	wsWriteWait = 10 * time.Second
	// Time allowed to read the next pong from the peer.
	wsPongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than wsPongWait.
	wsPingPeriod = (wsPongWait * 9) / 10
)

// MessageHandler handles API endpoints for the per-thread message log,
// including the live WebSocket stream.
type MessageHandler struct {
	messageService core.MessageService
	clientURL      string
}

// NewMessageHandler creates a new MessageHandler. clientURL is the browser
// origin allowed to open the stream.
func NewMessageHandler(ms core.MessageService, clientURL string) *MessageHandler {
	return &MessageHandler{messageService: ms, clientURL: clientURL}
}

// mapMessageErrorToStatus maps errors from core.MessageService to HTTP status codes.
func mapMessageErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrThreadNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrThreadNotFound.Error()}
	case errors.Is(err, core.ErrNotThreadMember):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrNotThreadMember.Error()}
	case errors.Is(err, core.ErrContactInfoBlocked):
		// 422: the message was understood but refused by the content policy.
		statusCode = http.StatusUnprocessableEntity
		errResponse = ErrorResponse{Error: core.ErrContactInfoBlocked.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// SendMessage handles POST /threads/:threadId/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	threadID := c.Param("threadId")
	if threadID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Thread ID is required"})
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	var (
		msg *models.Message
		err error
	)
	switch req.Kind {
	case "", models.MessageKindText:
		msg, err = h.messageService.SendText(c.Request.Context(), threadID, userID.(string), req.Text)
	case models.MessageKindImage:
		if req.ImageURL == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "imageUrl is required for image messages"})
			return
		}
		msg, err = h.messageService.SendImage(c.Request.Context(), threadID, userID.(string), req.ImageURL)
	case models.MessageKindLocation:
		msg, err = h.messageService.SendLocation(c.Request.Context(), threadID, userID.(string), req.Latitude, req.Longitude)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unsupported message kind", Details: string(req.Kind)})
		return
	}
	if err != nil {
		mapMessageErrorToStatus(c, err)
		return
	}
	if msg == nil {
		// Blank text messages are silently dropped.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// ListMessages handles GET /threads/:threadId/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	threadID := c.Param("threadId")
	if threadID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Thread ID is required"})
		return
	}

	messages, err := h.messageService.ListMessages(c.Request.Context(), threadID, userID.(string))
	if err != nil {
		mapMessageErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// StreamMessages handles GET /threads/:threadId/stream. It upgrades to a
// WebSocket and pushes the full ordered message list on every change until
// the client disconnects.
func (h *MessageHandler) StreamMessages(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return
	}
	threadID := c.Param("threadId")
	if threadID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Thread ID is required"})
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Buffered so a slow socket write never blocks the snapshot listener.
	updates := make(chan []*models.Message, 8)
	stop, err := h.messageService.Subscribe(c.Request.Context(), threadID, userID.(string), func(msgs []*models.Message) {
		select {
		case updates <- msgs:
		default:
			// Drop stale intermediate snapshots; the next one supersedes them.
		}
	})
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(wsWriteWait))
		return
	}
	defer stop()

	// Reader goroutine: detects client disconnect and keeps pongs flowing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msgs := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msgs); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

// checkOrigin admits same-host requests and the configured client origin.
func (h *MessageHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return strings.EqualFold(strings.TrimSuffix(origin, "/"), strings.TrimSuffix(h.clientURL, "/"))
}
