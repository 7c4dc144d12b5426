package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/HliasMpGH/StepIn/internal/infrastructure/realtime"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
)

const (
	socketReadLimit = 4 << 10
	pongWait        = 60 * time.Second
)

// MeetingSocketController upgrades a joined participant to a websocket
// session subscribed to their meeting's chat room. Inbound frames are chat
// posts; outbound frames are chat events from the whole room.
type MeetingSocketController struct {
	Live     livestate.Store
	Post     *usecase.PostMessageUseCase
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewMeetingSocketController(live livestate.Store, post *usecase.PostMessageUseCase, hub *realtime.Hub) *MeetingSocketController {
	return &MeetingSocketController{
		Live: live,
		Post: post,
		Hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// socketInbound is the frame clients send to post a message.
type socketInbound struct {
	Text string `json:"text"`
}

type socketError struct {
	Error string `json:"error"`
}

func (h *MeetingSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		meetingID, joined, err := h.Live.JoinedMeeting(ctx, email)
		if err != nil {
			respondError(c, err)
			return
		}
		if !joined {
			c.JSON(http.StatusConflict, gin.H{"error": "user is not joined to any active meeting"})
			return
		}

		ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("websocket upgrade failed")
			return
		}

		conn := realtime.NewConnection(email, ws)
		h.Hub.Attach(conn)
		h.Hub.Join(meetingID, conn)
		defer func() {
			h.Hub.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "bye")
		}()

		ws.SetReadLimit(socketReadLimit)
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				return
			}
			h.handleFrame(c.Request.Context(), conn, email, raw)
		}
	}
}

func (h *MeetingSocketController) handleFrame(ctx context.Context, conn *realtime.Connection, email string, raw []byte) {
	var in socketInbound
	if err := json.Unmarshal(raw, &in); err != nil {
		h.sendError(conn, "frames must be JSON objects with a text field")
		return
	}

	postCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg, err := h.Post.Execute(postCtx, usecase.PostMessageInput{Email: email, Text: in.Text})
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	payload, err := json.Marshal(chatEvent{
		MeetingID: msg.MeetingID,
		Email:     msg.Email,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	})
	if err != nil {
		return
	}
	h.Hub.Broadcast(msg.MeetingID, payload, "")
}

func (h *MeetingSocketController) sendError(conn *realtime.Connection, reason string) {
	payload, err := json.Marshal(socketError{Error: reason})
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}
