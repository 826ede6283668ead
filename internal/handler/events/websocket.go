package events

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	simService "github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
	"github.com/zhouzirui/interview-sim/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler 推送模拟状态变化的处理器（WebSocket 与 SSE）
type Handler struct {
	simSvc            *simService.Service
	upgrader          websocket.Upgrader
	pingInterval      time.Duration
	heartbeatInterval time.Duration
}

// New 创建事件处理器
func New(simSvc *simService.Service) *Handler {
	return &Handler{
		simSvc: simSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingInterval:      54 * time.Second,
		heartbeatInterval: 15 * time.Second,
	}
}

// RegisterRoutes 注册事件路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/simulations/{simID}/ws", h.handleWebSocket)
	r.Get("/simulations/{simID}/events", h.handleSSE)
}

type outgoingMessage struct {
	Type         string      `json:"type"`
	SimulationID string      `json:"simulationId,omitempty"`
	Data         interface{} `json:"data,omitempty"`
	Timestamp    int64       `json:"timestamp"`
}

func stateMessage(view simService.View) outgoingMessage {
	return outgoingMessage{
		Type:         "state",
		SimulationID: view.SimulationID,
		Data:         view,
		Timestamp:    time.Now().Unix(),
	}
}

// handleWebSocket 推送状态；客户端只读，入站消息被忽略
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sim, err := h.simSvc.Get(r.Context(), chi.URLParam(r, "simID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Str("component", "websocket").Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	feed, unsubscribe := sim.Subscribe()
	defer unsubscribe()

	log.Info().Str("component", "websocket").Str("simulation", sim.ID()).Msg("connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.readLoop(cancel, conn)

	if err := h.write(conn, stateMessage(sim.View())); err != nil {
		return
	}

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case view, ok := <-feed:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "simulation closed"))
				return
			}
			if err := h.write(conn, stateMessage(view)); err != nil {
				return
			}
		}
	}
}

// readLoop 处理 pong 与关闭帧，连接断开时取消写循环
func (h *Handler) readLoop(cancel context.CancelFunc, conn *websocket.Conn) {
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Str("component", "websocket").Err(err).Msg("read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))
	}
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		log.Warn().Str("component", "websocket").Err(err).Msg("write failed")
		return err
	}
	return nil
}
