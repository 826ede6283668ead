package events

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/pkg/utils"
)

// handleSSE 以 Server-Sent Events 推送状态，供不支持 WebSocket 的客户端使用
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	sim, err := h.simSvc.Get(r.Context(), chi.URLParam(r, "simID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	feed, unsubscribe := sim.Subscribe()
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	log.Info().Str("component", "sse").Str("simulation", sim.ID()).Msg("stream opened")

	if err := utils.SendSSEEvent(w, flusher, "state", sim.View()); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "sse").Str("simulation", sim.ID()).Msg("stream closed")
			return
		case t := <-ticker.C:
			if err := utils.SendSSEEvent(w, flusher, "heartbeat", map[string]string{
				"time": t.UTC().Format(time.RFC3339),
			}); err != nil {
				return
			}
		case view, ok := <-feed:
			if !ok {
				_ = utils.SendSSEEvent(w, flusher, "closed", map[string]string{"simulationId": sim.ID()})
				return
			}
			if err := utils.SendSSEEvent(w, flusher, "state", view); err != nil {
				return
			}
		}
	}
}
