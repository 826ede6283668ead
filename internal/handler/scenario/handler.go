package scenario

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/pkg/utils"
)

// Handler 场景目录的HTTP处理器
type Handler struct {
	scenarios scenario.Store
}

// New 创建场景处理器
func New(scenarios scenario.Store) *Handler {
	return &Handler{
		scenarios: scenarios,
	}
}

// RegisterRoutes 注册场景相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scenarios", h.handleListScenarios)
}

// handleListScenarios 列出所有场景
func (h *Handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.scenarios.List())
}
