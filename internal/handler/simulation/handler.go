package simulation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/report"
	simService "github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
	"github.com/zhouzirui/interview-sim/backend/pkg/utils"
)

// Handler 模拟面试的HTTP处理器
type Handler struct {
	simSvc *simService.Service
	now    func() time.Time
}

// New 创建模拟处理器
func New(simSvc *simService.Service) *Handler {
	return &Handler{
		simSvc: simSvc,
		now:    time.Now,
	}
}

// RegisterRoutes 注册模拟相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/simulations", h.handleCreate)
	r.Get("/simulations/{simID}", h.handleView)
	r.Delete("/simulations/{simID}", h.handleDelete)
	r.Post("/simulations/{simID}/scenario", h.handleStart)
	r.Post("/simulations/{simID}/restart", h.handleRestart)
	r.Delete("/simulations/{simID}/session", h.handleLeave)
	r.Post("/simulations/{simID}/messages", h.handleSubmit)
	r.Post("/simulations/{simID}/resume", h.handleResume)
	r.Post("/simulations/{simID}/evaluation", h.handleFinish)
	r.Get("/simulations/{simID}/report", h.handleReport)
	r.Get("/simulations/{simID}/mail", h.handleMail)
}

type startRequest struct {
	ScenarioKey scenario.Key `json:"scenarioKey"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type resumeRequest struct {
	SessionID string `json:"sessionId"`
	Confirm   bool   `json:"confirm"`
}

type resumeResponse struct {
	Outcome           simService.ResumeOutcome `json:"outcome"`
	NeedsConfirmation bool                     `json:"needsConfirmation,omitempty"`
	Prompt            string                   `json:"prompt,omitempty"`
	View              simService.View          `json:"view"`
}

// handleCreate 创建模拟实例，可选地直接开始某个场景
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload startRequest
	if err := decodeOptional(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sim := h.simSvc.Create(r.Context())
	if payload.ScenarioKey == "" {
		utils.RespondJSON(w, http.StatusCreated, sim.View())
		return
	}

	view, err := sim.Start(r.Context(), payload.ScenarioKey)
	if err != nil {
		_ = h.simSvc.Delete(r.Context(), sim.ID())
		respondSimError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, view)
}

// handleView 返回当前状态
func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, sim.View())
}

// handleDelete 删除模拟实例
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.simSvc.Delete(r.Context(), chi.URLParam(r, "simID")); err != nil {
		respondSimError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleStart 选择场景并开始新会话
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload startRequest
	if err := decodeOptional(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := sim.Start(r.Context(), payload.ScenarioKey)
	if err != nil {
		respondSimError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleRestart 以当前场景重新开始
func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}
	view, err := sim.Restart(r.Context())
	if err != nil {
		respondSimError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleLeave 返回场景菜单
func (h *Handler) handleLeave(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, sim.Leave(r.Context()))
}

// handleSubmit 发送用户消息
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := sim.Submit(r.Context(), payload.Text)
	if err != nil {
		respondSimError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleResume 按会话ID恢复；confirm 字段充当确认对话框
func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var payload resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var prompt string
	confirmer := simService.ConfirmFunc(func(message string) bool {
		prompt = message
		return payload.Confirm
	})

	outcome, err := sim.Resume(r.Context(), payload.SessionID, confirmer)
	if err != nil {
		respondSimError(w, err)
		return
	}

	resp := resumeResponse{Outcome: outcome, View: sim.View()}
	if outcome == simService.ResumeDeclined && !payload.Confirm {
		resp.NeedsConfirmation = true
		resp.Prompt = prompt
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// handleFinish 结束会话并生成评估
func (h *Handler) handleFinish(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}
	result, err := sim.Finish(r.Context())
	if err != nil {
		respondSimError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// handleReport 下载文本报告
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}
	in, err := report.FromView(sim.View(), h.now())
	if err != nil {
		respondSimError(w, err)
		return
	}
	utils.RespondAttachment(w, report.Filename(in.Scenario, in.SessionID), report.Render(in))
}

// handleMail 返回 mailto 链接
func (h *Handler) handleMail(w http.ResponseWriter, r *http.Request) {
	sim, ok := h.lookup(w, r)
	if !ok {
		return
	}
	in, err := report.FromView(sim.View(), h.now())
	if err != nil {
		respondSimError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"url": report.MailIntent(in)})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*simService.Simulation, bool) {
	sim, err := h.simSvc.Get(r.Context(), chi.URLParam(r, "simID"))
	if err != nil {
		respondSimError(w, err)
		return nil, false
	}
	return sim, true
}

// decodeOptional 允许空请求体
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// StatusFor 将服务层错误映射为HTTP状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, simService.ErrEmptyMessage), errors.Is(err, simService.ErrUnknownScenario):
		return http.StatusBadRequest
	case errors.Is(err, simService.ErrSimulationNotFound), errors.Is(err, simService.ErrNoActiveSession):
		return http.StatusNotFound
	case errors.Is(err, simService.ErrBusy), errors.Is(err, simService.ErrSessionReplaced), errors.Is(err, simService.ErrNotEvaluated):
		return http.StatusConflict
	case errors.Is(err, simService.ErrExchangeFailed), errors.Is(err, simService.ErrRecoveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondSimError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Str("component", "http").Err(err).Msg("unexpected simulation error")
	}
	utils.RespondError(w, status, err.Error())
}
