package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/interview-sim/backend/internal/handler/events"
	"github.com/zhouzirui/interview-sim/backend/internal/handler/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/handler/simulation"
	middlewarePkg "github.com/zhouzirui/interview-sim/backend/internal/middleware"
	scenarioModel "github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	simService "github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
	"github.com/zhouzirui/interview-sim/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(scenarios scenarioModel.Store, simSvc *simService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	scenarioHandler := scenario.New(scenarios)
	simulationHandler := simulation.New(simSvc)
	eventsHandler := events.New(simSvc)

	r.Route("/api", func(api chi.Router) {
		scenarioHandler.RegisterRoutes(api)
		simulationHandler.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	})

	return r
}
