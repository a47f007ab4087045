package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/melo-wellness/melo/backend/internal/auth"
	adminHandler "github.com/melo-wellness/melo/backend/internal/handler/admin"
	companionHandler "github.com/melo-wellness/melo/backend/internal/handler/companion"
	journalHandler "github.com/melo-wellness/melo/backend/internal/handler/journal"
	roomHandler "github.com/melo-wellness/melo/backend/internal/handler/room"
	middlewarePkg "github.com/melo-wellness/melo/backend/internal/middleware"
	companionModel "github.com/melo-wellness/melo/backend/internal/model/companion"
	companionService "github.com/melo-wellness/melo/backend/internal/service/companion"
	vent "github.com/melo-wellness/melo/backend/internal/service/vent"
	"github.com/melo-wellness/melo/backend/internal/store"
	"github.com/melo-wellness/melo/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. companionSvc and gate may
// be nil when their features are not configured; the companion endpoints
// then fall back to canned replies and the admin surface stays unmounted.
func NewRouter(coordinator *vent.Coordinator, feed *roomHandler.Feed, profiles companionModel.Store, companionSvc *companionService.Service, docs *store.Store, gate *auth.Gate) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		roomHandler.New(coordinator, feed).RegisterRoutes(api)
		companionHandler.New(companionSvc, profiles, docs).RegisterRoutes(api)
		journalHandler.New(docs).RegisterRoutes(api)

		if gate != nil {
			adminHandler.New(gate, coordinator).RegisterRoutes(api)
		}
	})

	return r
}
