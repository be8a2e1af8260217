package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/battle-quiz/internal/monitor"
	"github.com/DoyleJ11/battle-quiz/internal/ws"
)

func SetupRoutes(m *monitor.Monitor, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/status", Status(m))
	r.Get("/ws", ws.Handler(m, log))
	return r
}
