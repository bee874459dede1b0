package status

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.GetStatus)
	r.Get("/history", h.GetHistory)

	return r
}

/*
- GET: /api/v1/status   -> latest cycle report (404 before the first cycle)
- GET: /api/v1/history?limit={n}  -> recent persisted cycles (404 without a history db)
*/
