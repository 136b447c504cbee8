package server

import (
	"net/http"
	"strconv"
)

func (s *Server) ListDeletedOrders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	orders, err := s.store.ListDeletedOrders(r.Context(), limit)
	if err != nil {
		s.logger.Error("deleted.list.fail", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list deleted orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	onlyAPI := true
	if raw := r.URL.Query().Get("only_api"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			onlyAPI = v
		}
	}

	logs, err := s.store.ListActivity(r.Context(), limit, onlyAPI)
	if err != nil {
		s.logger.Error("activity.list.fail", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list activity logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
