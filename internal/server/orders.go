package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amara-nwosu/patient-intake/internal/store"
)

// decodeOrderBody reads and schema-validates an order payload.
func decodeOrderBody(r *http.Request) (store.OrderParams, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxUploadSize))
	if err != nil {
		return store.OrderParams{}, fmt.Errorf("read body: %w", err)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return store.OrderParams{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiledOrderSchema.Validate(raw); err != nil {
		return store.OrderParams{}, err
	}

	var params store.OrderParams
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&params); err != nil {
		return store.OrderParams{}, fmt.Errorf("decode order: %w", err)
	}
	return params, nil
}

func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	params, err := decodeOrderBody(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	order, err := s.store.CreateOrder(r.Context(), params)
	if err != nil {
		s.logger.Error("order.create.fail", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	orders, err := s.store.ListOrders(r.Context(), skip, limit)
	if err != nil {
		s.logger.Error("order.list.fail", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := s.store.GetOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		s.logger.Error("order.get.fail", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	params, err := decodeOrderBody(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	order, err := s.store.UpdateOrder(r.Context(), id, params)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		s.logger.Error("order.update.fail", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not update order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteOrder(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		s.logger.Error("order.delete.fail", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not delete order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"detail": fmt.Sprintf("Order %d deleted", id),
	})
}

func (s *Server) ExportOrders(w http.ResponseWriter, r *http.Request) {
	data, err := s.export.ExportOrdersXLSX(r.Context())
	if err != nil {
		s.logger.Error("order.export.fail", "error", err)
		writeError(w, http.StatusInternalServerError, "could not export orders")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// pathID parses the {id} route variable. The route pattern already
// restricts it to digits, so a parse failure means overflow.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid order id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
