package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/abdulmls2/trading-dashboard-sub001/internal/compliance"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/models"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/report"
	"github.com/abdulmls2/trading-dashboard-sub001/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log        *zap.Logger
	db         *gorm.DB
	rules      *store.RuleStore
	violations *store.ViolationStore
	trades     *store.TradeStore
	engine     *compliance.Engine
	reporter   *report.Reporter
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB, rules *store.RuleStore, violations *store.ViolationStore,
	trades *store.TradeStore, engine *compliance.Engine, reporter *report.Reporter) *APIHandler {
	return &APIHandler{
		log:        log,
		db:         db,
		rules:      rules,
		violations: violations,
		trades:     trades,
		engine:     engine,
		reporter:   reporter,
	}
}

// Register wires all API routes onto the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/rules", h.ListRulesHandler)
	mux.HandleFunc("POST /api/rules", h.UpsertRuleHandler)
	mux.HandleFunc("DELETE /api/rules/{id}", h.DeleteRuleHandler)
	mux.HandleFunc("POST /api/trades", h.CreateTradeHandler)
	mux.HandleFunc("DELETE /api/trades/{id}", h.DeleteTradeHandler)
	mux.HandleFunc("GET /api/trades/{id}/violations/summary", h.TradeViolationSummaryHandler)
	mux.HandleFunc("GET /api/violations", h.ListViolationsHandler)
	mux.HandleFunc("POST /api/violations/{id}/acknowledge", h.AcknowledgeHandler)
}

// writeJSON serializes a response body with the given status.
func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			h.log.Error("Failed to encode response", zap.Error(err))
		}
	}
}

// writeError maps engine errors onto HTTP statuses: caller mistakes become
// 400/404, everything else is a 500 with the detail kept in the server log.
func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.Is(err, store.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.log.Error("Request failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, &store.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return uint(id), nil
}

// queryUint parses an optional unsigned query parameter; absent means zero.
func queryUint(r *http.Request, name string) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, &store.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return uint(v), nil
}

// ListRulesHandler returns all discipline rules for a user.
func (h *APIHandler) ListRulesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUint(r, "user_id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if userID == 0 {
		h.writeError(w, &store.ValidationError{Field: "user_id", Reason: "is required"})
		return
	}

	ruleSet, err := h.rules.ListRules(userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ruleSet)
}

// upsertRuleRequest is the body for creating or replacing a rule.
type upsertRuleRequest struct {
	UserID        uint     `json:"user_id"`
	RuleType      string   `json:"rule_type"`
	AllowedValues []string `json:"allowed_values"`
}

// UpsertRuleHandler creates a rule or replaces the allowed values of the
// user's existing rule of the same kind.
func (h *APIHandler) UpsertRuleHandler(w http.ResponseWriter, r *http.Request) {
	var req upsertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &store.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	kind, err := models.ParseRuleKind(req.RuleType)
	if err != nil {
		h.writeError(w, &store.ValidationError{Field: "rule_type", Reason: err.Error()})
		return
	}

	rule, err := h.rules.UpsertRule(req.UserID, kind, req.AllowedValues)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rule)
}

// DeleteRuleHandler removes a rule; deleting an unknown id still returns 204.
func (h *APIHandler) DeleteRuleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.rules.DeleteRule(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createTradeRequest is the body for logging a trade.
type createTradeRequest struct {
	UserID     uint      `json:"user_id"`
	Pair       string    `json:"pair"`
	Action     string    `json:"action"`
	Direction  string    `json:"direction"`
	Lots       float64   `json:"lots"`
	ProfitLoss float64   `json:"profit_loss"`
	ExecutedAt time.Time `json:"executed_at"`
}

// createTradeResponse returns the saved trade together with whatever
// discipline rules it broke.
type createTradeResponse struct {
	Trade      models.Trade       `json:"trade"`
	Violations []models.Violation `json:"violations"`
}

// CreateTradeHandler logs a trade and immediately runs the compliance check
// against the owner's current rule set.
func (h *APIHandler) CreateTradeHandler(w http.ResponseWriter, r *http.Request) {
	var req createTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, &store.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}
	if req.UserID == 0 {
		h.writeError(w, &store.ValidationError{Field: "user_id", Reason: "is required"})
		return
	}

	trade := models.Trade{
		UserID:     req.UserID,
		Pair:       req.Pair,
		Action:     req.Action,
		Direction:  req.Direction,
		Lots:       req.Lots,
		ProfitLoss: req.ProfitLoss,
		ExecutedAt: req.ExecutedAt,
	}
	if err := h.trades.Create(&trade); err != nil {
		h.writeError(w, err)
		return
	}

	violations, err := h.engine.CheckTrade(r.Context(), trade)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, createTradeResponse{Trade: trade, Violations: violations})
}

// DeleteTradeHandler removes a trade and, with it, its violations.
func (h *APIHandler) DeleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.trades.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tradeViolationSummary is the facade projection for one trade.
type tradeViolationSummary struct {
	HasViolations  bool  `json:"has_violations"`
	Unacknowledged int64 `json:"unacknowledged"`
}

// TradeViolationSummaryHandler answers "does this trade have violations and
// how many still need review".
func (h *APIHandler) TradeViolationSummaryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	has, err := h.reporter.TradeHasViolations(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	pending, err := h.reporter.UnacknowledgedCount(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, tradeViolationSummary{HasViolations: has, Unacknowledged: pending})
}

// violationResponse augments a joined violation record with its one-line
// description.
type violationResponse struct {
	store.ViolationRecord
	RuleLabel   string `json:"rule_label"`
	Description string `json:"description"`
}

// ListViolationsHandler lists violations by user, by trade, or — for
// administrators only — across all users.
func (h *APIHandler) ListViolationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUint(r, "user_id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	tradeID, err := queryUint(r, "trade_id")
	if err != nil {
		h.writeError(w, err)
		return
	}
	all := r.URL.Query().Get("all") == "true"

	if all && !h.isAdmin(r) {
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "administrator access required"})
		return
	}

	records, err := h.violations.ListViolations(store.ViolationFilter{
		UserID:  userID,
		TradeID: tradeID,
		All:     all,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]violationResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, violationResponse{
			ViolationRecord: rec,
			RuleLabel:       rec.RuleType.Label(),
			Description:     report.Describe(rec.Violation),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// isAdmin resolves the acting user from the X-User-ID header set by the
// upstream identity layer and checks the admin flag.
func (h *APIHandler) isAdmin(r *http.Request) bool {
	actingID, err := strconv.ParseUint(r.Header.Get("X-User-ID"), 10, 32)
	if err != nil {
		return false
	}

	var user models.User
	if err := h.db.First(&user, uint(actingID)).Error; err != nil {
		return false
	}
	return user.IsAdmin
}

// AcknowledgeHandler marks a violation as reviewed. Acknowledging twice is a
// no-op, not an error.
func (h *APIHandler) AcknowledgeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	violation, err := h.violations.Acknowledge(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, violation)
}
