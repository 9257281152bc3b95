package report

import (
	"encoding/csv"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/transport"
	"github.com/opsarif/ngo-erp/pkg/logger"
)

type ServiceAPI interface {
	Overview(actor *auth.User) (*Overview, error)
	Programs(actor *auth.User, w Window) (*ProgramsReport, error)
	Fundraising(actor *auth.User, w Window) (*FundraisingReport, error)
	Performance(actor *auth.User) ([]PerformanceSummary, error)
	ExportDataset(actor *auth.User, dataset string, w Window) (*Export, error)
	SharedDashboard(actor *auth.User) (map[string]interface{}, error)
	DepartmentDashboard(actor *auth.User) (map[string]interface{}, error)
	MyDashboard(actor *auth.User) (map[string]interface{}, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// windowFromQuery reads optional start_date/end_date params, accepting
// either a bare date or a full RFC 3339 timestamp.
func windowFromQuery(r *http.Request) (Window, error) {
	w := Window{}
	parse := func(raw string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t, nil
			}
		}
		return nil, internal.NewValidationError("dates must be ISO 8601", internal.ErrCodeInvalidDate)
	}

	var err error
	if w.Start, err = parse(r.URL.Query().Get("start_date")); err != nil {
		return w, err
	}
	if w.End, err = parse(r.URL.Query().Get("end_date")); err != nil {
		return w, err
	}
	return w, nil
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return actor, true
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	overview, err := h.Service.Overview(actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, overview)
}

func (h *Handler) Programs(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	rep, err := h.Service.Programs(actor, window)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) Fundraising(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	rep, err := h.Service.Fundraising(actor, window)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	summaries, err := h.Service.Performance(actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summaries)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	window, err := windowFromQuery(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	export, err := h.Service.ExportDataset(actor, chi.URLParam(r, "dataset"), window)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename}))
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	if err := writer.Write(export.Headers); err != nil {
		h.Logger.Error("failed to stream csv export", "error", err, "dataset", export.Filename)
		return
	}
	for _, row := range export.Rows {
		if err := writer.Write(row); err != nil {
			h.Logger.Error("failed to stream csv export", "error", err, "dataset", export.Filename)
			return
		}
	}
	writer.Flush()
}

func (h *Handler) SharedDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.Service.SharedDashboard(actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) DepartmentDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.Service.DepartmentDashboard(actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) MyDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.Service.MyDashboard(actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dashboard)
}
