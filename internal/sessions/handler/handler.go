package handler

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"erpsessions/internal/sessions"
	dErrors "erpsessions/pkg/domain-errors"
	"erpsessions/pkg/platform/httputil"
	"erpsessions/pkg/requestcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/favicon.ico
var favicon []byte

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Service defines the interface for active session reporting.
type Service interface {
	FetchActiveUsers(ctx context.Context) (*sessions.Report, error)
}

// Handler serves the active-user report as JSON and HTML.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new sessions Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register registers the page, report and favicon routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/showusers", h.handleShowUsers)
	r.Get("/SageErpUsers", h.handleActiveUsers)
	r.Get("/api/v1/active-users", h.handleActiveUsers)
	r.Get("/favicon.ico", h.handleFavicon)
}

func (h *Handler) handleActiveUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.FetchActiveUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build active users report",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteMessage(w, http.StatusInternalServerError, unexpectedError(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toActiveUsersResponse(report))
}

func (h *Handler) handleShowUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.FetchActiveUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build current users page",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		h.render(w, r, http.StatusInternalServerError, "current_users.html", currentUsersPage{
			Error: clientMessage(err),
		})
		return
	}

	h.render(w, r, http.StatusOK, "current_users.html", currentUsersPage{
		Users:        report.Users,
		AppUserCount: report.AppUserCount,
		BIUserCount:  report.BIUserCount,
	})
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home.html", nil)
}

func (h *Handler) handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/x-icon")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(favicon)
}

// render executes into a buffer so a template failure can still produce a 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		ctx := r.Context()
		h.logger.ErrorContext(ctx, "failed to render template",
			"template", name,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// clientMessage returns the client-safe description of err.
func clientMessage(err error) string {
	if de, ok := dErrors.As(err); ok && de.Message != "" {
		return de.Message
	}
	return "internal error"
}

func unexpectedError(err error) string {
	return fmt.Sprintf("Unexpected Error: %s", clientMessage(err))
}
