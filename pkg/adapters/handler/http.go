package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wadjakorntonsri/go-shortlink/pkg/core/domain"
	"github.com/wadjakorntonsri/go-shortlink/pkg/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

type HTTPHandler struct {
	service ports.LinkService
	baseURL string
	log     *logrus.Logger
	tpl     *template.Template
}

func NewHTTPHandler(service ports.LinkService, baseURL string, log *logrus.Logger) *HTTPHandler {
	return &HTTPHandler{
		service: service,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     log,
		tpl:     template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Index renders the submission form
func (h *HTTPHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", nil)
}

// Create handles the submission form
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	submitted := strings.TrimSpace(r.FormValue("url_submit_field"))

	link, err := h.service.CreateLink(r.Context(), submitted)
	if errors.Is(err, domain.ErrInvalidURL) {
		h.render(w, http.StatusUnprocessableEntity, "message.html", messageData{
			Title:  "The request could not be processed",
			Detail: "The specified URL (" + submitted + ") is invalid.",
		})
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.render(w, http.StatusCreated, "link_created.html", struct {
		BaseURL       string
		ShortCode     string
		DeletionToken string
	}{h.baseURL, link.ShortCode, link.DeletionToken})
}

// Redirect resolves a short code and counts the click
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	targetURL, err := h.service.Resolve(r.Context(), code)
	if errors.Is(err, domain.ErrLinkNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	http.Redirect(w, r, targetURL, http.StatusFound)
}

// DeletionForm renders the deletion form when the code exists
func (h *HTTPHandler) DeletionForm(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	exists, err := h.service.DeletionViewExists(r.Context(), code)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if !exists {
		h.notFound(w)
		return
	}

	h.render(w, http.StatusOK, "delete_form.html", deleteFormData{ShortCode: code})
}

// ConfirmDeletion handles the deletion form
func (h *HTTPHandler) ConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	token := r.FormValue("deletion_code_field")

	switch err := h.service.ConfirmDeletion(r.Context(), code, token); {
	case err == nil:
		h.render(w, http.StatusOK, "message.html", messageData{
			Title: "The link has been deleted.",
		})
	case errors.Is(err, domain.ErrLinkNotFound):
		h.notFound(w)
	case errors.Is(err, domain.ErrTokenMismatch):
		h.render(w, http.StatusForbidden, "delete_form.html", deleteFormData{
			ShortCode: code,
			Error:     "The deletion code you entered was not valid.",
		})
	default:
		h.internalError(w, r, err)
	}
}

// Stats renders creation time and click count
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	link, err := h.service.Stats(r.Context(), code)
	if errors.Is(err, domain.ErrLinkNotFound) {
		h.notFound(w)
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, "stats.html", struct {
		ShortCode string
		CreatedAt string
		Clicks    int64
	}{
		ShortCode: link.ShortCode,
		CreatedAt: time.Unix(link.CreatedAt, 0).UTC().Format(time.RFC1123),
		Clicks:    link.Clicks,
	})
}

type messageData struct {
	Title  string
	Detail string
}

type deleteFormData struct {
	ShortCode string
	Error     string
}

func (h *HTTPHandler) notFound(w http.ResponseWriter) {
	h.render(w, http.StatusNotFound, "message.html", messageData{
		Title:  "The request could not be processed",
		Detail: "The specified short code does not exist.",
	})
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	h.render(w, http.StatusInternalServerError, "message.html", messageData{
		Title:  "The request could not be processed",
		Detail: "An internal error occurred, please try again later.",
	})
}

func (h *HTTPHandler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.WithError(err).WithField("template", name).Error("render failed")
	}
}
