package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/settingbr/setting/internal/setting/domain"
	"github.com/settingbr/setting/internal/setting/service"
	"github.com/settingbr/setting/pkg/httpx"
	"github.com/settingbr/setting/pkg/sessionx"
	"github.com/settingbr/setting/pkg/slogx"
)

type DocumentsHandler struct {
	Docs  *service.DocTemplateService
	Views *views
}

type documentsPage struct {
	Docs  []domain.DocTemplate
	Error string
}

func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "")
}

func (h *DocumentsHandler) renderList(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	sess, _ := sessionx.FromContext(r.Context())
	docs, err := h.Docs.List(r.Context(), sess.OrganizationID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list doc templates", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Views.render(w, status, "documents", documentsPage{Docs: docs, Error: errMsg})
}

func (h *DocumentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	_, err := h.Docs.Add(ctx, sess.OrganizationID, sess.UserID,
		r.FormValue("name"), r.FormValue("body"))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			h.renderList(w, r, http.StatusBadRequest, "Informe um nome para o modelo.")
			return
		}
		slogx.FromContext(ctx).Error("failed to add doc template", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.SeeOther(w, r, "/documentos")
}

func (h *DocumentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err := h.Docs.Update(ctx, sess.OrganizationID, r.FormValue("doc_id"),
		r.FormValue("name"), r.FormValue("body"))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			http.NotFound(w, r)
			return
		}
		slogx.FromContext(ctx).Error("failed to update doc template", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	httpx.SeeOther(w, r, "/documentos")
}

// Render answers with the filled-in document as plain text, ready to copy
// or print.
func (h *DocumentsHandler) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := sessionx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	out, err := h.Docs.Render(ctx, sess.OrganizationID, r.FormValue("doc_id"), service.RenderFields{
		ProfessionalName:  r.FormValue("profissional_nome"),
		CRP:               r.FormValue("crp"),
		PatientName:       r.FormValue("paciente_nome"),
		Date:              r.FormValue("data"),
		ToleranceMinutes:  r.FormValue("tolerancia_min"),
		PaymentRules:      r.FormValue("pagamento_regras"),
		ReschedulingRules: r.FormValue("reagendamento_regras"),
		ContactWindow:     r.FormValue("janela_contato"),
	})
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			httpx.SeeOther(w, r, "/documentos")
			return
		}
		slogx.FromContext(ctx).Error("failed to render doc template", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}
