package inspection

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inspecciones/webapp/internal/formstore"
	"inspecciones/webapp/internal/logger"
	apperrors "inspecciones/webapp/internal/pkg/errors"
	httppkg "inspecciones/webapp/internal/pkg/http"
)

const maxDraftBody = 64 << 10

type Handler struct {
	api       API
	storeOpts formstore.Options
	sizeWarn  int
}

func NewHandler(api API, storeOpts formstore.Options, sizeWarn int) *Handler {
	if sizeWarn <= 0 || sizeWarn > formstore.MaxCookieBytes {
		sizeWarn = formstore.MaxCookieBytes
	}
	return &Handler{api: api, storeOpts: storeOpts, sizeWarn: sizeWarn}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/inspections/{id}", h.HandlePage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/inspections/{id}/draft", h.HandleGetDraft)
		r.Put("/inspections/{id}/draft", h.HandleSaveDraft)
		r.Delete("/inspections/{id}/draft", h.HandleClearDraft)
		r.Post("/inspections/{id}/submit", h.HandleSubmit)

		r.Get("/drafts", h.HandleListDrafts)
		r.Delete("/drafts", h.HandleClearDrafts)
		r.Post("/drafts/cleanup", h.HandleCleanupDrafts)
	})
}

// storeFor builds the draft store for one request over its cookies.
func (h *Handler) storeFor(w http.ResponseWriter, r *http.Request) *formstore.Store {
	return formstore.NewStore(formstore.NewCookieMedium(w, r), h.storeOpts)
}

func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	store := h.storeFor(w, r)
	store.CleanupExpired()

	insp, err := h.api.Fetch(r.Context(), id)
	if err != nil {
		logger.Warn("Inspection %d not loaded from API: %v", id, err)
		insp = &Inspection{ID: id}
	}

	data := PageData{Submitted: r.URL.Query().Get("submitted") == "1"}
	if snap, found := store.Load(id); found {
		insp.Restore(snap)
		data.Recovered = len(snap.Items) > 0
		data.SavedAt = snap.CreatedTime()
		data.DraftBytes = store.MeasureSize(id)
		data.NearLimit = data.DraftBytes >= h.sizeWarn
	}
	data.Inspection = *insp

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := InspectionPage(data).Render(r.Context(), w); err != nil {
		logger.Error("render inspection %d: %v", id, err)
	}
}

type draftResponse struct {
	Recovered bool                `json:"recovered"`
	Status    string              `json:"status"`
	SizeBytes int                 `json:"sizeBytes"`
	Snapshot  *formstore.Snapshot `json:"snapshot,omitempty"`
}

func (h *Handler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	res := h.storeFor(w, r).Inspect(id)

	resp := draftResponse{Status: res.Status.String()}
	if res.Found() {
		snap := res.Snapshot
		resp.Snapshot = &snap
		resp.Recovered = len(snap.Items) > 0
		resp.SizeBytes = len(res.Raw)
	}
	httppkg.WriteJSON(w, http.StatusOK, resp)
}

type saveResponse struct {
	Saved     bool `json:"saved"`
	SizeBytes int  `json:"sizeBytes"`
	NearLimit bool `json:"nearLimit"`
}

func (h *Handler) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	store := h.storeFor(w, r)
	state, _, err := readState(r, store, id)
	if err != nil {
		httppkg.WriteError(w, bodyError(err))
		return
	}

	resp := saveResponse{Saved: store.Save(id, state)}
	if resp.Saved {
		resp.SizeBytes = store.MeasureSize(id)
		resp.NearLimit = resp.SizeBytes >= h.sizeWarn
		if resp.NearLimit {
			logger.Warn("Form draft %d is %d bytes, close to the cookie limit", id, resp.SizeBytes)
		}
	}
	httppkg.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleClearDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	cleared := h.storeFor(w, r).Clear(id)
	httppkg.WriteJSON(w, http.StatusOK, map[string]bool{"cleared": cleared})
}

// HandleSubmit forwards the form to the inspections API. The request body
// wins; an empty body submits the saved draft. The draft is cleared only
// after the API accepted the record. Browser form posts are redirected back
// to the page.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	store := h.storeFor(w, r)

	state, empty, err := readState(r, store, id)
	if err != nil {
		httppkg.WriteError(w, bodyError(err))
		return
	}
	if empty {
		snap, found := store.Load(id)
		if !found {
			httppkg.WriteError(w, apperrors.BadRequest("no form data to submit"))
			return
		}
		state = snap.State()
	}

	result, err := h.api.Submit(r.Context(), id, state)
	if err != nil {
		logger.Error("Submit inspection %d failed: %v", id, err)
		msg := "inspections API unavailable"
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		httppkg.WriteError(w, apperrors.BadGateway(msg))
		return
	}

	cleared := store.Clear(id)
	logger.Info("Inspection %d submitted (draft cleared: %v)", id, cleared)
	if httppkg.IsForm(r) {
		http.Redirect(w, r, pagePath(id)+"?submitted=1", http.StatusSeeOther)
		return
	}
	httppkg.WriteJSON(w, http.StatusOK, map[string]any{
		"submitted":    true,
		"draftCleared": cleared,
		"result":       result,
	})
}

func (h *Handler) HandleListDrafts(w http.ResponseWriter, r *http.Request) {
	ids := h.storeFor(w, r).ListSavedEntityIDs()
	httppkg.WriteJSON(w, http.StatusOK, map[string][]int{"ids": ids})
}

func (h *Handler) HandleClearDrafts(w http.ResponseWriter, r *http.Request) {
	cleared := h.storeFor(w, r).ClearAll()
	httppkg.WriteJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (h *Handler) HandleCleanupDrafts(w http.ResponseWriter, r *http.Request) {
	removed := h.storeFor(w, r).CleanupExpired()
	httppkg.WriteJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// readState decodes a JSON body or a form post. Form fields apply over the
// saved draft. empty reports a body that carried nothing.
func readState(r *http.Request, store *formstore.Store, id int) (formstore.State, bool, error) {
	var state formstore.State
	if !httppkg.IsForm(r) {
		empty, err := httppkg.DecodeJSON(r, maxDraftBody, &state)
		return state, empty, err
	}

	form, err := httppkg.DecodeForm(r, maxDraftBody)
	if err != nil {
		return state, false, err
	}
	if len(form) == 0 {
		return state, true, nil
	}
	draft, _ := store.Load(id)
	state, err = stateFromForm(form, draft.State())
	return state, false, err
}

func pagePath(id int) string {
	return "/inspections/" + strconv.Itoa(id)
}

func entityID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		httppkg.WriteError(w, apperrors.BadRequest("invalid inspection id: "+raw))
		return 0, false
	}
	return id, true
}

func bodyError(err error) error {
	if errors.Is(err, httppkg.ErrBodyTooLarge) {
		return apperrors.RequestTooLarge("form data too large")
	}
	return apperrors.BadRequest("invalid form data")
}
