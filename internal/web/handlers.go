package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	log      *zap.SugaredLogger
	renderer *Renderer
}

// HandleList handles GET /molecules, optionally filtered by batch.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	batchID := r.URL.Query().Get("batch_id")

	input := ops.ListInput{
		BatchID:        ptrString(batchID),
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Molecules",
			Version: h.renderer.version,
			Nav:     "molecules",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		BatchID:    batchID,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleDetail handles GET /molecules/{id}: the rendered report for one molecule.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("molecule ID is required"))
		return
	}

	mol, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, mol)
		return
	}

	name := displayName(mol.Name, mol.ID)
	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   name,
			Version: h.renderer.version,
			Nav:     "molecules",
		},
		Molecule:     mol,
		RenderedHTML: renderMarkdown(mol.Report),
		DisplayName:  name,
	})
}

// HandleDelete handles DELETE /molecules/{id}: soft-delete a molecule.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("molecule ID is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.log.Infow("molecule deleted", "id", result.ID, "via", "web")

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/molecules")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/molecules", http.StatusFound)
}

// HandlePurge handles POST /molecules/purge: permanently delete soft-deleted molecules.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	var input ops.PurgeInput
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.Purge(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.log.Infow("molecules purged", "count", result.Purged, "via", "web")

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="purge-result">` + template.HTMLEscapeString(result.Message) + `</div>`))
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/molecules?include_deleted=true", http.StatusFound)
}

// HandleDecodeForm handles GET /decode: an empty decode form.
func (h *Handlers) HandleDecodeForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "decode", h.decodePage())
}

// HandleDecode handles POST /decode. Form fields: smiles, name, store.
// A successful stored decode redirects to the molecule page unless the
// client asked for JSON.
func (h *Handlers) HandleDecode(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	data := h.decodePage()
	data.Smiles = r.FormValue("smiles")
	data.Name = r.FormValue("name")
	data.Store = r.FormValue("store") == "true" || r.FormValue("store") == "on"

	result, err := ops.Decode(r.Context(), h.db, h.cfg, ops.DecodeInput{
		SMILES: data.Smiles,
		Name:   data.Name,
		Store:  data.Store,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.log.Debugw("decoded", "name", data.Name, "atoms", result.Molecule.AtomCount(), "stored", result.Stored)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	if result.Stored && r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/molecules/"+result.ID, http.StatusSeeOther)
		return
	}

	data.Result = result
	if r.Header.Get("HX-Target") == "decode-result" {
		h.renderer.renderBlock(w, http.StatusOK, "decode", "decode-result", data)
		return
	}
	h.renderer.renderPage(w, r, "decode", data)
}

// HandleFailures handles GET /batches/{id}/failures.
func (h *Handlers) HandleFailures(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Failures(r.Context(), h.db, ops.FailuresInput{BatchID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "failures", FailuresPageData{
		PageData: PageData{
			Title:   "Batch " + result.Batch.ID,
			Version: h.renderer.version,
			Nav:     "molecules",
		},
		Batch:    result.Batch,
		Failures: result.Failures,
	})
}

func (h *Handlers) decodePage() DecodePageData {
	return DecodePageData{
		PageData: PageData{
			Title:   "Decode",
			Version: h.renderer.version,
			Nav:     "decode",
		},
	}
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// displayName returns the molecule name if present, or a truncated ID.
func displayName(name, id string) string {
	if name != "" {
		return name
	}
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}
