package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/nfscan/invoice-extract-service/internal/auth"
	"github.com/nfscan/invoice-extract-service/internal/db"
	"github.com/nfscan/invoice-extract-service/internal/export"
	"github.com/nfscan/invoice-extract-service/internal/services"
	"github.com/nfscan/invoice-extract-service/internal/storage"
)

// CreateNota inserts a manually entered nota. The payload is validated
// against the nota schema; the documento check digits only produce
// warnings in the response.
func (h *Handler) CreateNota(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validateNotaPayload(payload); err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	var input struct {
		NumeroNF    string  `json:"numeroNF"`
		DataEmissao string  `json:"dataEmissao"`
		Cliente     string  `json:"cliente"`
		Documento   string  `json:"documento"`
		Valor       float64 `json:"valor"`
		Descricao   string  `json:"descricao"`
		Tipo        string  `json:"tipo"`
		Estado      string  `json:"estado"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if input.Tipo == "" {
		input.Tipo = "NF-e"
	}
	if input.Estado == "" {
		input.Estado = "confirmada"
	}

	nota := &db.Nota{
		NumeroNF:   input.NumeroNF,
		Cliente:    input.Cliente,
		Documento:  input.Documento,
		Valor:      input.Valor,
		Descricao:  input.Descricao,
		Tipo:       input.Tipo,
		Method:     "manual",
		Confidence: 100,
		Estado:     input.Estado,
	}
	if t, err := time.Parse("2006-01-02", input.DataEmissao); err == nil {
		nota.DataEmissao = &t
	}

	if err := db.SaveNota(r.Context(), claims.OrgAlias, nota); err != nil {
		h.log.Error().Err(err).Msg("falha ao salvar nota")
		h.sendError(w, http.StatusInternalServerError, "failed to save nota")
		return
	}

	validation := services.ValidateDocumento(input.Documento)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"nota":      nota,
		"documento": validation,
	})
}

// GetNotas lists the organization's notas, newest first.
func (h *Handler) GetNotas(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	notas, err := db.GetNotas(r.Context(), claims.OrgAlias, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("falha ao listar notas")
		h.sendError(w, http.StatusInternalServerError, "failed to list notas")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"notas": notas,
		"count": len(notas),
	})
}

// GetNota returns one nota, with a presigned URL for its archived
// source document when available.
func (h *Handler) GetNota(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid nota id")
		return
	}

	nota, err := db.GetNotaByID(r.Context(), claims.OrgAlias, id)
	if err != nil {
		h.sendError(w, http.StatusNotFound, "nota not found")
		return
	}

	response := map[string]interface{}{"nota": nota}
	if nota.ArquivoURL != "" && storage.Client != nil {
		if url, err := storage.GetPresignedURL(r.Context(), nota.ArquivoURL); err == nil {
			response["arquivoUrl"] = url
		}
	}
	json.NewEncoder(w).Encode(response)
}

// UpdateNota applies a partial update to a nota.
func (h *Handler) UpdateNota(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid nota id")
		return
	}

	var input map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Map JSON field names onto columns
	columns := map[string]string{
		"numeroNF":    "numero_nf",
		"dataEmissao": "data_emissao",
		"cliente":     "cliente",
		"documento":   "documento",
		"valor":       "valor",
		"descricao":   "descricao",
		"tipo":        "tipo",
		"estado":      "estado",
	}
	updates := map[string]interface{}{}
	for field, value := range input {
		col, ok := columns[field]
		if !ok {
			h.sendError(w, http.StatusBadRequest, fmt.Sprintf("unknown field: %s", field))
			return
		}
		updates[col] = value
	}

	if err := db.UpdateNota(r.Context(), claims.OrgAlias, id, updates); err != nil {
		h.sendError(w, http.StatusNotFound, err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
}

// DeleteNota removes a nota and its archived document.
func (h *Handler) DeleteNota(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid nota id")
		return
	}

	nota, err := db.GetNotaByID(r.Context(), claims.OrgAlias, id)
	if err != nil {
		h.sendError(w, http.StatusNotFound, "nota not found")
		return
	}

	if err := db.DeleteNota(r.Context(), claims.OrgAlias, id); err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to delete nota")
		return
	}

	if nota.ArquivoURL != "" && storage.Client != nil {
		if err := storage.DeleteDocument(r.Context(), nota.ArquivoURL); err != nil {
			h.log.Warn().Err(err).Msg("falha ao remover documento arquivado")
		}
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

// ExportNotas streams the organization's notas as an xlsx download.
func (h *Handler) ExportNotas(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	limit := 1000
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 5000 {
			limit = n
		}
	}

	notas, err := db.GetNotas(r.Context(), claims.OrgAlias, limit)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to list notas")
		return
	}

	buf, err := export.BuildNotasXLSX(notas)
	if err != nil {
		h.log.Error().Err(err).Msg("falha ao gerar planilha")
		h.sendError(w, http.StatusInternalServerError, "failed to build spreadsheet")
		return
	}

	filename := fmt.Sprintf("notas_%s_%s.xlsx", claims.OrgAlias, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}
