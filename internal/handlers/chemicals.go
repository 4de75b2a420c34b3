package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"labstock/internal/inventory"
	applog "labstock/internal/log"
	"labstock/internal/views/pages"
	"labstock/internal/workspace"
)

const chemicalsPrefix = "/app/api/chemicals"

type lotResponse struct {
	inventory.Lot
	inventory.Assessment
	ChemicalID string `json:"chemicalId"`
}

type chemicalResponse struct {
	inventory.Chemical
	Lots           []lotResponse `json:"lots"`
	ActiveQuantity float64       `json:"activeQuantity"`
	LowStock       bool          `json:"lowStock"`
}

type mutationResponse struct {
	Audit    inventory.AuditEntry   `json:"audit"`
	Chemical *chemicalResponse      `json:"chemical,omitempty"`
	History  workspace.HistoryDepth `json:"history"`
}

// ChemicalResource serves the chemical master records and their lots:
//
//	GET|POST        /app/api/chemicals
//	GET|PUT|DELETE  /app/api/chemicals/{id}
//	POST            /app/api/chemicals/{id}/lots
//	GET             /app/api/chemicals/{id}/lots/{lot}
//	POST            /app/api/chemicals/{id}/lots/{lot}/{action}
func ChemicalResource(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiActor(w, r)
	if !ok {
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, chemicalsPrefix), "/")
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listChemicals(w, r)
		case http.MethodPost:
			createChemical(w, r, actor)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	chemicalID := segments[0]

	switch len(segments) {
	case 1:
		switch r.Method {
		case http.MethodGet:
			showChemical(w, r, chemicalID)
		case http.MethodPut:
			updateChemical(w, r, actor, chemicalID)
		case http.MethodDelete:
			deleteChemical(w, r, actor, chemicalID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case 2:
		if segments[1] != "lots" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		receiveLot(w, r, actor, chemicalID)
	case 3:
		if segments[1] != "lots" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		showLot(w, r, chemicalID, segments[2])
	case 4:
		if segments[1] != "lots" {
			http.NotFound(w, r)
			return
		}
		kind, ok := inventory.ParseActionKind(segments[3])
		if !ok {
			applog.Debug(r.Context(), "unknown lot action", "action", segments[3])
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		applyLotAction(w, r, actor, chemicalID, segments[2], kind)
	default:
		http.NotFound(w, r)
	}
}

func listChemicals(w http.ResponseWriter, r *http.Request) {
	chemicals := stock.Chemicals(pages.FiltersFromRequest(r))
	responses := make([]chemicalResponse, 0, len(chemicals))
	for _, chem := range chemicals {
		responses = append(responses, projectChemical(chem))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showChemical(w http.ResponseWriter, r *http.Request, chemicalID string) {
	chem, err := stock.Chemical(chemicalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectChemical(chem))
}

func showLot(w http.ResponseWriter, r *http.Request, chemicalID, lotID string) {
	chem, lot, err := stock.Lot(chemicalID, lotID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectLot(chem, lot))
}

func createChemical(w http.ResponseWriter, r *http.Request, actor workspace.Actor) {
	var payload inventory.Chemical
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid chemical payload", "error", err)
		writeError(w, r, err)
		return
	}
	payload.ID = ""
	entry, err := stock.Dispatch(r.Context(), actor, inventory.CreateChemical{Chemical: payload})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondMutation(w, http.StatusCreated, entry, entry.EntityID)
}

func updateChemical(w http.ResponseWriter, r *http.Request, actor workspace.Actor, chemicalID string) {
	var payload inventory.Chemical
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid chemical update payload", "error", err)
		writeError(w, r, err)
		return
	}
	entry, err := stock.Dispatch(r.Context(), actor, inventory.UpdateChemical{ID: chemicalID, Chemical: payload})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondMutation(w, http.StatusOK, entry, chemicalID)
}

func deleteChemical(w http.ResponseWriter, r *http.Request, actor workspace.Actor, chemicalID string) {
	entry, err := stock.Dispatch(r.Context(), actor, inventory.DeleteChemical{ID: chemicalID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondMutation(w, http.StatusOK, entry, "")
}

func receiveLot(w http.ResponseWriter, r *http.Request, actor workspace.Actor, chemicalID string) {
	var payload inventory.Lot
	if err := decodeJSON(w, r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid lot payload", "error", err)
		writeError(w, r, err)
		return
	}
	payload.ID = ""
	entry, err := stock.Dispatch(r.Context(), actor, inventory.ReceiveLot{ChemicalID: chemicalID, Lot: payload})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondMutation(w, http.StatusCreated, entry, chemicalID)
}

func applyLotAction(w http.ResponseWriter, r *http.Request, actor workspace.Actor, chemicalID, lotID string, kind inventory.ActionKind) {
	var action inventory.LotAction
	if err := decodeJSON(w, r, &action); err != nil {
		applog.Debug(r.Context(), "invalid lot action payload", "error", err)
		writeError(w, r, err)
		return
	}
	action.Kind = kind
	if (kind == inventory.ActionUsage || kind == inventory.ActionStockIn) && action.Amount <= 0 {
		writeError(w, r, fmt.Errorf("%w: amount must be positive", inventory.ErrValidation))
		return
	}

	entry, err := stock.Dispatch(r.Context(), actor, inventory.ApplyLotAction{
		ChemicalID: chemicalID,
		LotID:      lotID,
		Action:     action,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondMutation(w, http.StatusOK, entry, chemicalID)
}

func respondMutation(w http.ResponseWriter, status int, entry inventory.AuditEntry, chemicalID string) {
	announceInventoryChange(w)
	resp := mutationResponse{Audit: entry, History: stock.History()}
	if chemicalID != "" {
		if chem, err := stock.Chemical(chemicalID); err == nil {
			projected := projectChemical(chem)
			resp.Chemical = &projected
		}
	}
	writeJSON(w, status, resp)
}

func projectChemical(chem inventory.Chemical) chemicalResponse {
	resp := chemicalResponse{
		Chemical:       chem,
		Lots:           make([]lotResponse, 0, len(chem.Lots)),
		ActiveQuantity: inventory.AvailableQuantity(chem, stock.Now(), stock.Location()),
		LowStock:       inventory.IsLowStock(chem, stock.Now(), stock.Location()),
	}
	for _, lot := range chem.Lots {
		resp.Lots = append(resp.Lots, projectLot(chem, lot))
	}
	return resp
}

func projectLot(chem inventory.Chemical, lot inventory.Lot) lotResponse {
	return lotResponse{
		Lot:        lot,
		Assessment: stock.Assess(chem, lot),
		ChemicalID: chem.ID,
	}
}
