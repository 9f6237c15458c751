package handlers

import (
	"net/http"

	"github.com/Dosada05/intramural-stats/services"
)

type StatEventHandler struct {
	statService services.StatEventService
}

func NewStatEventHandler(ss services.StatEventService) *StatEventHandler {
	return &StatEventHandler{statService: ss}
}

func (h *StatEventHandler) RecordStat(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateStatEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.statService.RecordStat(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stat": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatEventHandler) UpdateStat(w http.ResponseWriter, r *http.Request) {
	statID, err := getIDFromURL(r, "statID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateStatEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.statService.UpdateStat(r.Context(), statID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stat": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatEventHandler) DeleteStat(w http.ResponseWriter, r *http.Request) {
	statID, err := getIDFromURL(r, "statID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.statService.DeleteStat(r.Context(), statID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StatEventHandler) ListGameStats(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.statService.ListGameStats(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatEventHandler) ListPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.statService.ListPlayerStats(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stats": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatEventHandler) PlayerSummary(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	totals, err := h.statService.PlayerSummary(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"summary": totals}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatEventHandler) StatTypes(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"stat_types": h.statService.StatTypes()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
