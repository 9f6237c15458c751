package handlers

import (
	"net/http"

	"github.com/Dosada05/intramural-stats/services"
)

type AwardHandler struct {
	awardService services.AwardService
}

func NewAwardHandler(as services.AwardService) *AwardHandler {
	return &AwardHandler{awardService: as}
}

func (h *AwardHandler) CreateAward(w http.ResponseWriter, r *http.Request) {
	var input services.CreateAwardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	award, err := h.awardService.CreateAward(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"award": award}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AwardHandler) GetAward(w http.ResponseWriter, r *http.Request) {
	awardID, err := getIDFromURL(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	award, err := h.awardService.GetAward(r.Context(), awardID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"award": award}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AwardHandler) ListLeagueAwards(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	awards, err := h.awardService.ListLeagueAwards(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"awards": awards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AwardHandler) UpdateAward(w http.ResponseWriter, r *http.Request) {
	awardID, err := getIDFromURL(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateAwardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	award, err := h.awardService.UpdateAward(r.Context(), awardID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"award": award}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AwardHandler) DeleteAward(w http.ResponseWriter, r *http.Request) {
	awardID, err := getIDFromURL(r, "awardID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.awardService.DeleteAward(r.Context(), awardID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
