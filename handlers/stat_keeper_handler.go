package handlers

import (
	"net/http"

	"github.com/Dosada05/intramural-stats/services"
)

type StatKeeperHandler struct {
	keeperService services.StatKeeperService
}

func NewStatKeeperHandler(ks services.StatKeeperService) *StatKeeperHandler {
	return &StatKeeperHandler{keeperService: ks}
}

func (h *StatKeeperHandler) CreateKeeper(w http.ResponseWriter, r *http.Request) {
	var input services.PersonInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	keeper, err := h.keeperService.CreateKeeper(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stat_keeper": keeper}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatKeeperHandler) GetKeeper(w http.ResponseWriter, r *http.Request) {
	keeperID, err := getIDFromURL(r, "keeperID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	keeper, err := h.keeperService.GetKeeper(r.Context(), keeperID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stat_keeper": keeper}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatKeeperHandler) ListKeepers(w http.ResponseWriter, r *http.Request) {
	keepers, err := h.keeperService.ListKeepers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stat_keepers": keepers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatKeeperHandler) UpdateKeeper(w http.ResponseWriter, r *http.Request) {
	keeperID, err := getIDFromURL(r, "keeperID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePersonInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	keeper, err := h.keeperService.UpdateKeeper(r.Context(), keeperID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stat_keeper": keeper}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatKeeperHandler) DeleteKeeper(w http.ResponseWriter, r *http.Request) {
	keeperID, err := getIDFromURL(r, "keeperID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.keeperService.DeleteKeeper(r.Context(), keeperID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StatKeeperHandler) AssignGame(w http.ResponseWriter, r *http.Request) {
	keeperID, gameID, ok := keeperGameIDs(w, r)
	if !ok {
		return
	}

	if err := h.keeperService.AssignGame(r.Context(), keeperID, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"message": "stat keeper assigned", "stat_keeper_id": keeperID, "game_id": gameID}
	if err := writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatKeeperHandler) UnassignGame(w http.ResponseWriter, r *http.Request) {
	keeperID, gameID, ok := keeperGameIDs(w, r)
	if !ok {
		return
	}

	if err := h.keeperService.UnassignGame(r.Context(), keeperID, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAssignedGames returns the games a stat keeper is scheduled to score.
func (h *StatKeeperHandler) ListAssignedGames(w http.ResponseWriter, r *http.Request) {
	keeperID, err := getIDFromURL(r, "keeperID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.keeperService.ListAssignedGames(r.Context(), keeperID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func keeperGameIDs(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	keeperID, err := getIDFromURL(r, "keeperID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return keeperID, gameID, true
}
