package handlers

import (
	"net/http"

	"github.com/Dosada05/intramural-stats/services"
)

type ReminderHandler struct {
	reminderService services.ReminderService
}

func NewReminderHandler(rs services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: rs}
}

func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateReminderInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reminder, err := h.reminderService.CreateReminder(r.Context(), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"reminder": reminder}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	reminders, err := h.reminderService.ListReminders(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"reminders": reminders}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
