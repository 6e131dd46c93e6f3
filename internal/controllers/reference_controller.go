package controllers

import (
	"net/http"

	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// StatesHandler lists the Indian states and union territories alphabetically.
func StatesHandler(w http.ResponseWriter, _ *http.Request) {
	states := utils.SortedStates()
	utils.RespondWithJSON(w, http.StatusOK, dtos.StatesResponse{States: states, Count: len(states)})
}

func RegionsHandler(w http.ResponseWriter, r *http.Request) {
	state := queryParam(r, "state")
	if state == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "State parameter is required", nil)
		return
	}
	regions, ok := utils.StatesAndRegions[state]
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "No regions found for state: "+state, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.RegionsResponse{State: state, Regions: regions, Count: len(regions)})
}
