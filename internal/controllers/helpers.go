package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

var validate = utils.NewValidator()

// decodeAndValidate reads a JSON body into dst and runs the struct
// validators. It writes the 400 itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request body", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, utils.ValidationMessage(err), nil, err)
		return false
	}
	return true
}

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
