package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"contest_judge/internal/common"
)

// maxRequestBody bounds JSON payloads; submissions carry whole source files.
const maxRequestBody = 1 << 20

// decodeJSON reads the body into dst. It answers 400 or 413 itself and reports whether the handler should go on.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		common.RespondWithError(w, http.StatusRequestEntityTooLarge, "Request body exceeds 1 MiB")
		return false
	}
	common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
	return false
}
