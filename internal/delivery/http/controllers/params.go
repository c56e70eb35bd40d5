package controllers

import (
	"net/http"
	"regexp"

	h "eventhubconnect/internal/delivery/http/helpers"
)

var uuidRegexp = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// pathUUID reads the named path parameter and validates it as a UUID.
// On failure it writes a 400 error and returns ("", false).
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if !uuidRegexp.MatchString(v) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return v, true
}
