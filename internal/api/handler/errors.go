package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpserver-go/internal/api/apierr"
	"github.com/mcoot/rpserver-go/internal/model"
)

// maxBodyBytes bounds admin request bodies
const maxBodyBytes = 64 << 10

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

type validator interface {
	Validate() error
}

// decode reads a JSON body into req and validates it. On failure the error
// response has already been written.
func decode(w http.ResponseWriter, r *http.Request, req validator) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return false
	}
	if err := req.Validate(); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return false
	}
	return true
}

func characterID(w http.ResponseWriter, r *http.Request) (model.CharacterID, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid character id"))
		return 0, false
	}
	return model.CharacterID(id), true
}
