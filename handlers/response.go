package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/TheYassAnz/coabi-backend/errors"
)

// Every response body is an envelope: {"data": ...} on success,
// {"error": {"message": ..., "code": ...}} on failure.

type dataEnvelope struct {
	Data interface{} `json:"data"`
}

type errorEnvelope struct {
	Error *errors.Error `json:"error"`
}

func writeData(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(dataEnvelope{Data: payload})
}

func writeError(writer http.ResponseWriter, err error) {
	appErr := errors.Wrap(err)
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(appErr.Status)
	json.NewEncoder(writer).Encode(errorEnvelope{Error: appErr})
}

func writeNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}
