package httpx

import (
	"encoding/json"
	"net/http"
)

// Helpers compartidos de respuesta JSON. Antes cada módulo duplicaba su
// writeJSON; con seis módulos ya conviene el helper común.

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// WriteFieldErrors responde 400 con detalle por campo, para que el cliente
// pueda marcar los inputs del formulario.
func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{
		Error:  "validation failed",
		Fields: fields,
	})
}
