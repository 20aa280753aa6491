package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"site-task-manager/utilities"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		utilities.LogError(err, "Erro ao codificar resposta JSON")
	}
}

// respondError escreve {"error": msg}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeJSON lê exatamente um valor JSON do corpo da requisição.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}
