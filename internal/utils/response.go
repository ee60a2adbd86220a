package utils

import (
	"encoding/json"
	"net/http"
)

// RespondWithSuccess writes the {success:true, data} envelope.
func RespondWithSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// RespondWithError writes the {success:false, message, ...extras} envelope.
// Extras carry structured details like field validation errors.
func RespondWithError(w http.ResponseWriter, status int, message string, extras map[string]interface{}) {
	body := map[string]interface{}{
		"success": false,
		"message": message,
	}
	for k, v := range extras {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
