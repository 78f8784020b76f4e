package controller

import (
	"encoding/json"
	"net/http"
)

const roomIDLength = 4

func (c controller) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.roomService.GetStats(r.Context())
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get stats", "error", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// newRoomID hands out a short room id for clients that do not bring their
// own. Rooms are created lazily on first attach, so no state is written here.
func (c controller) newRoomID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"roomId": c.generator.GenerateRandomString(roomIDLength),
	})
}

type resolveSourceInput struct {
	URL string `json:"url" validate:"required,url"`
}

// resolveSource proxies the external media extraction service so clients can
// turn a page URL into direct playable sources.
func (c controller) resolveSource(w http.ResponseWriter, r *http.Request) {
	var input resolveSourceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if errs, ok := c.validate.Validate(input); !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"errors": errs})
		return
	}

	info, err := c.resolver.Resolve(r.Context(), input.URL)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to resolve source", "url", input.URL, "error", err)
		http.Error(w, "failed to extract media info", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
