package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"camops/models"
	"camops/utils"
)

// ListHistory returns the camera audit log, newest first, with ?cameraId=,
// ?type=, ?tournamentId= and ?shipmentId= filters.
func ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	entries, err := appStore.History(ctx)
	if err != nil {
		log.Printf("history list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	cameraID := r.URL.Query().Get("cameraId")
	entryType := r.URL.Query().Get("type")
	tournamentID := r.URL.Query().Get("tournamentId")
	shipmentID := r.URL.Query().Get("shipmentId")

	out := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if cameraID != "" && e.CameraID != cameraID {
			continue
		}
		if entryType != "" && e.Type != entryType {
			continue
		}
		if tournamentID != "" && e.Details["tournamentId"] != tournamentID {
			continue
		}
		if shipmentID != "" && e.Details["shipmentId"] != shipmentID {
			continue
		}
		out = append(out, e)
	}

	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
