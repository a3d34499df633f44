package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"camops/inventory"
	"camops/models"
	"camops/store"
	"camops/utils"
)

// ListCameras supports the dashboard filters: ?status=, ?location=,
// ?assignedTo= (worker id) and ?q= free-text over id/model/serial/sim.
func ListCameras(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cameras, err := appStore.Cameras(ctx)
	if err != nil {
		log.Printf("cameras list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	status := r.URL.Query().Get("status")
	location := r.URL.Query().Get("location")
	assignedTo := r.URL.Query().Get("assignedTo")
	q := strings.ToLower(r.URL.Query().Get("q"))

	out := make([]models.Camera, 0, len(cameras))
	for _, c := range cameras {
		if status != "" && c.Status != status {
			continue
		}
		if location != "" && !strings.EqualFold(c.Location, location) {
			continue
		}
		if assignedTo != "" && c.AssignedTo != assignedTo {
			continue
		}
		if q != "" {
			hay := strings.ToLower(c.ID + " " + c.Model + " " + c.SerialNumber + " " + c.SimNumber + " " + c.AssignedToName)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, c)
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func GetCamera(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cam, err := appStore.Camera(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "camera not found")
		return
	}
	if err != nil {
		log.Printf("camera %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	history, err := appStore.HistoryForCamera(ctx, id)
	if err != nil {
		log.Printf("camera %s history error: %v", id, err)
		history = []models.HistoryEntry{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"camera":  cam,
		"history": history,
	})
}

func CreateCamera(w http.ResponseWriter, r *http.Request) {
	var in models.Camera
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Model == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "model is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cam, err := inv.CreateCamera(ctx, in)
	if err != nil {
		log.Printf("camera create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create camera")
		return
	}

	hub.SendCreated("CAMERA", cam.ID, cam, userName(r))
	utils.RespondWithJSON(w, http.StatusCreated, cam)
}

func UpdateCamera(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch inventory.CameraPatch
	if err := utils.ParseJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	before, err := appStore.Camera(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "camera not found")
		return
	}
	if err != nil {
		log.Printf("camera %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	cam, outcome, err := inv.UpdateCamera(ctx, id, patch)
	if err != nil {
		log.Printf("camera %s update error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update camera")
		return
	}
	if !outcome.Ok() {
		log.Printf("camera %s: history write failed: %v", id, outcome.Err)
	}

	if before.Status != cam.Status {
		hub.SendStatusChange("CAMERA", cam.ID, before.Status, cam.Status, userName(r))
	} else {
		hub.SendUpdated("CAMERA", cam.ID, cam, userName(r))
	}
	utils.RespondWithJSON(w, http.StatusOK, cam)
}

// ReassignCamera moves a camera to another worker (or unassigns it) in one
// call, updating both sides of the relation.
func ReassignCamera(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		WorkerID string `json:"workerId"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cam, err := inv.ReassignCamera(ctx, id, body.WorkerID)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "camera not found")
		return
	}
	if err != nil {
		log.Printf("camera %s reassign error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to reassign camera")
		return
	}

	hub.SendUpdated("CAMERA", cam.ID, cam, userName(r))
	utils.RespondWithJSON(w, http.StatusOK, cam)
}

func DeleteCamera(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := inv.DeleteCamera(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "camera not found")
		return
	}
	if err != nil {
		log.Printf("camera %s delete error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete camera")
		return
	}

	hub.SendDeleted("CAMERA", id, userName(r))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func GetCameraHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	history, err := appStore.HistoryForCamera(ctx, id)
	if err != nil {
		log.Printf("camera %s history error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	utils.RespondWithJSON(w, http.StatusOK, history)
}
