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

// ListWorkers supports ?state=, ?status= and ?q= over name/email.
func ListWorkers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	workers, err := appStore.Workers(ctx)
	if err != nil {
		log.Printf("workers list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	state := r.URL.Query().Get("state")
	status := r.URL.Query().Get("status")
	q := strings.ToLower(r.URL.Query().Get("q"))

	out := make([]models.Worker, 0, len(workers))
	for _, wk := range workers {
		if state != "" && !strings.EqualFold(wk.State, state) {
			continue
		}
		if status != "" && wk.Status != status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(wk.Name+" "+wk.Email), q) {
			continue
		}
		out = append(out, wk)
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func GetWorker(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	wk, err := appStore.Worker(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "worker not found")
		return
	}
	if err != nil {
		log.Printf("worker %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	// include the worker's cameras so the detail card renders in one trip
	cameras := make([]models.Camera, 0, len(wk.CamerasAssigned))
	for _, camID := range wk.CamerasAssigned {
		cam, err := appStore.Camera(ctx, camID)
		if err != nil {
			continue
		}
		cameras = append(cameras, *cam)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"worker":  wk,
		"cameras": cameras,
	})
}

func CreateWorker(w http.ResponseWriter, r *http.Request) {
	var in models.Worker
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == "" || in.State == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name and state are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	wk, err := inv.CreateWorker(ctx, in)
	if err != nil {
		log.Printf("worker create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create worker")
		return
	}

	hub.SendCreated("WORKER", wk.ID, wk, userName(r))
	utils.RespondWithJSON(w, http.StatusCreated, wk)
}

func UpdateWorker(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch inventory.WorkerPatch
	if err := utils.ParseJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	wk, err := inv.UpdateWorker(ctx, id, patch)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "worker not found")
		return
	}
	if err != nil {
		log.Printf("worker %s update error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update worker")
		return
	}

	hub.SendUpdated("WORKER", wk.ID, wk, userName(r))
	utils.RespondWithJSON(w, http.StatusOK, wk)
}

func DeleteWorker(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := inv.DeleteWorker(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "worker not found")
		return
	}
	if err != nil {
		log.Printf("worker %s delete error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete worker")
		return
	}

	hub.SendDeleted("WORKER", id, userName(r))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
