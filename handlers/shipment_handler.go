package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"camops/inventory"
	"camops/models"
	"camops/store"
	"camops/utils"
)

// ListShipments supports ?status= and ?recipientId= filters.
func ListShipments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	shipments, err := appStore.Shipments(ctx)
	if err != nil {
		log.Printf("shipments list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	status := r.URL.Query().Get("status")
	recipientID := r.URL.Query().Get("recipientId")

	out := make([]models.Shipment, 0, len(shipments))
	for _, s := range shipments {
		if status != "" && s.Status != status {
			continue
		}
		if recipientID != "" && s.RecipientID != recipientID {
			continue
		}
		out = append(out, s)
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func GetShipment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s, err := appStore.Shipment(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "shipment not found")
		return
	}
	if err != nil {
		log.Printf("shipment %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}

func CreateShipment(w http.ResponseWriter, r *http.Request) {
	var in models.Shipment
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(in.Cameras) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "at least one camera is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s, outcome, err := inv.CreateShipment(ctx, in)
	if err != nil {
		log.Printf("shipment create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create shipment")
		return
	}
	if !outcome.Ok() {
		log.Printf("shipment %s: history write failed: %v", s.ID, outcome.Err)
	}

	hub.SendCreated("SHIPMENT", s.ID, s, userName(r))
	utils.RespondWithJSON(w, http.StatusCreated, s)
}

func UpdateShipment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch inventory.ShipmentPatch
	if err := utils.ParseJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	before, err := appStore.Shipment(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "shipment not found")
		return
	}
	if err != nil {
		log.Printf("shipment %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	s, outcome, err := inv.UpdateShipment(ctx, id, patch)
	if err != nil {
		log.Printf("shipment %s update error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update shipment")
		return
	}
	if !outcome.Ok() {
		log.Printf("shipment %s: history write failed: %v", id, outcome.Err)
	}

	if before.Status != s.Status {
		hub.SendStatusChange("SHIPMENT", s.ID, before.Status, s.Status, userName(r))
	} else {
		hub.SendUpdated("SHIPMENT", s.ID, s, userName(r))
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}

func DeleteShipment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := inv.DeleteShipment(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "shipment not found")
		return
	}
	if err != nil {
		log.Printf("shipment %s delete error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete shipment")
		return
	}

	hub.SendDeleted("SHIPMENT", id, userName(r))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
