package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"camops/models"
	"camops/utils"
)

type dashboardStats struct {
	Cameras struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"byStatus"`
	} `json:"cameras"`
	Workers struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"byStatus"`
	} `json:"workers"`
	Tournaments struct {
		Total    int                 `json:"total"`
		ByStatus map[string]int      `json:"byStatus"`
		Upcoming []models.Tournament `json:"upcoming"`
	} `json:"tournaments"`
	Shipments struct {
		Total     int            `json:"total"`
		ByStatus  map[string]int `json:"byStatus"`
		InTransit int            `json:"inTransit"`
	} `json:"shipments"`
	CamerasByLocation map[string]int `json:"camerasByLocation"`
}

// GetDashboardStats aggregates the counts and lists the dashboard landing
// page renders.
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var stats dashboardStats
	stats.Cameras.ByStatus = make(map[string]int)
	stats.Workers.ByStatus = make(map[string]int)
	stats.Tournaments.ByStatus = make(map[string]int)
	stats.Shipments.ByStatus = make(map[string]int)
	stats.CamerasByLocation = make(map[string]int)

	cameras, err := appStore.Cameras(ctx)
	if err != nil {
		log.Printf("dashboard cameras error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	stats.Cameras.Total = len(cameras)
	for _, c := range cameras {
		stats.Cameras.ByStatus[c.Status]++
		if c.Location != "" {
			stats.CamerasByLocation[c.Location]++
		}
	}

	workers, err := appStore.Workers(ctx)
	if err != nil {
		log.Printf("dashboard workers error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	stats.Workers.Total = len(workers)
	for _, wk := range workers {
		stats.Workers.ByStatus[wk.Status]++
	}

	tournaments, err := appStore.Tournaments(ctx)
	if err != nil {
		log.Printf("dashboard tournaments error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	stats.Tournaments.Total = len(tournaments)
	today := time.Now().Format(models.DateLayout)
	for _, t := range tournaments {
		stats.Tournaments.ByStatus[t.Status]++
		if t.Status != models.TournamentCancelado && t.Date >= today && len(stats.Tournaments.Upcoming) < 5 {
			stats.Tournaments.Upcoming = append(stats.Tournaments.Upcoming, t)
		}
	}
	if stats.Tournaments.Upcoming == nil {
		stats.Tournaments.Upcoming = []models.Tournament{}
	}

	shipments, err := appStore.Shipments(ctx)
	if err != nil {
		log.Printf("dashboard shipments error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	stats.Shipments.Total = len(shipments)
	for _, s := range shipments {
		stats.Shipments.ByStatus[s.Status]++
		if s.Status == models.ShipmentEnviado {
			stats.Shipments.InTransit++
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}
