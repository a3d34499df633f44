package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"camops/models"
	"camops/utils"
)

type stateSummary struct {
	State        string              `json:"state"`
	Cameras      int                 `json:"cameras"`
	CamerasInUse int                 `json:"camerasInUse"`
	Workers      int                 `json:"workers"`
	Tournaments  []models.Tournament `json:"tournaments"`
}

// GetMapData buckets cameras, workers and active/pending tournaments by
// Mexican state for the map view.
func GetMapData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	summaries := make(map[string]*stateSummary)
	get := func(state string) *stateSummary {
		if state == "" {
			state = models.Warehouse
		}
		s, ok := summaries[state]
		if !ok {
			s = &stateSummary{State: state, Tournaments: []models.Tournament{}}
			summaries[state] = s
		}
		return s
	}

	cameras, err := appStore.Cameras(ctx)
	if err != nil {
		log.Printf("map cameras error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	for _, c := range cameras {
		s := get(c.Location)
		s.Cameras++
		if c.Status == models.CameraEnUso {
			s.CamerasInUse++
		}
	}

	workers, err := appStore.Workers(ctx)
	if err != nil {
		log.Printf("map workers error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	for _, wk := range workers {
		get(wk.State).Workers++
	}

	tournaments, err := appStore.Tournaments(ctx)
	if err != nil {
		log.Printf("map tournaments error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	for _, t := range tournaments {
		if t.Status == models.TournamentActivo || t.Status == models.TournamentPendiente {
			s := get(t.State)
			s.Tournaments = append(s.Tournaments, t)
		}
	}

	out := make([]stateSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	utils.RespondWithJSON(w, http.StatusOK, out)
}
