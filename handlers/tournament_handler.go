package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"camops/inventory"
	"camops/models"
	"camops/store"
	"camops/utils"
)

// ListTournaments supports ?status= and ?state= filters.
func ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tournaments, err := appStore.Tournaments(ctx)
	if err != nil {
		log.Printf("tournaments list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	status := r.URL.Query().Get("status")
	state := r.URL.Query().Get("state")

	out := make([]models.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if status != "" && t.Status != status {
			continue
		}
		if state != "" && !strings.EqualFold(t.State, state) {
			continue
		}
		out = append(out, t)
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func GetTournament(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	t, err := appStore.Tournament(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "tournament not found")
		return
	}
	if err != nil {
		log.Printf("tournament %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

func CreateTournament(w http.ResponseWriter, r *http.Request) {
	var in models.Tournament
	if err := utils.ParseJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Name == "" || in.Date == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name and date are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	t, outcome, err := inv.CreateTournament(ctx, in)
	if err != nil {
		log.Printf("tournament create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create tournament")
		return
	}
	if !outcome.Ok() {
		log.Printf("tournament %s: history write failed: %v", t.ID, outcome.Err)
	}

	syncCalendarUpsert(ctx, t)

	hub.SendCreated("TOURNAMENT", t.ID, t, userName(r))
	utils.RespondWithJSON(w, http.StatusCreated, t)
}

func UpdateTournament(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch inventory.TournamentPatch
	if err := utils.ParseJSON(r, &patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	t, outcome, err := inv.UpdateTournament(ctx, id, patch)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "tournament not found")
		return
	}
	if err != nil {
		log.Printf("tournament %s update error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update tournament")
		return
	}
	if !outcome.Ok() {
		log.Printf("tournament %s: history write failed: %v", id, outcome.Err)
	}

	syncCalendarUpsert(ctx, t)

	hub.SendUpdated("TOURNAMENT", t.ID, t, userName(r))
	utils.RespondWithJSON(w, http.StatusOK, t)
}

func DeleteTournament(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	t, err := appStore.Tournament(ctx, id)
	if err == store.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "tournament not found")
		return
	}
	if err != nil {
		log.Printf("tournament %s get error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	if err := inv.DeleteTournament(ctx, id); err != nil {
		log.Printf("tournament %s delete error: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete tournament")
		return
	}

	if cal != nil && t.GoogleCalendarEventID != "" {
		if err := cal.DeleteEvent(ctx, t.GoogleCalendarEventID); err != nil {
			log.Printf("tournament %s: calendar delete failed: %v", id, err)
		}
	}

	hub.SendDeleted("TOURNAMENT", id, userName(r))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// EvaluateTournament previews the camera sufficiency for the create/edit form
// without persisting anything.
func EvaluateTournament(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkerID string   `json:"workerId"`
		Holes    int      `json:"holes"`
		Cameras  []string `json:"cameras"`
	}
	if err := utils.ParseJSON(r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cameras, cameraStatus, err := inv.EvaluateTournamentCameras(ctx, body.WorkerID, body.Holes, body.Cameras)
	if err != nil {
		log.Printf("tournament evaluate error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to evaluate cameras")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"cameras":      cameras,
		"cameraStatus": cameraStatus,
		"required":     body.Holes * 2,
	})
}

type weekBucket struct {
	Week        string              `json:"week"` // e.g. 2026-W35
	Start       string              `json:"start"`
	End         string              `json:"end"`
	Tournaments []models.Tournament `json:"tournaments"`
}

// GetTournamentCalendar buckets tournaments by ISO week for the weekly view.
func GetTournamentCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tournaments, err := appStore.Tournaments(ctx)
	if err != nil {
		log.Printf("tournaments list error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	buckets := make(map[string]*weekBucket)
	for _, t := range tournaments {
		start, err := time.Parse(models.DateLayout, t.Date)
		if err != nil {
			continue
		}
		year, week := start.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		b, ok := buckets[key]
		if !ok {
			monday := start.AddDate(0, 0, -(int(start.Weekday())+6)%7)
			b = &weekBucket{
				Week:  key,
				Start: monday.Format(models.DateLayout),
				End:   monday.AddDate(0, 0, 6).Format(models.DateLayout),
			}
			buckets[key] = b
		}
		b.Tournaments = append(b.Tournaments, t)
	}

	out := make([]weekBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// syncCalendarUpsert mirrors the tournament to Google Calendar. Best-effort:
// every failure is logged and swallowed.
func syncCalendarUpsert(ctx context.Context, t *models.Tournament) {
	if cal == nil {
		return
	}
	eventID := t.GoogleCalendarEventID
	if eventID == "" {
		if ev, err := cal.FindEvent(ctx, t.Name); err != nil {
			log.Printf("tournament %s: calendar lookup failed: %v", t.ID, err)
		} else if ev != nil {
			eventID = ev.Id
		}
	}

	if eventID == "" {
		id, err := cal.CreateEvent(ctx, t)
		if err != nil {
			log.Printf("tournament %s: calendar create failed: %v", t.ID, err)
			return
		}
		eventID = id
	} else if err := cal.UpdateEvent(ctx, t, eventID); err != nil {
		log.Printf("tournament %s: calendar update failed: %v", t.ID, err)
		return
	}

	if eventID != t.GoogleCalendarEventID {
		t.GoogleCalendarEventID = eventID
		cs := store.NewChangeSet()
		cs.Put(store.CollTournaments, t.ID, *t)
		if err := appStore.Commit(ctx, cs); err != nil {
			log.Printf("tournament %s: failed to persist calendar event id: %v", t.ID, err)
		}
	}
}
