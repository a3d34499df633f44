package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camops/models"
	"camops/store"
)

func seedWorkerWithCameras(t *testing.T, st *store.MemoryStore, workerID, name, state string, n int) models.Worker {
	t.Helper()
	w := seedWorker(t, st, models.Worker{ID: workerID, Name: name, State: state})
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := string(rune('A'+i)) + "-CAM"
		seedCamera(t, st, models.Camera{ID: workerID + "-" + id})
		ids = append(ids, workerID+"-"+id)
	}
	return seedAssigned(t, st, w, ids...)
}

func runningDates() (string, string) {
	today := time.Now().UTC()
	return today.AddDate(0, 0, -1).Format(models.DateLayout),
		today.AddDate(0, 0, 1).Format(models.DateLayout)
}

func TestCreateTournamentComplete(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorkerWithCameras(t, st, "TEC-001", "Ana", "Jalisco", 4)
	start, end := runningDates()

	tour, outcome, err := svc.CreateTournament(ctx, models.Tournament{
		Name:     "Abierto de Jalisco",
		State:    "Jalisco",
		Date:     start,
		EndDate:  end,
		Holes:    2,
		WorkerID: ana.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "TRN-001", tour.ID)
	assert.Equal(t, models.CameraStatusComplete, tour.CameraStatus)
	assert.Len(t, tour.Cameras, 4)
	assert.Equal(t, models.TournamentActivo, tour.Status)
	assert.Equal(t, "Ana", tour.Worker)
	assert.Equal(t, 4, outcome.Written)

	for _, camID := range tour.Cameras {
		cam, err := st.Camera(ctx, camID)
		require.NoError(t, err)
		assert.Equal(t, models.CameraEnUso, cam.Status)
	}

	entries, err := st.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, models.HistoryTournament, entries[0].Type)
	assert.Equal(t, tour.ID, entries[0].Details["tournamentId"])
}

func TestCreateTournamentInsufficientForcesPendiente(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorkerWithCameras(t, st, "TEC-001", "Ana", "Jalisco", 2)
	start, end := runningDates()

	tour, _, err := svc.CreateTournament(ctx, models.Tournament{
		Name:     "Abierto de Jalisco",
		Date:     start,
		EndDate:  end,
		Holes:    2, // needs 4 cameras, only 2 exist
		WorkerID: ana.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.CameraStatusInsufficient, tour.CameraStatus)
	assert.Len(t, tour.Cameras, 2)
	assert.Equal(t, models.TournamentPendiente, tour.Status,
		"a running tournament without its full complement stays pendiente")
}

func TestCreateTournamentNoCameras(t *testing.T) {
	svc, st := newTestService(t)
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})

	tour, _, err := svc.CreateTournament(context.Background(), models.Tournament{
		Name:     "Abierto de Jalisco",
		Date:     "2026-09-10",
		Days:     3,
		Holes:    1,
		WorkerID: ana.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.CameraStatusNone, tour.CameraStatus)
	assert.Empty(t, tour.Cameras)
	assert.Equal(t, "2026-09-12", tour.EndDate, "end date derived from days")
}

func TestCreateTournamentWithoutWorkerIsPending(t *testing.T) {
	svc, _ := newTestService(t)

	tour, _, err := svc.CreateTournament(context.Background(), models.Tournament{
		Name:  "Abierto sin técnico",
		Date:  "2026-09-10",
		Holes: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, models.CameraStatusPending, tour.CameraStatus)
	assert.Equal(t, models.TournamentPendiente, tour.Status)
}

func TestUpdateTournamentReleasesRemovedCameras(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorkerWithCameras(t, st, "TEC-001", "Ana", "Jalisco", 2)
	start, end := runningDates()

	tour, _, err := svc.CreateTournament(ctx, models.Tournament{
		Name:     "Abierto de Jalisco",
		Date:     start,
		EndDate:  end,
		Holes:    1,
		WorkerID: ana.ID,
	})
	require.NoError(t, err)
	require.Len(t, tour.Cameras, 2)
	removedID := tour.Cameras[0]
	keptID := tour.Cameras[1]

	// drop one camera and shrink the course so one is enough
	updated, _, err := svc.UpdateTournament(ctx, tour.ID, TournamentPatch{
		Holes:   intp(0),
		Cameras: listp(keptID),
	})
	require.NoError(t, err)
	assert.NotContains(t, updated.Cameras, removedID)

	cam, err := st.Camera(ctx, removedID)
	require.NoError(t, err)
	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Equal(t, ana.ID, cam.AssignedTo, "release from a tournament keeps the worker")
}

func TestDeleteTournamentReleasesAndPurges(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorkerWithCameras(t, st, "TEC-001", "Ana", "Jalisco", 2)
	start, end := runningDates()

	tour, _, err := svc.CreateTournament(ctx, models.Tournament{
		Name:     "Abierto de Jalisco",
		Date:     start,
		EndDate:  end,
		Holes:    1,
		WorkerID: ana.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTournament(ctx, tour.ID))

	_, err = st.Tournament(ctx, tour.ID)
	assert.Equal(t, store.ErrNotFound, err)

	for _, camID := range tour.Cameras {
		cam, err := st.Camera(ctx, camID)
		require.NoError(t, err)
		assert.Equal(t, models.CameraDisponible, cam.Status)
	}

	entries, err := st.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEvaluateTournamentCamerasIsReadOnly(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorkerWithCameras(t, st, "TEC-001", "Ana", "Jalisco", 3)

	cams, status, err := svc.EvaluateTournamentCameras(ctx, ana.ID, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, models.CameraStatusInsufficient, status)
	assert.Len(t, cams, 3)

	// preview must not have touched anything
	for _, camID := range cams {
		cam, err := st.Camera(ctx, camID)
		require.NoError(t, err)
		assert.Equal(t, models.CameraDisponible, cam.Status)
	}
	entries, err := st.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEvaluateTournamentCamerasUnknownWorker(t *testing.T) {
	svc, _ := newTestService(t)

	cams, status, err := svc.EvaluateTournamentCameras(context.Background(), "TEC-404", 2, nil)
	require.NoError(t, err)
	assert.Empty(t, cams)
	assert.Equal(t, models.CameraStatusPending, status)
}

func TestDeriveStatusDates(t *testing.T) {
	start, end := runningDates()

	running := &models.Tournament{Date: start, EndDate: end, CameraStatus: models.CameraStatusComplete}
	assert.Equal(t, models.TournamentActivo, deriveStatus(running))

	future := &models.Tournament{Date: "2099-01-01", EndDate: "2099-01-03", CameraStatus: models.CameraStatusComplete}
	assert.Equal(t, models.TournamentPendiente, deriveStatus(future))

	past := &models.Tournament{Date: "2020-01-01", EndDate: "2020-01-03", CameraStatus: models.CameraStatusComplete}
	assert.Equal(t, models.TournamentTerminado, deriveStatus(past))

	cancelled := &models.Tournament{Date: start, EndDate: end, Status: models.TournamentCancelado, CameraStatus: models.CameraStatusComplete}
	assert.Equal(t, models.TournamentCancelado, deriveStatus(cancelled))
}
