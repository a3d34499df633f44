package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camops/models"
	"camops/store"
)

func TestCreateCameraAssignsWorker(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})

	cam, err := svc.CreateCamera(ctx, models.Camera{Model: "GoPro 11", AssignedTo: ana.ID})
	require.NoError(t, err)

	assert.Equal(t, "CAM-001", cam.ID)
	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Equal(t, ana.ID, cam.AssignedTo)
	assert.Equal(t, "Ana", cam.AssignedToName)
	assert.Equal(t, "Jalisco", cam.Location)

	w, err := st.Worker(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{cam.ID}, w.CamerasAssigned)
	requireClosure(t, st)
}

func TestCreateCameraDefaults(t *testing.T) {
	svc, st := newTestService(t)

	cam, err := svc.CreateCamera(context.Background(), models.Camera{Model: "GoPro 12"})
	require.NoError(t, err)

	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Equal(t, models.Warehouse, cam.Location)
	assert.Empty(t, cam.AssignedTo)
	requireClosure(t, st)
}

func TestReassignCameraMovesBetweenWorkers(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	luis := seedWorker(t, st, models.Worker{ID: "TEC-002", Name: "Luis", State: "Sonora"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	ana = seedAssigned(t, st, ana, "CAM-001")

	cam, err := svc.ReassignCamera(ctx, "CAM-001", luis.ID)
	require.NoError(t, err)

	assert.Equal(t, luis.ID, cam.AssignedTo)
	assert.Equal(t, "Luis", cam.AssignedToName)
	assert.Equal(t, "Sonora", cam.Location)

	prev, err := st.Worker(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, prev.CamerasAssigned)

	next, err := st.Worker(ctx, luis.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CAM-001"}, next.CamerasAssigned)
	requireClosure(t, st)
}

func TestReassignCameraUnknownWorkerLeavesUnassigned(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedAssigned(t, st, ana, "CAM-001")

	cam, err := svc.ReassignCamera(ctx, "CAM-001", "TEC-999")
	require.NoError(t, err)

	assert.Empty(t, cam.AssignedTo)
	assert.Empty(t, cam.AssignedToName)

	w, err := st.Worker(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, w.CamerasAssigned)
	requireClosure(t, st)
}

func TestUpdateCameraExplicitLocationWinsOverWorkerState(t *testing.T) {
	svc, st := newTestService(t)
	seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})

	cam, _, err := svc.UpdateCamera(context.Background(), "CAM-001", CameraPatch{
		AssignedTo: strp("TEC-001"),
		Location:   strp("Campo de prueba"),
	})
	require.NoError(t, err)

	assert.Equal(t, "TEC-001", cam.AssignedTo)
	assert.Equal(t, "Campo de prueba", cam.Location)
}

func TestUpdateCameraMaintenanceWritesHistory(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	seedCamera(t, st, models.Camera{ID: "CAM-001"})

	cam, outcome, err := svc.UpdateCamera(ctx, "CAM-001", CameraPatch{Status: strp(models.CameraMantenimiento)})
	require.NoError(t, err)
	assert.Equal(t, models.CameraMantenimiento, cam.Status)
	assert.True(t, outcome.Ok())
	assert.Equal(t, 1, outcome.Written)

	entries, err := st.HistoryForCamera(ctx, "CAM-001")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.HistoryMaintenance, entries[0].Type)
}

func TestUpdateWorkerRenameRefreshesCameraNames(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedCamera(t, st, models.Camera{ID: "CAM-002"})
	seedAssigned(t, st, ana, "CAM-001", "CAM-002")

	_, err := svc.UpdateWorker(ctx, ana.ID, WorkerPatch{Name: strp("Ana María")})
	require.NoError(t, err)

	for _, id := range []string{"CAM-001", "CAM-002"} {
		cam, err := st.Camera(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ana María", cam.AssignedToName)
	}
	requireClosure(t, st)
}

func TestUpdateWorkerCameraListDiff(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001", Status: models.CameraEnUso})
	seedCamera(t, st, models.Camera{ID: "CAM-002"})
	ana = seedAssigned(t, st, ana, "CAM-001")

	w, err := svc.UpdateWorker(ctx, ana.ID, WorkerPatch{CamerasAssigned: listp("CAM-002")})
	require.NoError(t, err)
	assert.Equal(t, []string{"CAM-002"}, w.CamerasAssigned)

	// removal clears the assignment but leaves status and location alone
	removed, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Empty(t, removed.AssignedTo)
	assert.Equal(t, models.CameraEnUso, removed.Status)
	assert.Equal(t, "Jalisco", removed.Location)

	added, err := st.Camera(ctx, "CAM-002")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, added.AssignedTo)
	assert.Equal(t, "Jalisco", added.Location)
	requireClosure(t, st)
}

func TestUpdateWorkerStealsCameraFromOtherWorker(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	luis := seedWorker(t, st, models.Worker{ID: "TEC-002", Name: "Luis", State: "Sonora"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedAssigned(t, st, ana, "CAM-001")

	_, err := svc.UpdateWorker(ctx, luis.ID, WorkerPatch{CamerasAssigned: listp("CAM-001")})
	require.NoError(t, err)

	prev, err := st.Worker(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, prev.CamerasAssigned)

	cam, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, luis.ID, cam.AssignedTo)
	requireClosure(t, st)
}

func TestDeleteWorkerDetachesCameras(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedCamera(t, st, models.Camera{ID: "CAM-002"})
	seedAssigned(t, st, ana, "CAM-001", "CAM-002")

	require.NoError(t, svc.DeleteWorker(ctx, ana.ID))

	_, err := st.Worker(ctx, ana.ID)
	assert.Equal(t, store.ErrNotFound, err)

	for _, id := range []string{"CAM-001", "CAM-002"} {
		cam, err := st.Camera(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, cam.AssignedTo)
		assert.Empty(t, cam.AssignedToName)
	}
	requireClosure(t, st)
}

func TestDeleteCameraDetachesAndPurgesHistory(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedAssigned(t, st, ana, "CAM-001")

	_, _, err := svc.UpdateCamera(ctx, "CAM-001", CameraPatch{Status: strp(models.CameraReparacion)})
	require.NoError(t, err)
	entries, err := st.HistoryForCamera(ctx, "CAM-001")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	require.NoError(t, svc.DeleteCamera(ctx, "CAM-001"))

	_, err = st.Camera(ctx, "CAM-001")
	assert.Equal(t, store.ErrNotFound, err)

	w, err := st.Worker(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, w.CamerasAssigned)

	entries, err = st.HistoryForCamera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateWorkerClaimsRequestedCameras(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedCamera(t, st, models.Camera{ID: "CAM-002"})

	w, err := svc.CreateWorker(ctx, models.Worker{
		Name:            "Luis",
		State:           "Sonora",
		CamerasAssigned: []string{"CAM-001", "CAM-002", "CAM-999"},
	})
	require.NoError(t, err)

	assert.Equal(t, "TEC-001", w.ID)
	assert.ElementsMatch(t, []string{"CAM-001", "CAM-002"}, w.CamerasAssigned)

	cam, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, w.ID, cam.AssignedTo)
	assert.Equal(t, "Sonora", cam.Location)
	requireClosure(t, st)
}
