package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camops/models"
	"camops/store"
)

func TestCreateShipmentDefaultsAndRecipient(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})

	sh, outcome, err := svc.CreateShipment(ctx, models.Shipment{
		Cameras:     []string{"CAM-001", "CAM-001"},
		Origin:      models.Warehouse,
		Destination: "Guadalajara",
		RecipientID: ana.ID,
	})
	require.NoError(t, err)
	assert.True(t, outcome.Ok())

	assert.Equal(t, "ENV-001", sh.ID)
	assert.Equal(t, models.ShipmentPreparando, sh.Status)
	assert.Equal(t, "Ana", sh.Recipient)
	assert.Equal(t, []string{"CAM-001"}, sh.Cameras, "duplicate ids are collapsed")

	// preparando has no camera effect
	cam, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Empty(t, cam.AssignedTo)
}

func TestShipmentLifecycle(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})

	sh, _, err := svc.CreateShipment(ctx, models.Shipment{
		Cameras:     []string{"CAM-001"},
		Origin:      models.Warehouse,
		Destination: "Guadalajara",
		RecipientID: ana.ID,
	})
	require.NoError(t, err)

	// enviado: in transit, assigned to the recipient
	_, outcome, err := svc.UpdateShipment(ctx, sh.ID, ShipmentPatch{Status: strp(models.ShipmentEnviado)})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Written)

	cam, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, models.CameraEnEnvio, cam.Status)
	assert.Equal(t, ana.ID, cam.AssignedTo)
	w, err := st.Worker(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CAM-001"}, w.CamerasAssigned)

	// entregado: available again, located at the destination, still Ana's
	_, outcome, err = svc.UpdateShipment(ctx, sh.ID, ShipmentPatch{Status: strp(models.ShipmentEntregado)})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Written)

	cam, err = st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Equal(t, ana.ID, cam.AssignedTo)
	assert.Equal(t, "Guadalajara", cam.Location)

	// cancelado after delivery: back to the warehouse, unassigned
	_, _, err = svc.UpdateShipment(ctx, sh.ID, ShipmentPatch{Status: strp(models.ShipmentCancelado)})
	require.NoError(t, err)

	cam, err = st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Empty(t, cam.AssignedTo)
	assert.Equal(t, models.Warehouse, cam.Location)

	w, err = st.Worker(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, w.CamerasAssigned)
	requireClosure(t, st)

	entries, err := st.HistoryForCamera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestShipmentEnviadoEffectIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})

	sh, _, err := svc.CreateShipment(ctx, models.Shipment{
		Cameras:     []string{"CAM-001"},
		Destination: "Guadalajara",
		RecipientID: ana.ID,
		Status:      models.ShipmentEnviado,
	})
	require.NoError(t, err)

	before, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)

	// saving the form again with the same status must not stack effects
	_, outcome, err := svc.UpdateShipment(ctx, sh.ID, ShipmentPatch{Status: strp(models.ShipmentEnviado)})
	require.NoError(t, err)
	assert.Zero(t, outcome.Written)

	after, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.AssignedTo, after.AssignedTo)
	assert.Equal(t, before.Location, after.Location)

	entries, err := st.HistoryForCamera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	requireClosure(t, st)
}

func TestShipmentRemovedCameraReleased(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedCamera(t, st, models.Camera{ID: "CAM-002"})

	sh, _, err := svc.CreateShipment(ctx, models.Shipment{
		Cameras:     []string{"CAM-001", "CAM-002"},
		Destination: "Guadalajara",
		RecipientID: ana.ID,
		Status:      models.ShipmentEnviado,
	})
	require.NoError(t, err)

	_, _, err = svc.UpdateShipment(ctx, sh.ID, ShipmentPatch{Cameras: listp("CAM-002")})
	require.NoError(t, err)

	removed, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, models.CameraDisponible, removed.Status)
	assert.Empty(t, removed.AssignedTo)
	assert.Equal(t, models.Warehouse, removed.Location)

	kept, err := st.Camera(ctx, "CAM-002")
	require.NoError(t, err)
	assert.Equal(t, models.CameraEnEnvio, kept.Status)
	assert.Equal(t, ana.ID, kept.AssignedTo)
	requireClosure(t, st)
}

func TestShipmentCameraAddedWhileEnviado(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})
	seedCamera(t, st, models.Camera{ID: "CAM-002"})

	sh, _, err := svc.CreateShipment(ctx, models.Shipment{
		Cameras:     []string{"CAM-001"},
		Destination: "Guadalajara",
		RecipientID: ana.ID,
		Status:      models.ShipmentEnviado,
	})
	require.NoError(t, err)

	_, outcome, err := svc.UpdateShipment(ctx, sh.ID, ShipmentPatch{Cameras: listp("CAM-001", "CAM-002")})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Written, "only the added camera gets an entry")

	added, err := st.Camera(ctx, "CAM-002")
	require.NoError(t, err)
	assert.Equal(t, models.CameraEnEnvio, added.Status)
	assert.Equal(t, ana.ID, added.AssignedTo)
	requireClosure(t, st)
}

func TestShipmentBackwardFromEnviadoKeepsAssignment(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})

	sh, _, err := svc.CreateShipment(ctx, models.Shipment{
		Cameras:     []string{"CAM-001"},
		Destination: "Guadalajara",
		RecipientID: ana.ID,
		Status:      models.ShipmentEnviado,
	})
	require.NoError(t, err)

	_, _, err = svc.UpdateShipment(ctx, sh.ID, ShipmentPatch{Status: strp(models.ShipmentPendiente)})
	require.NoError(t, err)

	cam, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Equal(t, ana.ID, cam.AssignedTo, "walking back enviado does not unassign")
	assert.Equal(t, "Jalisco", cam.Location)
	requireClosure(t, st)
}

func TestDeleteShipmentReleasesAndPurgesHistory(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	ana := seedWorker(t, st, models.Worker{ID: "TEC-001", Name: "Ana", State: "Jalisco"})
	seedCamera(t, st, models.Camera{ID: "CAM-001"})

	sh, _, err := svc.CreateShipment(ctx, models.Shipment{
		Cameras:     []string{"CAM-001"},
		Destination: "Guadalajara",
		RecipientID: ana.ID,
		Status:      models.ShipmentEnviado,
	})
	require.NoError(t, err)

	entries, err := st.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, svc.DeleteShipment(ctx, sh.ID))

	_, err = st.Shipment(ctx, sh.ID)
	assert.Equal(t, store.ErrNotFound, err)

	cam, err := st.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, models.CameraDisponible, cam.Status)
	assert.Empty(t, cam.AssignedTo)
	assert.Equal(t, models.Warehouse, cam.Location)

	entries, err = st.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	requireClosure(t, st)
}
