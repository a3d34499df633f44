package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camops/models"
)

func TestMemoryNextID(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	for i, want := range []string{"CAM-001", "CAM-002", "CAM-003"} {
		got, err := m.NextID(ctx, "CAM")
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, want, got)
	}

	// counters are independent per prefix
	got, err := m.NextID(ctx, "TEC")
	require.NoError(t, err)
	assert.Equal(t, "TEC-001", got)
}

func TestMemoryCommitPutAndDelete(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	cs := NewChangeSet()
	cs.Put(CollCameras, "CAM-001", models.Camera{ID: "CAM-001", Model: "GoPro 11"})
	cs.Put(CollWorkers, "TEC-001", models.Worker{ID: "TEC-001", Name: "Ana"})
	require.NoError(t, m.Commit(ctx, cs))

	cam, err := m.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, "GoPro 11", cam.Model)

	w, err := m.Worker(ctx, "TEC-001")
	require.NoError(t, err)
	assert.Equal(t, "Ana", w.Name)

	// a later set can overwrite and delete in one commit
	cs = NewChangeSet()
	cs.Put(CollCameras, "CAM-001", models.Camera{ID: "CAM-001", Model: "GoPro 12"})
	cs.Delete(CollWorkers, "TEC-001")
	require.NoError(t, m.Commit(ctx, cs))

	cam, err = m.Camera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Equal(t, "GoPro 12", cam.Model)

	_, err = m.Worker(ctx, "TEC-001")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryNotFound(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_, err := m.Camera(ctx, "CAM-404")
	assert.Equal(t, ErrNotFound, err)
	_, err = m.Worker(ctx, "TEC-404")
	assert.Equal(t, ErrNotFound, err)
	_, err = m.Tournament(ctx, "TRN-404")
	assert.Equal(t, ErrNotFound, err)
	_, err = m.Shipment(ctx, "ENV-404")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryReadsReturnCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	cs := NewChangeSet()
	cs.Put(CollWorkers, "TEC-001", models.Worker{ID: "TEC-001", Name: "Ana", CamerasAssigned: []string{"CAM-001"}})
	require.NoError(t, m.Commit(ctx, cs))

	w, err := m.Worker(ctx, "TEC-001")
	require.NoError(t, err)
	w.CamerasAssigned[0] = "CAM-999"
	w.Name = "mutated"

	again, err := m.Worker(ctx, "TEC-001")
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Name)
	assert.Equal(t, []string{"CAM-001"}, again.CamerasAssigned)
}

func TestMemoryUserByEmail(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	cs := NewChangeSet()
	cs.Put(CollUsers, "USR-001", models.User{ID: "USR-001", Email: "ana@camops.mx", Name: "Ana"})
	require.NoError(t, m.Commit(ctx, cs))

	u, err := m.UserByEmail(ctx, "ANA@CamOps.MX")
	require.NoError(t, err)
	assert.Equal(t, "USR-001", u.ID)

	_, err = m.UserByEmail(ctx, "nadie@camops.mx")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryHistoryFilter(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	cs := NewChangeSet()
	cs.Put(CollHistory, "h1", models.HistoryEntry{ID: "h1", CameraID: "CAM-001", Type: models.HistoryShipment})
	cs.Put(CollHistory, "h2", models.HistoryEntry{ID: "h2", CameraID: "CAM-002", Type: models.HistoryTournament})
	cs.Put(CollHistory, "h3", models.HistoryEntry{ID: "h3", CameraID: "CAM-001", Type: models.HistoryReturn})
	require.NoError(t, m.Commit(ctx, cs))

	entries, err := m.HistoryForCamera(ctx, "CAM-001")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "CAM-001", e.CameraID)
	}
}
