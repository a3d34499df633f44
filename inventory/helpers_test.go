package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"camops/models"
	"camops/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return New(st), st
}

func seedWorker(t *testing.T, st *store.MemoryStore, w models.Worker) models.Worker {
	t.Helper()
	if w.Status == "" {
		w.Status = models.WorkerDisponible
	}
	w.CreatedAt = time.Now().UTC()
	cs := store.NewChangeSet()
	cs.Put(store.CollWorkers, w.ID, w)
	require.NoError(t, st.Commit(context.Background(), cs))
	return w
}

func seedCamera(t *testing.T, st *store.MemoryStore, c models.Camera) models.Camera {
	t.Helper()
	if c.Status == "" {
		c.Status = models.CameraDisponible
	}
	if c.Location == "" {
		c.Location = models.Warehouse
	}
	c.CreatedAt = time.Now().UTC()
	cs := store.NewChangeSet()
	cs.Put(store.CollCameras, c.ID, c)
	require.NoError(t, st.Commit(context.Background(), cs))
	return c
}

// seedAssigned wires a camera to a worker on both sides, the way the service
// would have left them.
func seedAssigned(t *testing.T, st *store.MemoryStore, w models.Worker, camIDs ...string) models.Worker {
	t.Helper()
	ctx := context.Background()
	cs := store.NewChangeSet()
	for _, camID := range camIDs {
		cam, err := st.Camera(ctx, camID)
		require.NoError(t, err)
		cam.AssignedTo = w.ID
		cam.AssignedToName = w.Name
		cam.Location = w.State
		cs.Put(store.CollCameras, cam.ID, *cam)
		w.CamerasAssigned = append(w.CamerasAssigned, camID)
	}
	cs.Put(store.CollWorkers, w.ID, w)
	require.NoError(t, st.Commit(ctx, cs))
	return w
}

func strp(s string) *string { return &s }

func intp(i int) *int { return &i }

func listp(ids ...string) *[]string { l := append([]string{}, ids...); return &l }

// requireClosure checks the two-way invariant: a camera points at a worker
// iff that worker lists the camera, and no camera is listed twice.
func requireClosure(t *testing.T, st *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	workers, err := st.Workers(ctx)
	require.NoError(t, err)
	cameras, err := st.Cameras(ctx)
	require.NoError(t, err)

	owners := make(map[string]string) // camera id -> worker id
	for _, w := range workers {
		for _, camID := range w.CamerasAssigned {
			prev, dup := owners[camID]
			require.False(t, dup, "camera %s listed by both %s and %s", camID, prev, w.ID)
			owners[camID] = w.ID
		}
	}
	for _, c := range cameras {
		require.Equal(t, c.AssignedTo, owners[c.ID],
			"camera %s assignment disagrees with worker lists", c.ID)
		if c.AssignedTo != "" {
			w, err := st.Worker(ctx, c.AssignedTo)
			require.NoError(t, err)
			require.Equal(t, w.Name, c.AssignedToName)
		}
	}
}
