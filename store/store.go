// store/store.go
package store

import (
	"context"
	"errors"

	"camops/models"
)

var ErrNotFound = errors.New("store: not found")

type Collection string

const (
	CollWorkers      Collection = "workers"
	CollCameras      Collection = "cameras"
	CollTournaments  Collection = "tournaments"
	CollShipments    Collection = "shipments"
	CollHistory      Collection = "camera_history"
	CollUsers        Collection = "users"
	CollLoginHistory Collection = "login_history"
)

// Op is a single staged write. A nil Doc means delete.
type Op struct {
	Coll Collection
	ID   string
	Doc  interface{}
}

// ChangeSet stages writes across collections so a cascading update can be
// committed as one unit instead of a sequence of independent calls.
type ChangeSet struct {
	ops []Op
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

func (c *ChangeSet) Put(coll Collection, id string, doc interface{}) {
	c.ops = append(c.ops, Op{Coll: coll, ID: id, Doc: doc})
}

func (c *ChangeSet) Delete(coll Collection, id string) {
	c.ops = append(c.ops, Op{Coll: coll, ID: id})
}

func (c *ChangeSet) Empty() bool {
	return len(c.ops) == 0
}

func (c *ChangeSet) Ops() []Op {
	return c.ops
}

// Store is the repository contract. The server picks one implementation at
// startup: Mongo when the backend is reachable, memory otherwise.
type Store interface {
	Workers(ctx context.Context) ([]models.Worker, error)
	Worker(ctx context.Context, id string) (*models.Worker, error)

	Cameras(ctx context.Context) ([]models.Camera, error)
	Camera(ctx context.Context, id string) (*models.Camera, error)

	Tournaments(ctx context.Context) ([]models.Tournament, error)
	Tournament(ctx context.Context, id string) (*models.Tournament, error)

	Shipments(ctx context.Context) ([]models.Shipment, error)
	Shipment(ctx context.Context, id string) (*models.Shipment, error)

	History(ctx context.Context) ([]models.HistoryEntry, error)
	HistoryForCamera(ctx context.Context, cameraID string) ([]models.HistoryEntry, error)

	Users(ctx context.Context) ([]models.User, error)
	User(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)

	LoginHistory(ctx context.Context) ([]models.LoginRecord, error)

	// NextID allocates the next sequential id for a prefix, e.g. CAM-003.
	NextID(ctx context.Context, prefix string) (string, error)

	// Commit applies every staged op as one unit.
	Commit(ctx context.Context, cs *ChangeSet) error

	Ping(ctx context.Context) error
	Mode() string
}
