package engage

import (
	"fmt"
	"sync"

	"github.com/marcus/tale/internal/apiclient"
	"github.com/marcus/tale/internal/models"
)

// Toggler is the slice of the content API the coordinator dispatches to.
type Toggler interface {
	ToggleLike(storyID string) (*apiclient.LikeResult, error)
	ToggleReadingList(storyID string) (*apiclient.ReadingListResult, error)
}

// Coordinator runs the optimistic mutation pipeline shared by like-toggle
// and list-toggle: capture prior snapshot, apply the optimistic inverse,
// dispatch the request, then commit the server value or roll back to the
// snapshot. Failures are returned to the caller and never retried here.
type Coordinator struct {
	records *Records
	api     Toggler

	mu    sync.Mutex
	gates map[string]*sync.Mutex
}

// NewCoordinator wires a coordinator over a record store and an API.
func NewCoordinator(records *Records, api Toggler) *Coordinator {
	return &Coordinator{
		records: records,
		api:     api,
		gates:   make(map[string]*sync.Mutex),
	}
}

// Perform executes one toggle intent end to end and returns the record as it
// stands afterward: the committed state on success, the restored prior state
// on failure (alongside the error).
//
// Calls for the same story are serialized: a second Perform captures its
// prior snapshot only after the first has committed or rolled back, so a
// late rollback can never restore a snapshot from before an intervening
// commit. Calls for different stories proceed independently.
func (c *Coordinator) Perform(intent models.Intent) (models.EngagementRecord, error) {
	gate := c.storyGate(intent.StoryID)
	gate.Lock()
	defer gate.Unlock()

	prior := c.records.Snapshot(intent.StoryID)
	c.records.ApplyOptimistic(intent)

	server, err := c.dispatch(intent)
	if err != nil {
		c.records.Rollback(intent, prior)
		return prior, err
	}

	c.records.Commit(intent, server)
	return c.records.Snapshot(intent.StoryID), nil
}

// dispatch sends the request matching the intent kind.
func (c *Coordinator) dispatch(intent models.Intent) (ServerState, error) {
	switch intent.Kind {
	case models.IntentToggleLike:
		res, err := c.api.ToggleLike(intent.StoryID)
		if err != nil {
			return ServerState{}, err
		}
		return ServerState{Liked: res.Liked, LikesCount: res.LikesCount}, nil
	case models.IntentToggleList:
		res, err := c.api.ToggleReadingList(intent.StoryID)
		if err != nil {
			return ServerState{}, err
		}
		return ServerState{InList: res.Added}, nil
	default:
		return ServerState{}, fmt.Errorf("intent %q is not a coordinator mutation", intent.Kind)
	}
}

// storyGate returns the per-story in-flight gate, creating it on first use.
// Gates are never removed; the map is bounded by the stories touched in one
// process lifetime.
func (c *Coordinator) storyGate(storyID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	gate, ok := c.gates[storyID]
	if !ok {
		gate = &sync.Mutex{}
		c.gates[storyID] = gate
	}
	return gate
}
