// Package list implements the entity list controller: one loaded
// collection with search, sort and selection state.
//
// Loads are guarded by a request counter. When loads overlap only the most
// recently started one commits its result, and a load whose context was
// cancelled never commits.
package list

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/pthm/hxdash/lib/apiclient"
)

// DefaultErrorMessage is shown when a load fails without a server detail.
const DefaultErrorMessage = "Failed to load data"

// ErrSuperseded is returned by Load when a newer load started before this
// one finished. The result was discarded.
var ErrSuperseded = errors.New("list: load superseded by a newer request")

// Entity is anything with a server-assigned numeric id.
type Entity interface {
	GetID() int64
}

// Loader fetches the whole collection.
type Loader[E any] func(ctx context.Context) ([]E, error)

// Options configures a Controller.
type Options[E Entity] struct {
	Loader Loader[E]
	// LoaderKey identifies Loader. SetLoader only swaps and reloads when
	// the key changes, e.g. "org:12" to "org:13".
	LoaderKey string
	// Filter is applied when the search query is non-empty.
	Filter func(e E, query string) bool
	// Compare sorts the filtered entities when set.
	Compare func(a, b E) int
	// AutoLoad makes Start and SetLoader trigger a load.
	AutoLoad bool
	Logger   *slog.Logger
}

// State is a snapshot for rendering.
type State[E Entity] struct {
	Entities []E
	Loading  bool
	Error    string
	Query    string
	Selected map[int64]bool
}

// Controller holds one entity list. It is safe for concurrent use.
type Controller[E Entity] struct {
	mu       sync.Mutex
	opts     Options[E]
	entities []E
	loading  bool
	err      string
	query    string
	selected map[int64]bool
	seq      uint64
	started  bool
	logger   *slog.Logger
}

// New creates a list controller. Nothing is loaded until Start, Load or
// SetLoader is called.
func New[E Entity](opts Options[E]) *Controller[E] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller[E]{
		opts:     opts,
		selected: make(map[int64]bool),
		logger:   logger,
	}
}

// Start performs the initial auto-load the first time it is called. Later
// calls and controllers without AutoLoad do nothing.
func (c *Controller[E]) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started || !c.opts.AutoLoad {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetLoader replaces the loader when key differs from the current one and
// reloads if AutoLoad is set. The same key is a no-op.
func (c *Controller[E]) SetLoader(ctx context.Context, key string, loader Loader[E]) error {
	c.mu.Lock()
	if c.started && key == c.opts.LoaderKey {
		c.mu.Unlock()
		return nil
	}
	c.opts.LoaderKey = key
	c.opts.Loader = loader
	c.started = true
	auto := c.opts.AutoLoad
	c.mu.Unlock()

	if !auto {
		return nil
	}
	return c.Load(ctx)
}

// LoaderKey returns the key of the current loader.
func (c *Controller[E]) LoaderKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.LoaderKey
}

// Load calls the loader and replaces the entities with its result. On
// failure the previous entities are kept and the error message is set.
func (c *Controller[E]) Load(ctx context.Context) error {
	c.mu.Lock()
	loader := c.opts.Loader
	if loader == nil {
		c.mu.Unlock()
		return nil
	}
	c.seq++
	seq := c.seq
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	entities, err := loader(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return ErrSuperseded
	}
	c.loading = false
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		c.err = apiclient.Message(err, DefaultErrorMessage)
		c.logger.Error("list load failed", "loader", c.opts.LoaderKey, "err", err)
		return err
	}
	c.entities = entities
	return nil
}

// Refresh reloads the list. It is the same as Load.
func (c *Controller[E]) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Reset drops loaded entities, error and selection.
func (c *Controller[E]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.entities = nil
	c.loading = false
	c.err = ""
	c.selected = make(map[int64]bool)
}

// SetSearch sets the search query.
func (c *Controller[E]) SetSearch(query string) {
	c.mu.Lock()
	c.query = query
	c.mu.Unlock()
}

// Filtered returns the entities after search filtering and sorting.
func (c *Controller[E]) Filtered() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredLocked()
}

func (c *Controller[E]) filteredLocked() []E {
	out := make([]E, 0, len(c.entities))
	for _, e := range c.entities {
		if c.query != "" && c.opts.Filter != nil && !c.opts.Filter(e, c.query) {
			continue
		}
		out = append(out, e)
	}
	if c.opts.Compare != nil {
		slices.SortFunc(out, c.opts.Compare)
	}
	return out
}

// Find returns the loaded entity with id.
func (c *Controller[E]) Find(id int64) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entities {
		if e.GetID() == id {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// ToggleSelect flips the selection of id.
func (c *Controller[E]) ToggleSelect(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected[id] {
		delete(c.selected, id)
		return
	}
	c.selected[id] = true
}

// Deselect removes ids from the selection. Ids that are not selected are
// ignored.
func (c *Controller[E]) Deselect(ids ...int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.selected, id)
	}
}

// SelectAll selects exactly the ids currently visible after filtering.
func (c *Controller[E]) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int64]bool)
	for _, e := range c.filteredLocked() {
		c.selected[e.GetID()] = true
	}
}

// ClearSelection empties the selection.
func (c *Controller[E]) ClearSelection() {
	c.mu.Lock()
	c.selected = make(map[int64]bool)
	c.mu.Unlock()
}

// SelectedIDs returns the selected ids in ascending order.
func (c *Controller[E]) SelectedIDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// State returns a snapshot. Entities holds the filtered, sorted view.
func (c *Controller[E]) State() State[E] {
	c.mu.Lock()
	defer c.mu.Unlock()
	selected := make(map[int64]bool, len(c.selected))
	for id := range c.selected {
		selected[id] = true
	}
	return State[E]{
		Entities: c.filteredLocked(),
		Loading:  c.loading,
		Error:    c.err,
		Query:    c.query,
		Selected: selected,
	}
}

// All returns every loaded entity in load order.
func (c *Controller[E]) All() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entities)
}
