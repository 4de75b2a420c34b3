// Package workspace owns the live inventory state. It serialises mutations,
// persists every accepted change before exposing it and keeps the undo/redo
// history.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"labstock/internal/history"
	"labstock/internal/inventory"
	applog "labstock/internal/log"
	"labstock/models"
)

var (
	ErrForbidden     = errors.New("workspace: action not permitted for role")
	ErrNothingToUndo = errors.New("workspace: nothing to undo")
	ErrNothingToRedo = errors.New("workspace: nothing to redo")
	ErrPersist       = errors.New("workspace: persist state")
)

// Store is the save/load boundary of the workspace.
type Store interface {
	Load(ctx context.Context) (inventory.State, []inventory.AuditEntry, error)
	Save(ctx context.Context, state inventory.State, audit []inventory.AuditEntry) error
}

// Actor identifies who performs an action.
type Actor struct {
	ID   string
	Name string
	Role models.Role
}

// Options tune a Workspace. Zero values select sensible defaults.
type Options struct {
	Location       *time.Location
	HistoryLimit   int
	NearExpiryDays int
	Clock          func() time.Time
	NewID          func() string
}

// Workspace is the single writer over the inventory snapshot.
type Workspace struct {
	mu       sync.RWMutex
	store    Store
	state    inventory.State
	audit    []inventory.AuditEntry
	history  *history.History[inventory.State]
	loc      *time.Location
	nearDays int
	clock    func() time.Time
	newID    func() string
}

// Open loads the persisted snapshot and marks lots that expired while the
// application was not running.
func Open(ctx context.Context, store Store, opts Options) (*Workspace, error) {
	if store == nil {
		return nil, errors.New("workspace: store is nil")
	}
	state, audit, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("workspace: load: %w", err)
	}

	w := &Workspace{
		store:    store,
		state:    state,
		audit:    audit,
		history:  history.New[inventory.State](opts.HistoryLimit),
		loc:      opts.Location,
		nearDays: opts.NearExpiryDays,
		clock:    opts.Clock,
		newID:    opts.NewID,
	}
	if w.loc == nil {
		w.loc = time.Local
	}
	if w.nearDays <= 0 {
		w.nearDays = inventory.DefaultNearExpiryDays
	}
	if w.clock == nil {
		w.clock = time.Now
	}
	if w.newID == nil {
		w.newID = uuid.NewString
	}

	if _, err := w.SweepExpired(ctx); err != nil {
		return nil, err
	}
	applog.Info(ctx, "workspace loaded", "chemicals", len(state.Chemicals), "auditEntries", len(audit))
	return w, nil
}

// Today is the current calendar day in the workspace time zone.
func (w *Workspace) Today() inventory.Date {
	return inventory.DateOf(w.clock().In(w.loc))
}

// Location returns the time zone used for expiry computations.
func (w *Workspace) Location() *time.Location { return w.loc }

// NearExpiryDays returns the width of the near-expiry window.
func (w *Workspace) NearExpiryDays() int { return w.nearDays }

// Now returns the workspace clock reading.
func (w *Workspace) Now() time.Time { return w.clock() }

// Dispatch applies cmd on behalf of actor. The new state is persisted before
// it replaces the current one, so a failed save leaves everything unchanged.
func (w *Workspace) Dispatch(ctx context.Context, actor Actor, cmd inventory.Command) (inventory.AuditEntry, error) {
	if err := authorize(actor, cmd); err != nil {
		return inventory.AuditEntry{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	env := inventory.Env{Today: w.Today(), NewID: w.newID}
	next, event, err := cmd.Reduce(w.state, env)
	if err != nil {
		applog.Debug(ctx, "inventory command rejected", "command", fmt.Sprintf("%T", cmd), "error", err)
		return inventory.AuditEntry{}, err
	}

	entry := w.stamp(actor, event)
	audit := make([]inventory.AuditEntry, 0, len(w.audit)+1)
	audit = append(audit, entry)
	audit = append(audit, w.audit...)

	if err := w.store.Save(ctx, next, audit); err != nil {
		applog.Error(ctx, "failed to persist inventory mutation", "action", entry.Action, "error", err)
		return inventory.AuditEntry{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	w.history.Record(w.state)
	w.state = next
	w.audit = audit
	applog.Info(ctx, "inventory mutation applied", "action", entry.Action, "entity", entry.EntityID, "user", actor.Name)
	return entry, nil
}

// Undo restores the snapshot taken before the most recent mutation. No audit
// entry is written.
func (w *Workspace) Undo(ctx context.Context, actor Actor) error {
	if !actor.Role.CanEdit() {
		return ErrForbidden
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	previous, ok := w.history.Undo(w.state)
	if !ok {
		return ErrNothingToUndo
	}
	if err := w.store.Save(ctx, previous, w.audit); err != nil {
		w.history.Redo(previous)
		applog.Error(ctx, "failed to persist undo", "error", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	w.state = previous
	applog.Info(ctx, "inventory undo", "user", actor.Name)
	return nil
}

// Redo re-applies the most recently undone snapshot.
func (w *Workspace) Redo(ctx context.Context, actor Actor) error {
	if !actor.Role.CanEdit() {
		return ErrForbidden
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	following, ok := w.history.Redo(w.state)
	if !ok {
		return ErrNothingToRedo
	}
	if err := w.store.Save(ctx, following, w.audit); err != nil {
		w.history.Undo(following)
		applog.Error(ctx, "failed to persist redo", "error", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	w.state = following
	applog.Info(ctx, "inventory redo", "user", actor.Name)
	return nil
}

// HistoryDepth reports how many undo and redo steps are available.
type HistoryDepth struct {
	Undo  int `json:"undo"`
	Redo  int `json:"redo"`
	Limit int `json:"limit"`
}

// History returns the current undo/redo depth.
func (w *Workspace) History() HistoryDepth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return HistoryDepth{Undo: w.history.UndoDepth(), Redo: w.history.RedoDepth(), Limit: w.history.Limit()}
}

// Replace swaps the whole inventory and audit log, as a backup import does.
// The previous inventory stays reachable through Undo.
func (w *Workspace) Replace(ctx context.Context, actor Actor, state inventory.State, audit []inventory.AuditEntry) error {
	if !actor.Role.CanAdminister() {
		return ErrForbidden
	}
	state = state.Clone()
	audit = slices.Clone(audit)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.Save(ctx, state, audit); err != nil {
		applog.Error(ctx, "failed to persist imported inventory", "error", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	w.history.Record(w.state)
	w.state = state
	w.audit = audit
	applog.Info(ctx, "inventory replaced", "chemicals", len(state.Chemicals), "auditEntries", len(audit), "user", actor.Name)
	return nil
}

// SweepExpired persists EXPIRED on every active lot past its effective expiry.
// The sweep is bookkeeping: it records neither history nor audit entries.
func (w *Workspace) SweepExpired(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, changed := inventory.SweepExpired(w.state, w.clock(), w.loc)
	if changed == 0 {
		return 0, nil
	}
	if err := w.store.Save(ctx, next, w.audit); err != nil {
		applog.Error(ctx, "failed to persist expiry sweep", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	w.state = next
	applog.Info(ctx, "expired lots swept", "lots", changed)
	return changed, nil
}

func (w *Workspace) stamp(actor Actor, event inventory.Event) inventory.AuditEntry {
	return inventory.AuditEntry{
		ID:           w.newID(),
		Timestamp:    w.clock().UTC(),
		UserID:       actor.ID,
		UserName:     actor.Name,
		Action:       event.Action,
		EntityID:     event.EntityID,
		ChemicalName: event.ChemicalName,
		LotNumber:    event.LotNumber,
		Amount:       event.Amount,
		Unit:         event.Unit,
		Details:      event.Details,
	}
}

func authorize(actor Actor, cmd inventory.Command) error {
	switch cmd.(type) {
	case inventory.DeleteChemical, *inventory.DeleteChemical:
		if !actor.Role.CanAdminister() {
			return ErrForbidden
		}
	default:
		if !actor.Role.CanEdit() {
			return ErrForbidden
		}
	}
	return nil
}
