package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/model"
	"github.com/hardhatlabs/constructpro/internal/notify"
)

// Phase is the bootstrap phase of the store. Persistence write-back only
// happens in PhaseReady; everything observed earlier is either seed data
// or still loading, and writing it back would clobber the stored state.
type Phase int

const (
	PhaseResolvingSession Phase = iota
	PhaseLoading
	PhaseReady
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseResolvingSession:
		return "resolving-session"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Persistence is the slice of the gateway the store depends on. Tests
// substitute an instrumented double.
type Persistence interface {
	Load(names []string) LoadResult
	Save(key string, data any)
}

// ProjectService performs remote project operations. Every call is scoped
// server-side to the authenticated owner.
type ProjectService interface {
	List(ctx context.Context, includeDeleted bool) ([]model.Project, error)
	Create(ctx context.Context, draft model.ProjectDraft) (model.Project, error)
	Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)
	Bin(ctx context.Context, id string) (model.Project, error)
	Restore(ctx context.Context, id string) (model.Project, error)
	Purge(ctx context.Context, id string) error
}

// SessionSource resolves the stored identity without touching the network.
type SessionSource interface {
	Resolve() (*model.User, bool)
}

// ErrNotAuthenticated is returned by mutating project operations issued
// without a resolved identity.
var ErrNotAuthenticated = fmt.Errorf("not authenticated")

// Store is the single in-memory source of truth for every collection. It
// sequences bootstrap (resolve session, load collections, enable
// persistence), owns the only mutation path, and writes local collections
// back through the gateway after every settled mutation once ready.
type Store struct {
	mu    sync.Mutex
	phase Phase
	busy  int // in-flight remote operations, reference counted

	user          *model.User
	authenticated bool

	personnel    []model.Personnel
	materials    []model.Material
	transactions []model.Transaction
	labTests     []model.LabTest
	listings     []model.Listing
	siteTasks    []model.SiteTask
	projects     []model.Project

	persistence Persistence
	remote      ProjectService
	sessions    SessionSource
	notifier    notify.Notifier

	personnelCrud    *Crud[model.Personnel]
	materialsCrud    *Crud[model.Material]
	transactionsCrud *Crud[model.Transaction]
	labTestsCrud     *Crud[model.LabTest]
	listingsCrud     *Crud[model.Listing]
	siteTasksCrud    *Crud[model.SiteTask]
}

// New constructs a store. Call Bootstrap before using it.
func New(persistence Persistence, remote ProjectService, sessions SessionSource, notifier notify.Notifier) *Store {
	s := &Store{
		phase:       PhaseResolvingSession,
		persistence: persistence,
		remote:      remote,
		sessions:    sessions,
		notifier:    notifier,
	}

	s.personnelCrud = NewCrud("Personnel",
		func() []model.Personnel { s.mu.Lock(); defer s.mu.Unlock(); return s.personnel },
		func(items []model.Personnel) { setCollection(s, &s.personnel, items, KeyPersonnel) },
		notifier)
	s.materialsCrud = NewCrud("Material",
		func() []model.Material { s.mu.Lock(); defer s.mu.Unlock(); return s.materials },
		func(items []model.Material) { setCollection(s, &s.materials, items, KeyMaterials) },
		notifier)
	s.transactionsCrud = NewCrud("Transaction",
		func() []model.Transaction { s.mu.Lock(); defer s.mu.Unlock(); return s.transactions },
		func(items []model.Transaction) { setCollection(s, &s.transactions, items, KeyTransactions) },
		notifier)
	s.labTestsCrud = NewCrud("Lab test",
		func() []model.LabTest { s.mu.Lock(); defer s.mu.Unlock(); return s.labTests },
		func(items []model.LabTest) { setCollection(s, &s.labTests, items, KeyLabTests) },
		notifier)
	s.listingsCrud = NewCrud("Listing",
		func() []model.Listing { s.mu.Lock(); defer s.mu.Unlock(); return s.listings },
		func(items []model.Listing) { setCollection(s, &s.listings, items, KeyListings) },
		notifier)
	s.siteTasksCrud = NewCrud("Site task",
		func() []model.SiteTask { s.mu.Lock(); defer s.mu.Unlock(); return s.siteTasks },
		func(items []model.SiteTask) { setCollection(s, &s.siteTasks, items, KeySiteTasks) },
		notifier)

	return s
}

// setCollection swaps a collection in memory and writes it back through
// the gateway, but only once bootstrap has finished. The gate on phase is
// what keeps seed defaults from overwriting not-yet-loaded data.
func setCollection[T any](s *Store, target *[]T, items []T, key string) {
	s.mu.Lock()
	*target = items
	ready := s.phase == PhaseReady
	s.mu.Unlock()

	if ready {
		s.persistence.Save(key, items)
	} else {
		logger.Debug("Skipping write-back before ready", logger.F("key", key))
	}
}

// Phase returns the current bootstrap phase.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Busy reports whether any remote operation is in flight.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy > 0
}

func (s *Store) beginBusy() {
	s.mu.Lock()
	s.busy++
	s.mu.Unlock()
}

func (s *Store) endBusy() {
	s.mu.Lock()
	s.busy--
	s.mu.Unlock()
}

// User returns the resolved identity, or nil when signed out.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether a session was resolved.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Bootstrap runs the three-phase startup sequence: resolve the session
// synchronously, load every collection (local batch plus remote projects
// in parallel), then enable persistence. It is run once per session
// start; no write-back happens before it returns.
func (s *Store) Bootstrap(ctx context.Context) {
	user, authenticated := s.sessions.Resolve()

	s.mu.Lock()
	s.user = user
	s.authenticated = authenticated
	s.phase = PhaseLoading
	s.mu.Unlock()

	logger.Info("Session resolved", logger.F("authenticated", authenticated))

	if !authenticated {
		s.resetToDefaults()
		s.setPhase(PhaseReady)
		return
	}

	// Remote fetch runs concurrently with the local batch; loading ends
	// only after both settle.
	var (
		wg        sync.WaitGroup
		projects  []model.Project
		remoteErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		projects, remoteErr = s.remote.List(ctx, true)
	}()

	res := s.persistence.Load(CollectionNames())
	s.applyLoadResult(res)
	wg.Wait()

	s.mu.Lock()
	if remoteErr != nil {
		s.projects = nil
	} else {
		s.projects = projects
	}
	s.mu.Unlock()

	if remoteErr != nil {
		logger.Error("Failed to fetch projects", logger.F("error", remoteErr))
		s.notifier.Notify("Failed to load projects", remoteErr.Error(), notify.Failure)
	}
	if res.Errors != nil {
		for name, msg := range res.Errors {
			s.notifier.Notify("Local data recovered",
				fmt.Sprintf("collection %s reset to defaults: %s", name, msg),
				notify.Warning)
		}
	}

	s.setPhase(PhaseReady)
	logger.Info("Store ready",
		logger.F("projects", len(projects)),
		logger.F("localCollections", len(res.Data)))
}

func (s *Store) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func (s *Store) applyLoadResult(res LoadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personnel = decodeCollection[model.Personnel](res, ColPersonnel, model.DefaultPersonnel)
	s.materials = decodeCollection[model.Material](res, ColMaterials, model.DefaultMaterials)
	s.transactions = decodeCollection[model.Transaction](res, ColTransactions, model.DefaultTransactions)
	s.labTests = decodeCollection[model.LabTest](res, ColLabTests, model.DefaultLabTests)
	s.listings = decodeCollection[model.Listing](res, ColListings, model.DefaultListings)
	s.siteTasks = decodeCollection[model.SiteTask](res, ColSiteTasks, model.DefaultSiteTasks)
}

func decodeCollection[T any](res LoadResult, name string, seed func() []T) []T {
	raw, ok := res.Data[name]
	if !ok {
		return seed()
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("Failed to decode collection, using defaults",
			logger.F("name", name), logger.F("error", err))
		return seed()
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func (s *Store) resetToDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personnel = model.DefaultPersonnel()
	s.materials = model.DefaultMaterials()
	s.transactions = model.DefaultTransactions()
	s.labTests = model.DefaultLabTests()
	s.listings = model.DefaultListings()
	s.siteTasks = model.DefaultSiteTasks()
	s.projects = nil
}

// Flush writes every local collection back to the gateway. Callers run it
// on shutdown; it is a no-op before the store is ready.
func (s *Store) Flush() {
	s.mu.Lock()
	if s.phase != PhaseReady {
		s.mu.Unlock()
		return
	}
	batch := []struct {
		key  string
		data any
	}{
		{KeyPersonnel, s.personnel},
		{KeyMaterials, s.materials},
		{KeyTransactions, s.transactions},
		{KeyLabTests, s.labTests},
		{KeyListings, s.listings},
		{KeySiteTasks, s.siteTasks},
	}
	s.mu.Unlock()

	for _, b := range batch {
		s.persistence.Save(b.key, b.data)
	}
}

// Personnel returns the CRUD operations bound to the personnel collection.
func (s *Store) Personnel() *Crud[model.Personnel] { return s.personnelCrud }

// Materials returns the CRUD operations bound to the materials collection.
func (s *Store) Materials() *Crud[model.Material] { return s.materialsCrud }

// Transactions returns the CRUD operations bound to the finance ledger.
func (s *Store) Transactions() *Crud[model.Transaction] { return s.transactionsCrud }

// LabTests returns the CRUD operations bound to the lab test collection.
func (s *Store) LabTests() *Crud[model.LabTest] { return s.labTestsCrud }

// Listings returns the CRUD operations bound to the marketplace listings.
func (s *Store) Listings() *Crud[model.Listing] { return s.listingsCrud }

// SiteTasks returns the CRUD operations bound to the site task collection.
func (s *Store) SiteTasks() *Crud[model.SiteTask] { return s.siteTasksCrud }

// Projects returns a snapshot of the active (not binned) projects.
func (s *Store) Projects() []model.Project {
	return s.projectsWhere(func(p model.Project) bool { return !p.IsDeleted })
}

// BinnedProjects returns a snapshot of the soft-deleted projects.
func (s *Store) BinnedProjects() []model.Project {
	return s.projectsWhere(func(p model.Project) bool { return p.IsDeleted })
}

// AllProjects returns a snapshot of every project, binned included.
func (s *Store) AllProjects() []model.Project {
	return s.projectsWhere(func(model.Project) bool { return true })
}

func (s *Store) projectsWhere(keep func(model.Project) bool) []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// FindProject returns the project with the given id, binned or not.
func (s *Store) FindProject(id string) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == id })
	if idx < 0 {
		return model.Project{}, false
	}
	return s.projects[idx], true
}

func (s *Store) requireIdentity() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated || s.user == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// mergeProject replaces the in-memory record matching the echo's id, or
// appends when it is new. The server echo is the source of truth, never
// the local draft or patch.
func (s *Store) mergeProject(echo model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == echo.ID })
	if idx < 0 {
		s.projects = append(slices.Clone(s.projects), echo)
		return
	}
	out := slices.Clone(s.projects)
	out[idx] = echo
	s.projects = out
}

func (s *Store) removeProject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == id })
	if idx < 0 {
		return
	}
	out := slices.Clone(s.projects)
	s.projects = slices.Delete(out, idx, idx+1)
}

// RefreshProjects re-fetches the projects collection from the server and
// replaces the in-memory copy. Local collections are untouched.
func (s *Store) RefreshProjects(ctx context.Context) error {
	if err := s.requireIdentity(); err != nil {
		return err
	}

	s.beginBusy()
	defer s.endBusy()

	projects, err := s.remote.List(ctx, true)
	if err != nil {
		logger.Error("Failed to refresh projects", logger.F("error", err))
		s.notifier.Notify("Failed to refresh projects", err.Error(), notify.Failure)
		return err
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return nil
}

// AddProject submits a new project and appends the server's canonical
// record. The draft carries no identity or lifecycle fields; the server
// assigns those.
func (s *Store) AddProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	if err := s.requireIdentity(); err != nil {
		s.notifier.Notify("Not authenticated", "sign in to manage projects", notify.Failure)
		return model.Project{}, err
	}

	s.beginBusy()
	defer s.endBusy()

	echo, err := s.remote.Create(ctx, draft)
	if err != nil {
		logger.Error("Failed to create project", logger.F("error", err))
		s.notifier.Notify("Failed to create project", err.Error(), notify.Failure)
		return model.Project{}, err
	}

	s.mergeProject(echo)
	s.notifier.Notify("Project created", echo.Name, notify.Success)
	return echo, nil
}

// UpdateProject submits a partial update and replaces the in-memory
// record with the server's echo.
func (s *Store) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if err := s.requireIdentity(); err != nil {
		s.notifier.Notify("Not authenticated", "sign in to manage projects", notify.Failure)
		return model.Project{}, err
	}

	s.beginBusy()
	defer s.endBusy()

	echo, err := s.remote.Update(ctx, id, patch)
	if err != nil {
		logger.Error("Failed to update project", logger.F("id", id), logger.F("error", err))
		s.notifier.Notify("Failed to update project", err.Error(), notify.Failure)
		return model.Project{}, err
	}

	s.mergeProject(echo)
	s.notifier.Notify("Project updated", echo.Name, notify.Success)
	return echo, nil
}

// BinProject soft-deletes a project. The record stays in memory, marked
// binned, and can be restored.
func (s *Store) BinProject(ctx context.Context, id string) (model.Project, error) {
	if err := s.requireIdentity(); err != nil {
		s.notifier.Notify("Not authenticated", "sign in to manage projects", notify.Failure)
		return model.Project{}, err
	}

	s.beginBusy()
	defer s.endBusy()

	echo, err := s.remote.Bin(ctx, id)
	if err != nil {
		logger.Error("Failed to bin project", logger.F("id", id), logger.F("error", err))
		s.notifier.Notify("Failed to move project to bin", err.Error(), notify.Failure)
		return model.Project{}, err
	}

	s.mergeProject(echo)
	s.notifier.Notify("Project moved to bin", echo.Name, notify.Success)
	return echo, nil
}

// RestoreProject brings a binned project back to active.
func (s *Store) RestoreProject(ctx context.Context, id string) (model.Project, error) {
	if err := s.requireIdentity(); err != nil {
		s.notifier.Notify("Not authenticated", "sign in to manage projects", notify.Failure)
		return model.Project{}, err
	}

	s.beginBusy()
	defer s.endBusy()

	echo, err := s.remote.Restore(ctx, id)
	if err != nil {
		logger.Error("Failed to restore project", logger.F("id", id), logger.F("error", err))
		s.notifier.Notify("Failed to restore project", err.Error(), notify.Failure)
		return model.Project{}, err
	}

	s.mergeProject(echo)
	s.notifier.Notify("Project restored", echo.Name, notify.Success)
	return echo, nil
}

// PurgeProject permanently deletes a binned project. On success the
// record is removed from memory entirely, not merged.
func (s *Store) PurgeProject(ctx context.Context, id string) error {
	if err := s.requireIdentity(); err != nil {
		s.notifier.Notify("Not authenticated", "sign in to manage projects", notify.Failure)
		return err
	}

	s.beginBusy()
	defer s.endBusy()

	if err := s.remote.Purge(ctx, id); err != nil {
		logger.Error("Failed to purge project", logger.F("id", id), logger.F("error", err))
		s.notifier.Notify("Failed to delete project permanently", err.Error(), notify.Failure)
		return err
	}

	s.removeProject(id)
	s.notifier.Notify("Project permanently deleted", id, notify.Success)
	return nil
}
