package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/hardhatlabs/constructpro/internal/model"
	"github.com/hardhatlabs/constructpro/internal/notify"
	"github.com/stretchr/testify/require"
)

// countingPersistence wraps a real gateway and counts Save calls per key.
type countingPersistence struct {
	mu    sync.Mutex
	inner *Gateway
	saves map[string]int
}

func newCountingPersistence(t *testing.T) *countingPersistence {
	return &countingPersistence{inner: newTestGateway(t), saves: make(map[string]int)}
}

func (p *countingPersistence) Load(names []string) LoadResult {
	return p.inner.Load(names)
}

func (p *countingPersistence) Save(key string, data any) {
	p.mu.Lock()
	p.saves[key]++
	p.mu.Unlock()
	p.inner.Save(key, data)
}

func (p *countingPersistence) totalSaves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.saves {
		n += c
	}
	return n
}

// fakeRemote is a scriptable ProjectService.
type fakeRemote struct {
	mu        sync.Mutex
	listCalls int

	projects []model.Project
	err      error
}

func (f *fakeRemote) List(ctx context.Context, includeDeleted bool) ([]model.Project, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.projects, nil
}

func (f *fakeRemote) Create(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	if f.err != nil {
		return model.Project{}, f.err
	}
	return model.Project{ID: "srv-1", Name: draft.Name, Status: model.StatusPlanning}, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if f.err != nil {
		return model.Project{}, f.err
	}
	p := model.Project{ID: id, Name: "updated"}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	return p, nil
}

func (f *fakeRemote) Bin(ctx context.Context, id string) (model.Project, error) {
	if f.err != nil {
		return model.Project{}, f.err
	}
	return model.Project{ID: id, Name: "binned", IsDeleted: true}, nil
}

func (f *fakeRemote) Restore(ctx context.Context, id string) (model.Project, error) {
	if f.err != nil {
		return model.Project{}, f.err
	}
	return model.Project{ID: id, Name: "restored", IsDeleted: false}, nil
}

func (f *fakeRemote) Purge(ctx context.Context, id string) error {
	return f.err
}

type fakeSessions struct {
	user *model.User
	ok   bool
}

func (f fakeSessions) Resolve() (*model.User, bool) { return f.user, f.ok }

func signedIn() fakeSessions {
	return fakeSessions{user: &model.User{ID: "u1", Username: "site-manager"}, ok: true}
}

type storeHarness struct {
	persistence *countingPersistence
	remote      *fakeRemote
	recorder    *notify.Recorder
	store       *Store
}

func newStoreHarness(t *testing.T, sessions SessionSource, remote *fakeRemote) *storeHarness {
	h := &storeHarness{
		persistence: newCountingPersistence(t),
		remote:      remote,
		recorder:    &notify.Recorder{},
	}
	h.store = New(h.persistence, remote, sessions, h.recorder)
	return h
}

func TestBootstrapUnauthenticated(t *testing.T) {
	remote := &fakeRemote{}
	h := newStoreHarness(t, fakeSessions{}, remote)

	h.store.Bootstrap(context.Background())

	require.Equal(t, PhaseReady, h.store.Phase())
	require.False(t, h.store.Authenticated())
	require.Nil(t, h.store.User())
	require.Equal(t, model.DefaultPersonnel(), h.store.Personnel().List())
	require.Empty(t, h.store.AllProjects())
	require.Zero(t, remote.listCalls, "signed out must not hit the server")
	require.Zero(t, h.persistence.totalSaves(), "bootstrap must not write back")
}

func TestBootstrapLoadsLocalAndRemote(t *testing.T) {
	remote := &fakeRemote{projects: []model.Project{
		{ID: "p1", Name: "Bridge", IsDeleted: false},
		{ID: "p2", Name: "Old depot", IsDeleted: true},
	}}
	h := newStoreHarness(t, signedIn(), remote)

	stored := []model.Personnel{{ID: "per-x", Name: "Stored Worker"}}
	h.persistence.inner.Save(KeyPersonnel, stored)

	h.store.Bootstrap(context.Background())

	require.Equal(t, PhaseReady, h.store.Phase())
	require.Equal(t, stored, h.store.Personnel().List())
	require.Len(t, h.store.Projects(), 1)
	require.Len(t, h.store.BinnedProjects(), 1)
	require.Zero(t, h.persistence.totalSaves(), "bootstrap must not write back")
}

func TestBootstrapRemoteFailure(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection refused")}
	h := newStoreHarness(t, signedIn(), remote)

	h.store.Bootstrap(context.Background())

	require.Equal(t, PhaseReady, h.store.Phase())
	require.Empty(t, h.store.AllProjects())
	require.Equal(t, model.DefaultMaterials(), h.store.Materials().List(),
		"local collections load even when the server is down")

	failures := 0
	for _, n := range h.recorder.All() {
		if n.Severity == notify.Failure {
			failures++
		}
	}
	require.Equal(t, 1, failures)
}

func TestBootstrapCorruptCollectionRecovers(t *testing.T) {
	h := newStoreHarness(t, signedIn(), &fakeRemote{})

	require.NoError(t, h.persistence.inner.Put(KeyListings, []byte("not json")))
	h.persistence.inner.Save(KeySiteTasks, []model.SiteTask{{ID: "st-1", Title: "Survey"}})

	h.store.Bootstrap(context.Background())

	require.Equal(t, model.DefaultListings(), h.store.Listings().List())
	require.Len(t, h.store.SiteTasks().List(), 1)

	warnings := 0
	for _, n := range h.recorder.All() {
		if n.Severity == notify.Warning {
			warnings++
		}
	}
	require.Equal(t, 1, warnings)
}

func TestWriteBackOnlyAfterReady(t *testing.T) {
	h := newStoreHarness(t, signedIn(), &fakeRemote{})

	// Mutation before bootstrap settles must not persist.
	h.store.Personnel().Add(model.Personnel{Name: "Too Early"})
	require.Zero(t, h.persistence.totalSaves())

	h.store.Bootstrap(context.Background())

	h.store.Personnel().Add(model.Personnel{Name: "On Time"})
	require.Equal(t, 1, h.persistence.saves[KeyPersonnel])

	raw, found, err := h.persistence.inner.Get(KeyPersonnel)
	require.NoError(t, err)
	require.True(t, found)

	var persisted []model.Personnel
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Equal(t, "On Time", persisted[len(persisted)-1].Name)
}

func TestFlushWritesEveryCollection(t *testing.T) {
	h := newStoreHarness(t, signedIn(), &fakeRemote{})

	h.store.Flush()
	require.Zero(t, h.persistence.totalSaves(), "flush before ready is a no-op")

	h.store.Bootstrap(context.Background())
	h.store.Flush()

	for _, key := range []string{KeyPersonnel, KeyMaterials, KeyTransactions, KeyLabTests, KeyListings, KeySiteTasks} {
		require.Equal(t, 1, h.persistence.saves[key], key)
	}
}

func TestAddProjectMergesServerEcho(t *testing.T) {
	h := newStoreHarness(t, signedIn(), &fakeRemote{})
	h.store.Bootstrap(context.Background())

	p, err := h.store.AddProject(context.Background(), model.ProjectDraft{Name: "Warehouse"})
	require.NoError(t, err)
	require.Equal(t, "srv-1", p.ID, "the server assigns the id")

	got, ok := h.store.FindProject("srv-1")
	require.True(t, ok)
	require.Equal(t, "Warehouse", got.Name)
	require.Zero(t, h.persistence.saves[KeyPersonnel])
}

func TestProjectLifecycle(t *testing.T) {
	remote := &fakeRemote{projects: []model.Project{{ID: "p1", Name: "Bridge"}}}
	h := newStoreHarness(t, signedIn(), remote)
	h.store.Bootstrap(context.Background())

	binned, err := h.store.BinProject(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, binned.IsDeleted)
	require.Empty(t, h.store.Projects())
	require.Len(t, h.store.BinnedProjects(), 1)

	restored, err := h.store.RestoreProject(context.Background(), "p1")
	require.NoError(t, err)
	require.False(t, restored.IsDeleted)
	require.Len(t, h.store.Projects(), 1)

	require.NoError(t, h.store.PurgeProject(context.Background(), "p1"))
	require.Empty(t, h.store.AllProjects())
}

func TestProjectOpFailureLeavesStateUntouched(t *testing.T) {
	remote := &fakeRemote{projects: []model.Project{{ID: "p1", Name: "Bridge"}}}
	h := newStoreHarness(t, signedIn(), remote)
	h.store.Bootstrap(context.Background())

	remote.err = errors.New("server exploded")
	_, err := h.store.UpdateProject(context.Background(), "p1", model.ProjectPatch{})
	require.Error(t, err)

	got, ok := h.store.FindProject("p1")
	require.True(t, ok)
	require.Equal(t, "Bridge", got.Name)
	require.False(t, h.store.Busy())
}

func TestProjectOpsRequireIdentity(t *testing.T) {
	remote := &fakeRemote{}
	h := newStoreHarness(t, fakeSessions{}, remote)
	h.store.Bootstrap(context.Background())
	h.recorder.Reset()

	_, err := h.store.AddProject(context.Background(), model.ProjectDraft{Name: "Nope"})
	require.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = h.store.BinProject(context.Background(), "p1")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	err = h.store.PurgeProject(context.Background(), "p1")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	for _, n := range h.recorder.All() {
		require.Equal(t, notify.Failure, n.Severity)
	}
	require.Empty(t, h.store.AllProjects())
}

func TestRefreshProjectsReplacesSnapshot(t *testing.T) {
	remote := &fakeRemote{projects: []model.Project{{ID: "p1", Name: "Bridge"}}}
	h := newStoreHarness(t, signedIn(), remote)
	h.store.Bootstrap(context.Background())

	remote.projects = []model.Project{
		{ID: "p1", Name: "Bridge"},
		{ID: "p2", Name: "Tunnel"},
	}
	require.NoError(t, h.store.RefreshProjects(context.Background()))
	require.Len(t, h.store.Projects(), 2)
}

func TestPhaseString(t *testing.T) {
	require.Equal(t, "resolving-session", PhaseResolvingSession.String())
	require.Equal(t, "loading", PhaseLoading.String())
	require.Equal(t, "ready", PhaseReady.String())
}
