package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"fixmate/internal/mylogger"
	"fixmate/internal/request-service/core/domain/dto"
	"fixmate/internal/request-service/core/domain/model"
	"fixmate/internal/request-service/core/myerrors"
	"fixmate/internal/request-service/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequestsRepo mimics the conditional-write semantics of the Postgres
// repository: every mutation checks the stored status under a lock, the same
// way the real repo's guarded UPDATE does at the storage layer.
type fakeRequestsRepo struct {
	mu   sync.Mutex
	seq  int
	reqs map[string]model.ServiceRequest
	locs map[string]model.MechanicLocation
}

func newFakeRepo() *fakeRequestsRepo {
	return &fakeRequestsRepo{
		reqs: make(map[string]model.ServiceRequest),
		locs: make(map[string]model.MechanicLocation),
	}
}

func (f *fakeRequestsRepo) Create(_ context.Context, m model.ServiceRequest) (model.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	m.ID = fmt.Sprintf("req-%03d", f.seq)
	f.reqs[m.ID] = m
	return m, nil
}

func (f *fakeRequestsRepo) GetByID(_ context.Context, id string) (model.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.reqs[id]
	if !ok {
		return model.ServiceRequest{}, myerrors.ErrNotFound
	}
	return m, nil
}

func (f *fakeRequestsRepo) ListPending(_ context.Context) ([]model.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.ServiceRequest
	for _, m := range f.reqs {
		if m.Status == model.StatusPending {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRequestsRepo) ListByRequester(_ context.Context, requesterID string) ([]model.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.ServiceRequest
	for _, m := range f.reqs {
		if m.RequesterID == requesterID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRequestsRepo) ListByMechanic(_ context.Context, mechanicID string) ([]model.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.ServiceRequest
	for _, m := range f.reqs {
		if m.AssignedMechanic == mechanicID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRequestsRepo) Accept(_ context.Context, id, mechanicID string) (model.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.reqs[id]
	if !ok {
		return model.ServiceRequest{}, myerrors.ErrNotFound
	}
	if !m.Status.CanAccept() {
		return model.ServiceRequest{}, myerrors.ErrConflict
	}
	m.Status = model.StatusAccepted
	m.AssignedMechanic = mechanicID
	f.reqs[id] = m
	return m, nil
}

func (f *fakeRequestsRepo) UpdateStatusIf(_ context.Context, id string, from, to model.Status) (model.ServiceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.reqs[id]
	if !ok {
		return model.ServiceRequest{}, myerrors.ErrNotFound
	}
	if m.Status != from {
		return model.ServiceRequest{}, myerrors.ErrConflict
	}
	m.Status = to
	f.reqs[id] = m
	return m, nil
}

func (f *fakeRequestsRepo) MechanicLocation(_ context.Context, mechanicID string) (model.MechanicLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.locs[mechanicID], nil
}

type fakeImageStore struct {
	url string
	err error
}

func (f *fakeImageStore) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	return f.url, f.err
}

func testLogger() mylogger.Logger {
	return mylogger.NewWithWriter(io.Discard, "test", "test", slog.LevelError)
}

func newTestService(repo ports.IRequestsRepo, store ports.IImageStore) ports.IRequestsService {
	if store == nil {
		store = &fakeImageStore{}
	}
	return NewRequestsService(context.Background(), testLogger(), repo, store)
}

func strp(s string) *string { return &s }

func validCreate() dto.CreateRequestDto {
	return dto.CreateRequestDto{
		VehicleType: strp("car"),
		ServiceType: strp("fuel"),
		Description: strp("ran out of fuel on highway"),
		Destination: strp("27.7,85.3"),
	}
}

func TestCreateRequestRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)

	created, err := svc.CreateRequest(context.Background(), "user-1", validCreate())
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Empty(t, created.AssignedMechanic)
	assert.Equal(t, "user-1", created.Requester)
	assert.Equal(t, "car", created.VehicleType)
	assert.Equal(t, "fuel", created.ServiceType)
	assert.Equal(t, "ran out of fuel on highway", created.Description)
	assert.Equal(t, "27.7,85.3", created.Destination)

	list, err := svc.ListForRole(context.Background(), "user-1", model.RoleUser)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "pending", list[0].Status)
}

func TestCreateRequestValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	cases := []struct {
		name   string
		mutate func(*dto.CreateRequestDto)
	}{
		{"missing vehicle type", func(r *dto.CreateRequestDto) { r.VehicleType = nil }},
		{"unknown vehicle type", func(r *dto.CreateRequestDto) { r.VehicleType = strp("truck") }},
		{"missing service type", func(r *dto.CreateRequestDto) { r.ServiceType = nil }},
		{"unknown service type", func(r *dto.CreateRequestDto) { r.ServiceType = strp("towing") }},
		{"missing description", func(r *dto.CreateRequestDto) { r.Description = nil }},
		{"blank description", func(r *dto.CreateRequestDto) { r.Description = strp("   ") }},
		{"missing destination", func(r *dto.CreateRequestDto) { r.Destination = nil }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validCreate()
			c.mutate(&req)

			_, err := svc.CreateRequest(context.Background(), "user-1", req)
			assert.ErrorIs(t, err, myerrors.ErrValidation)
		})
	}
}

func TestCreateRequestImageUploadFailureSurfaces(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeImageStore{err: errors.New("bucket unreachable")})

	req := validCreate()
	req.Image = strp("aGVsbG8=")

	_, err := svc.CreateRequest(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, myerrors.ErrCollaborator)
}

func TestCreateRequestStoresImageURL(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeImageStore{url: "https://img.example/abc.jpg"})

	req := validCreate()
	req.Image = strp("aGVsbG8=")

	created, err := svc.CreateRequest(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/abc.jpg", created.ImageURL)
}

func TestMechanicSeesOnlyPendingQueue(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	a, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)
	b, err := svc.CreateRequest(ctx, "user-2", validCreate())
	require.NoError(t, err)

	_, err = svc.Accept(ctx, a.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)

	list, err := svc.ListForRole(ctx, "mech-2", model.RoleMechanic)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, "pending", list[0].Status)
}

func TestUserSeesOwnRequestsOnly(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	mine, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)
	_, err = svc.CreateRequest(ctx, "user-2", validCreate())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, mine.ID, "user-1", model.RoleUser)
	require.NoError(t, err)

	list, err := svc.ListForRole(ctx, "user-1", model.RoleUser)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)
	assert.Equal(t, "cancelled", list[0].Status)
}

func TestAcceptRequiresMechanicRole(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)

	_, err = svc.Accept(ctx, created.ID, "user-1", model.RoleUser)
	assert.ErrorIs(t, err, myerrors.ErrForbidden)
}

func TestAcceptUnknownRequest(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.Accept(context.Background(), "req-404", "mech-1", model.RoleMechanic)
	assert.ErrorIs(t, err, myerrors.ErrNotFound)
}

func TestAcceptIncludesMechanicLocation(t *testing.T) {
	repo := newFakeRepo()
	repo.locs["mech-1"] = model.MechanicLocation{Latitude: 27.7, Longitude: 85.3, Known: true}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)

	res, err := svc.Accept(ctx, created.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)
	require.NotNil(t, res.MechanicLocation)
	assert.Equal(t, 27.7, res.MechanicLocation.Latitude)
	assert.Equal(t, 85.3, res.MechanicLocation.Longitude)
}

func TestConcurrentAcceptHasExactlyOneWinner(t *testing.T) {
	const mechanics = 16

	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []string
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < mechanics; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start

			mechID := fmt.Sprintf("mech-%02d", n)
			_, err := svc.Accept(ctx, created.ID, mechID, model.RoleMechanic)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, mechID)
			case errors.Is(err, myerrors.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	require.Len(t, winners, 1, "exactly one mechanic must win the claim")
	assert.Equal(t, mechanics-1, conflicts)

	final, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, final.Status)
	assert.Equal(t, winners[0], final.AssignedMechanic)
}

func TestCancelRules(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	t.Run("requester cancels pending", func(t *testing.T) {
		created, err := svc.CreateRequest(ctx, "user-1", validCreate())
		require.NoError(t, err)

		res, err := svc.Cancel(ctx, created.ID, "user-1", model.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", res.Request.Status)
	})

	t.Run("requester cancels accepted", func(t *testing.T) {
		created, err := svc.CreateRequest(ctx, "user-1", validCreate())
		require.NoError(t, err)
		_, err = svc.Accept(ctx, created.ID, "mech-1", model.RoleMechanic)
		require.NoError(t, err)

		res, err := svc.Cancel(ctx, created.ID, "user-1", model.RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", res.Request.Status)
		// AssignedMechanic stays set on cancellation after acceptance.
		assert.Equal(t, "mech-1", res.Request.AssignedMechanic)
	})

	t.Run("non-requester cannot cancel", func(t *testing.T) {
		created, err := svc.CreateRequest(ctx, "user-1", validCreate())
		require.NoError(t, err)
		_, err = svc.Accept(ctx, created.ID, "mech-1", model.RoleMechanic)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, created.ID, "mech-1", model.RoleMechanic)
		assert.ErrorIs(t, err, myerrors.ErrForbidden)
	})

	t.Run("terminal and half-completed states reject cancel", func(t *testing.T) {
		created, err := svc.CreateRequest(ctx, "user-1", validCreate())
		require.NoError(t, err)
		_, err = svc.Accept(ctx, created.ID, "mech-1", model.RoleMechanic)
		require.NoError(t, err)
		_, err = svc.MarkComplete(ctx, created.ID, "user-1", model.RoleUser)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, created.ID, "user-1", model.RoleUser)
		assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)

		_, err = svc.MarkComplete(ctx, created.ID, "mech-1", model.RoleMechanic)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, created.ID, "user-1", model.RoleUser)
		assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
	})
}

// Full walkthrough: create, claim, losing claim, both completion halves,
// then nothing else moves.
func TestLifecycleScenario(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	accepted, err := svc.Accept(ctx, created.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)
	assert.Equal(t, "accepted", accepted.Request.Status)
	assert.Equal(t, "mech-1", accepted.Request.AssignedMechanic)

	_, err = svc.Accept(ctx, created.ID, "mech-2", model.RoleMechanic)
	assert.ErrorIs(t, err, myerrors.ErrConflict)

	unchanged, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mech-1", unchanged.AssignedMechanic)

	res, err := svc.MarkComplete(ctx, created.ID, "user-1", model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "userCompleted", res.Request.Status)

	res, err = svc.MarkComplete(ctx, created.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Request.Status)

	_, err = svc.MarkComplete(ctx, created.ID, "user-1", model.RoleUser)
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)

	_, err = svc.Cancel(ctx, created.ID, "user-1", model.RoleUser)
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
}

func TestMarkCompleteAuthorization(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)
	_, err = svc.Accept(ctx, created.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)

	_, err = svc.MarkComplete(ctx, created.ID, "mech-2", model.RoleMechanic)
	assert.ErrorIs(t, err, myerrors.ErrForbidden)

	_, err = svc.MarkComplete(ctx, created.ID, "user-2", model.RoleUser)
	assert.ErrorIs(t, err, myerrors.ErrForbidden)
}

func TestMarkCompleteBeforeAccept(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)

	_, err = svc.MarkComplete(ctx, created.ID, "user-1", model.RoleUser)
	assert.ErrorIs(t, err, myerrors.ErrInvalidTransition)
}

func TestDestinationVisibility(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)

	// Pending: requester and any mechanic may read, other users may not.
	loc, err := svc.Destination(ctx, created.ID, "user-1", model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "27.7,85.3", loc.Destination)

	_, err = svc.Destination(ctx, created.ID, "mech-9", model.RoleMechanic)
	require.NoError(t, err)

	_, err = svc.Destination(ctx, created.ID, "user-2", model.RoleUser)
	assert.ErrorIs(t, err, myerrors.ErrForbidden)

	// Accepted: only the parties.
	_, err = svc.Accept(ctx, created.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)

	_, err = svc.Destination(ctx, created.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)

	_, err = svc.Destination(ctx, created.ID, "mech-9", model.RoleMechanic)
	assert.ErrorIs(t, err, myerrors.ErrForbidden)
}

func TestListAssignedIsPersonalQueue(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	ctx := context.Background()

	first, err := svc.CreateRequest(ctx, "user-1", validCreate())
	require.NoError(t, err)
	second, err := svc.CreateRequest(ctx, "user-2", validCreate())
	require.NoError(t, err)

	_, err = svc.Accept(ctx, first.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, second.ID, "mech-2", model.RoleMechanic)
	require.NoError(t, err)

	// Completed work stays visible in the personal queue.
	_, err = svc.MarkComplete(ctx, first.ID, "mech-1", model.RoleMechanic)
	require.NoError(t, err)

	list, err := svc.ListAssigned(ctx, "mech-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "mechanicCompleted", list[0].Status)
}
