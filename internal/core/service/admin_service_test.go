package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
	"github.com/marudhara-crafts/catalog-sync/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubRemoteAdmin struct {
	createErr   error
	updateErr   error
	deleteErr   error
	createCalls int
	updateCalls int
	deleteCalls int
	lastUpdate  ports.UpdateProductInput
}

func (r *stubRemoteAdmin) CreateProduct(_ context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &domain.Product{ID: 42, Name: input.Name, Price: *input.Price}, nil
}

func (r *stubRemoteAdmin) UpdateProduct(_ context.Context, id int64, input ports.UpdateProductInput) (*domain.Product, error) {
	r.updateCalls++
	r.lastUpdate = input
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return &domain.Product{ID: id, Name: input.Name, Price: *input.Price}, nil
}

func (r *stubRemoteAdmin) DeleteProduct(_ context.Context, _ int64) error {
	r.deleteCalls++
	return r.deleteErr
}

type stubRepo struct {
	refreshCalls int
	refreshErr   error
}

func (r *stubRepo) Refresh(_ context.Context) ([]domain.Product, error) {
	r.refreshCalls++
	return nil, r.refreshErr
}

func (r *stubRepo) Snapshot() []domain.Product { return nil }

func (r *stubRepo) Catalog() []domain.CatalogItem { return nil }

type stubGate struct {
	authenticated bool
	invalidations int
}

func (g *stubGate) Login(_ context.Context, _ string) error { g.authenticated = true; return nil }

func (g *stubGate) Logout(_ context.Context) error { g.authenticated = false; return nil }

func (g *stubGate) Authenticated() bool { return g.authenticated }

func (g *stubGate) Invalidate() { g.authenticated = false; g.invalidations++ }

func float(v float64) *float64 { return &v }

func validCreateInput() ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:  "Sheesham box",
		Price: float(1200),
		Image: &ports.ImageUpload{Filename: "box.jpg", Content: []byte("jpeg")},
	}
}

func newAdminFixture(remote *stubRemoteAdmin, gate *stubGate) (*AdminService, *stubRepo) {
	repo := &stubRepo{}
	return NewAdminService(remote, repo, gate, zerolog.Nop()), repo
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAdminService_CreateRequiresAuthentication(t *testing.T) {
	remote := &stubRemoteAdmin{}
	svc, repo := newAdminFixture(remote, &stubGate{authenticated: false})

	_, err := svc.Create(context.Background(), validCreateInput())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if remote.createCalls != 0 {
		t.Fatalf("unauthenticated create must not reach the remote")
	}
	if repo.refreshCalls != 0 {
		t.Fatalf("failed create must not resynchronize")
	}
}

func TestAdminService_CreateValidation(t *testing.T) {
	remote := &stubRemoteAdmin{}
	svc, _ := newAdminFixture(remote, &stubGate{authenticated: true})

	cases := map[string]ports.CreateProductInput{
		"missing name": {
			Price: float(100),
			Image: &ports.ImageUpload{Filename: "a.jpg", Content: []byte("x")},
		},
		"missing price": {
			Name:  "Box",
			Image: &ports.ImageUpload{Filename: "a.jpg", Content: []byte("x")},
		},
		"missing image": {
			Name:  "Box",
			Price: float(100),
		},
		"negative price": {
			Name:  "Box",
			Price: float(-1),
			Image: &ports.ImageUpload{Filename: "a.jpg", Content: []byte("x")},
		},
	}
	for name, input := range cases {
		if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
	if remote.createCalls != 0 {
		t.Fatalf("validation failures must be caught before any remote call")
	}
}

func TestAdminService_CreateZeroPriceIsValid(t *testing.T) {
	remote := &stubRemoteAdmin{}
	svc, _ := newAdminFixture(remote, &stubGate{authenticated: true})

	input := validCreateInput()
	input.Price = float(0)
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("zero price is legitimate, got %v", err)
	}
}

func TestAdminService_CreateSuccessResynchronizes(t *testing.T) {
	remote := &stubRemoteAdmin{}
	svc, repo := newAdminFixture(remote, &stubGate{authenticated: true})

	created, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 42 {
		t.Fatalf("expected the remote-assigned record, got %+v", created)
	}
	if repo.refreshCalls != 1 {
		t.Fatalf("expected one resynchronization, got %d", repo.refreshCalls)
	}
}

func TestAdminService_CreateRemoteFailureSkipsResync(t *testing.T) {
	remote := &stubRemoteAdmin{createErr: fmt.Errorf("%w: status 500", domain.ErrServer)}
	svc, repo := newAdminFixture(remote, &stubGate{authenticated: true})

	_, err := svc.Create(context.Background(), validCreateInput())
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if repo.refreshCalls != 0 {
		t.Fatalf("failed mutation must not resynchronize")
	}
}

func TestAdminService_UnauthorizedResponseInvalidatesSession(t *testing.T) {
	remote := &stubRemoteAdmin{createErr: fmt.Errorf("%w: status 401", domain.ErrUnauthorized)}
	gate := &stubGate{authenticated: true}
	svc, _ := newAdminFixture(remote, gate)

	_, err := svc.Create(context.Background(), validCreateInput())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if gate.authenticated {
		t.Fatalf("a 401 must drop the local session")
	}
	if gate.invalidations != 1 {
		t.Fatalf("expected one invalidation, got %d", gate.invalidations)
	}
}

func TestAdminService_ResyncFailureDoesNotRetractSuccess(t *testing.T) {
	remote := &stubRemoteAdmin{}
	gate := &stubGate{authenticated: true}
	repo := &stubRepo{refreshErr: fmt.Errorf("%w: timeout", domain.ErrNetwork)}
	svc := NewAdminService(remote, repo, gate, zerolog.Nop())

	if _, err := svc.Create(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("resync failure must not retract the mutation's success: %v", err)
	}
	if repo.refreshCalls != 1 {
		t.Fatalf("resync must still have been attempted")
	}
}

func TestAdminService_UpdateWithoutImageIsValid(t *testing.T) {
	remote := &stubRemoteAdmin{}
	svc, repo := newAdminFixture(remote, &stubGate{authenticated: true})

	input := ports.UpdateProductInput{Name: "Renamed", Price: float(5)}
	if _, err := svc.Update(context.Background(), 7, input); err != nil {
		t.Fatalf("update without image must pass validation: %v", err)
	}
	if remote.lastUpdate.Image != nil {
		t.Fatalf("nil image must stay nil on the wire (retain semantics)")
	}
	if repo.refreshCalls != 1 {
		t.Fatalf("expected one resynchronization, got %d", repo.refreshCalls)
	}
}

func TestAdminService_DeleteRequiresAuthentication(t *testing.T) {
	remote := &stubRemoteAdmin{}
	svc, _ := newAdminFixture(remote, &stubGate{authenticated: false})

	if err := svc.Delete(context.Background(), 3); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if remote.deleteCalls != 0 {
		t.Fatalf("unauthenticated delete must not reach the remote")
	}
}

func TestAdminService_DeleteSuccessResynchronizes(t *testing.T) {
	remote := &stubRemoteAdmin{}
	svc, repo := newAdminFixture(remote, &stubGate{authenticated: true})

	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if repo.refreshCalls != 1 {
		t.Fatalf("expected one resynchronization, got %d", repo.refreshCalls)
	}
}

func TestStatusMessage(t *testing.T) {
	authErr := fmt.Errorf("%w: status 401", domain.ErrUnauthorized)
	serverErr := fmt.Errorf("%w: status 500", domain.ErrServer)

	cases := []struct {
		op   Operation
		err  error
		want string
	}{
		{OpCreate, nil, "Product added."},
		{OpUpdate, nil, "Product updated."},
		{OpDelete, nil, "Product deleted."},
		{OpCreate, authErr, "Please login first."},
		{OpDelete, authErr, "Please login first."},
		{OpCreate, serverErr, "Failed to add product."},
		{OpUpdate, serverErr, "Failed to update product."},
		{OpDelete, serverErr, "Failed to delete product."},
	}
	for _, tc := range cases {
		if got := StatusMessage(tc.op, tc.err); got != tc.want {
			t.Fatalf("StatusMessage(%s, %v) = %q, want %q", tc.op, tc.err, got, tc.want)
		}
	}
}
