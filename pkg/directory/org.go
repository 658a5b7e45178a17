package directory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/metriclab/platformkit/pkg/entitystore"
	"github.com/metriclab/platformkit/pkg/storekey"
)

const attrName = "name"

// Org is an organization, the top-level tenant grouping.
type Org struct {
	ID     string
	Name   string
	Active bool
}

// CreateOrgInput carries the attributes for a new organization.
type CreateOrgInput struct {
	Name string
}

// OrgRepository provides CRUD access to organization rows. Organizations
// reuse the user key-encoding pattern but carry no secondary projections.
type OrgRepository struct {
	store  entitystore.Store
	logger *slog.Logger
}

// OrgOption configures an OrgRepository during construction.
type OrgOption func(*OrgRepository)

// WithOrgLogger configures the logger for the repository.
func WithOrgLogger(logger *slog.Logger) OrgOption {
	return func(r *OrgRepository) {
		r.logger = logger
	}
}

// NewOrgRepository creates a repository on top of the given store.
func NewOrgRepository(store entitystore.Store, opts ...OrgOption) *OrgRepository {
	r := &OrgRepository{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new organization. New organizations start active.
func (r *OrgRepository) Create(ctx context.Context, in CreateOrgInput) (*Org, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	org := &Org{ID: id, Name: in.Name, Active: true}

	if err := r.store.Put(ctx, entitystore.Row{
		Key: storekey.Org(org.ID),
		Attrs: entitystore.Record{
			attrName:     org.Name,
			attrIsActive: org.Active,
		},
	}); err != nil {
		return nil, fmt.Errorf("directory: failed to store org: %w", err)
	}

	r.logger.InfoContext(ctx, "org created", slog.String("org_id", org.ID))
	return org, nil
}

// GetByID fetches an organization by id.
func (r *OrgRepository) GetByID(ctx context.Context, id string) (*Org, error) {
	row, err := r.store.Get(ctx, storekey.Org(id))
	if err != nil {
		return nil, err
	}
	return decodeOrg(row)
}

// Delete removes an organization. Dependent entities are not cascaded.
func (r *OrgRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storekey.Org(id))
}

func decodeOrg(row entitystore.Row) (*Org, error) {
	if row.Key.Kind() != storekey.KindOrg {
		return nil, fmt.Errorf("%w: expected org key, got %q", entitystore.ErrCorruptRecord, row.Key.Kind())
	}

	name, ok := row.Attrs.String(attrName)
	if !ok {
		return nil, corruptAttr(row, attrName)
	}
	active, ok := row.Attrs.Bool(attrIsActive)
	if !ok {
		return nil, corruptAttr(row, attrIsActive)
	}

	return &Org{ID: row.Key.ID(), Name: name, Active: active}, nil
}
