package directory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/metriclab/platformkit/pkg/entitystore"
	"github.com/metriclab/platformkit/pkg/storekey"
)

// Team is a working group within the platform.
type Team struct {
	ID     string
	Name   string
	Active bool
}

// CreateTeamInput carries the attributes for a new team.
type CreateTeamInput struct {
	Name string
}

// TeamRepository provides CRUD access to team rows.
type TeamRepository struct {
	store  entitystore.Store
	logger *slog.Logger
}

// TeamOption configures a TeamRepository during construction.
type TeamOption func(*TeamRepository)

// WithTeamLogger configures the logger for the repository.
func WithTeamLogger(logger *slog.Logger) TeamOption {
	return func(r *TeamRepository) {
		r.logger = logger
	}
}

// NewTeamRepository creates a repository on top of the given store.
func NewTeamRepository(store entitystore.Store, opts ...TeamOption) *TeamRepository {
	r := &TeamRepository{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new team. New teams start active.
func (r *TeamRepository) Create(ctx context.Context, in CreateTeamInput) (*Team, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	team := &Team{ID: id, Name: in.Name, Active: true}

	if err := r.store.Put(ctx, entitystore.Row{
		Key: storekey.Team(team.ID),
		Attrs: entitystore.Record{
			attrName:     team.Name,
			attrIsActive: team.Active,
		},
	}); err != nil {
		return nil, fmt.Errorf("directory: failed to store team: %w", err)
	}

	r.logger.InfoContext(ctx, "team created", slog.String("team_id", team.ID))
	return team, nil
}

// GetByID fetches a team by id.
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*Team, error) {
	row, err := r.store.Get(ctx, storekey.Team(id))
	if err != nil {
		return nil, err
	}
	return decodeTeam(row)
}

// Delete removes a team. Dependent entities are not cascaded.
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storekey.Team(id))
}

func decodeTeam(row entitystore.Row) (*Team, error) {
	if row.Key.Kind() != storekey.KindTeam {
		return nil, fmt.Errorf("%w: expected team key, got %q", entitystore.ErrCorruptRecord, row.Key.Kind())
	}

	name, ok := row.Attrs.String(attrName)
	if !ok {
		return nil, corruptAttr(row, attrName)
	}
	active, ok := row.Attrs.Bool(attrIsActive)
	if !ok {
		return nil, corruptAttr(row, attrIsActive)
	}

	return &Team{ID: row.Key.ID(), Name: name, Active: active}, nil
}
