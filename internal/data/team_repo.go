package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dockhand/dockhand-ui/internal/data/pgxutil"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	teamInsert = `
		INSERT INTO teams (name, created_at)
		VALUES ($1, $2)
		RETURNING id, name, created_at`

	teamSelectByName = `SELECT id, name, created_at FROM teams WHERE name = $1`

	teamMembershipUpsert = `
		INSERT INTO team_memberships (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO UPDATE SET role = EXCLUDED.role`

	teamIsLeader = `
		SELECT EXISTS(
			SELECT 1 FROM team_memberships WHERE user_id = $1 AND role = 'leader'
		)`

	teamMembershipsByUser = `
		SELECT team_id, user_id, role
		FROM team_memberships
		WHERE user_id = $1
		ORDER BY team_id`
)

// TeamRepo stores teams and the memberships that make a user a team leader.
type TeamRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTeamRepo creates a TeamRepo using the system clock.
func NewTeamRepo(db *sql.DB) *TeamRepo {
	return &TeamRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// CreateTeam inserts a team. Duplicate names return ErrTeamNameExists.
func (r *TeamRepo) CreateTeam(ctx context.Context, name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("team name is required")
	}

	var team model.Team
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, teamInsert, name, r.timeProvider.Now())
		if err != nil {
			return err
		}
		team, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Team])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create team: %w", r.mapWriteErr(err))
	}
	return &team, nil
}

// GetByName returns the team or ErrTeamNotFound.
func (r *TeamRepo) GetByName(ctx context.Context, name string) (*model.Team, error) {
	var team model.Team
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, teamSelectByName, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		team, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Team])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team by name: %w", err)
	}
	return &team, nil
}

// AddMember adds the user to the team, or changes the role of an existing member.
func (r *TeamRepo) AddMember(ctx context.Context, m model.TeamMembership) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validate team membership: %w", err)
	}
	if _, err := r.DB.ExecContext(ctx, teamMembershipUpsert, m.TeamID, m.UserID, string(m.Role)); err != nil {
		return fmt.Errorf("add team member: %w", r.mapWriteErr(err))
	}
	return nil
}

// IsLeader reports whether the user leads at least one team.
func (r *TeamRepo) IsLeader(ctx context.Context, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	var leader bool
	if err := r.DB.QueryRowContext(ctx, teamIsLeader, userID).Scan(&leader); err != nil {
		return false, fmt.Errorf("check team leadership: %w", err)
	}
	return leader, nil
}

// ListByUser returns every membership the user holds.
func (r *TeamRepo) ListByUser(ctx context.Context, userID string) ([]model.TeamMembership, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	var out []model.TeamMembership
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, teamMembershipsByUser, userID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TeamMembership])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list team memberships: %w", err)
	}
	return out, nil
}

func (r *TeamRepo) mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return ErrTeamNameExists
	case pgerrcode.ForeignKeyViolation:
		return ErrTeamNotFound
	default:
		return err
	}
}
