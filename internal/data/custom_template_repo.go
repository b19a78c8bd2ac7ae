package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dockhand/dockhand-ui/internal/data/database"
	"github.com/dockhand/dockhand-ui/internal/data/pgxutil"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

const customTemplatesTable = "custom_templates"

const (
	customTemplateSelectByID = `
		SELECT id, title, description, note, logo, type, created_by_user_id, created_at, updated_at
		FROM custom_templates
		WHERE id = $1`

	customTemplateInsert = `
		INSERT INTO custom_templates (title, description, note, logo, type, created_by_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, title, description, note, logo, type, created_by_user_id, created_at, updated_at`

	customTemplateUpdate = `
		UPDATE custom_templates
		SET title = $2, description = $3, note = $4, logo = $5, type = $6, updated_at = $7
		WHERE id = $1
		RETURNING id, title, description, note, logo, type, created_by_user_id, created_at, updated_at`

	customTemplateDelete = `DELETE FROM custom_templates WHERE id = $1`
)

// CustomTemplateRepo persists custom templates and their ownership record.
type CustomTemplateRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCustomTemplateRepo creates a CustomTemplateRepo using the system clock.
func NewCustomTemplateRepo(db *sql.DB) *CustomTemplateRepo {
	return &CustomTemplateRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewCustomTemplateRepoWithTimeProvider creates a CustomTemplateRepo with an injected clock.
func NewCustomTemplateRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CustomTemplateRepo {
	return &CustomTemplateRepo{DB: db, timeProvider: tp}
}

// Create inserts a template owned by ownerID.
func (r *CustomTemplateRepo) Create(
	ctx context.Context,
	ownerID string,
	req *model.CreateCustomTemplateRequest,
) (*model.CustomTemplate, error) {
	if req == nil {
		return nil, errors.New("create custom template: nil request")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate create custom template: %w", err)
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrUserIDRequired
	}

	now := r.timeProvider.Now()
	var tmpl model.CustomTemplate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, customTemplateInsert,
			req.Title, req.Description, req.Note, req.Logo, int(req.Type), ownerID, now)
		if err != nil {
			return err
		}
		tmpl, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CustomTemplate])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create custom template: %w", err)
	}
	return &tmpl, nil
}

// GetByID returns the template or ErrCustomTemplateNotFound.
func (r *CustomTemplateRepo) GetByID(ctx context.Context, id int64) (*model.CustomTemplate, error) {
	var tmpl model.CustomTemplate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, customTemplateSelectByID, id)
		if err != nil {
			return err
		}
		tmpl, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CustomTemplate])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomTemplateNotFound
		}
		return nil, fmt.Errorf("get custom template: %w", err)
	}
	return &tmpl, nil
}

// List returns templates matching opts.
func (r *CustomTemplateRepo) List(
	ctx context.Context,
	opts model.CustomTemplatesListOptions,
) ([]*model.CustomTemplate, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)
	q, args := database.BuildListQuery(buildCustomTemplateQueryOptions(opts,
		database.WithColumns(customTemplateColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var out []*model.CustomTemplate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.CustomTemplate])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list custom templates: %w", err)
	}
	return out, nil
}

// Count returns the number of templates matching the filters in opts; paging is ignored.
func (r *CustomTemplateRepo) Count(ctx context.Context, opts model.CustomTemplatesListOptions) (int, error) {
	q, args := database.BuildListQuery(buildCustomTemplateQueryOptions(opts, database.WithCountOnly()))
	var n int
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count custom templates: %w", err)
	}
	return n, nil
}

// Update replaces the editable fields of a template. Missing rows yield ErrCustomTemplateNotFound.
func (r *CustomTemplateRepo) Update(
	ctx context.Context,
	id int64,
	req *model.UpdateCustomTemplateRequest,
) (*model.CustomTemplate, error) {
	if req == nil {
		return nil, errors.New("update custom template: nil request")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate update custom template: %w", err)
	}

	var tmpl model.CustomTemplate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, customTemplateUpdate,
			id, req.Title, req.Description, req.Note, req.Logo, int(req.Type), r.timeProvider.Now())
		if err != nil {
			return err
		}
		tmpl, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.CustomTemplate])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomTemplateNotFound
		}
		return nil, fmt.Errorf("update custom template: %w", err)
	}
	return &tmpl, nil
}

// Delete removes the template and reports whether a row existed.
func (r *CustomTemplateRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, customTemplateDelete, id)
	if err != nil {
		return false, fmt.Errorf("delete custom template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete custom template rows affected: %w", err)
	}
	return n > 0, nil
}

func customTemplateColumns() []string {
	return []string{
		"id",
		"title",
		"description",
		"note",
		"logo",
		"type",
		"created_by_user_id",
		"created_at",
		"updated_at",
	}
}

func buildCustomTemplateQueryOptions(
	opts model.CustomTemplatesListOptions,
	extra ...database.ListQueryOption,
) *database.ListQueryOptions {
	queryOpts := append([]database.ListQueryOption{}, extra...)

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Type != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("type", database.Equal, int(*opts.Type)),
		))
	}

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir)
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions(customTemplatesTable, queryOpts...)
}

// validateSortOptions validates and returns safe sort column and direction.
func validateSortOptions(sort, dir string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	allowedSorts := map[string]string{
		"title":      "title",
		"created_at": "created_at",
	}
	if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
		sortCol = validSort
	}
	allowedDirs := map[string]string{
		"asc":  sortDirAsc,
		"desc": sortDirDesc,
	}
	if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
		sortDir = validDir
	}
	return sortCol, sortDir
}
