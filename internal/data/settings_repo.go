package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dockhand/dockhand-ui/internal/data/pgxutil"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

const (
	settingsSelectAll = `SELECT key, value, updated_at FROM settings`

	settingUpsert = `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

type settingRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SettingsRepo stores platform settings as key/value rows.
type SettingsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewSettingsRepo creates a SettingsRepo using the system clock.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{
		DB:           db,
		timeProvider: RealTimeProvider{},
		logger:       slog.Default().With("component", "settings_repo"),
	}
}

// GetPublic assembles the public settings document from the stored rows.
// Missing keys keep their zero values.
func (r *SettingsRepo) GetPublic(ctx context.Context) (*model.PublicSettings, error) {
	var rows []settingRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		res, err := conn.Query(ctx, settingsSelectAll)
		if err != nil {
			return err
		}
		rows, err = pgx.CollectRows(res, pgx.RowToStructByName[settingRow])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	out := &model.PublicSettings{}
	for _, row := range rows {
		if row.UpdatedAt.After(out.UpdatedAt) {
			out.UpdatedAt = row.UpdatedAt
		}
		switch row.Key {
		case model.SettingTeamSync:
			out.TeamSync = r.parseBool(row)
		case model.SettingEnableTelemetry:
			out.EnableTelemetry = r.parseBool(row)
		case model.SettingEnableEdgeComputeFeatures:
			out.EnableEdgeComputeFeatures = r.parseBool(row)
		case model.SettingAuthenticationMethod:
			out.AuthenticationMethod = row.Value
		case model.SettingLogoURL:
			out.LogoURL = row.Value
		}
	}
	return out, nil
}

// Set upserts a single setting.
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

// SetBool upserts a boolean setting.
func (r *SettingsRepo) SetBool(ctx context.Context, key string, value bool) error {
	return r.Set(ctx, key, strconv.FormatBool(value))
}

// SetMany upserts several settings in one transaction.
func (r *SettingsRepo) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	for key := range values {
		if strings.TrimSpace(key) == "" {
			return ErrSettingKeyRequired
		}
	}
	now := r.timeProvider.Now()
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range values {
			batch.Queue(settingUpsert, key, value, now)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *SettingsRepo) parseBool(row settingRow) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(row.Value))
	if err != nil {
		r.logger.Warn("ignoring malformed boolean setting", "key", row.Key, "value", row.Value)
		return false
	}
	return v
}
