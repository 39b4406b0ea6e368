package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ornik8/incident-sync/internal/core/ports"
)

// Stale writes are filtered by the WHERE clause of the conflict branch, so a
// device replaying an older copy leaves the newer row untouched.
const (
	upsertIncidentSQL = `
INSERT INTO accidents (id, ornik_number, status, state, locality, location_description, latitude, longitude, data_json, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10)
ON CONFLICT (id) DO UPDATE SET
	ornik_number = EXCLUDED.ornik_number,
	status = EXCLUDED.status,
	state = EXCLUDED.state,
	locality = EXCLUDED.locality,
	location_description = EXCLUDED.location_description,
	latitude = EXCLUDED.latitude,
	longitude = EXCLUDED.longitude,
	data_json = EXCLUDED.data_json,
	updated_at = EXCLUDED.updated_at
WHERE accidents.updated_at <= EXCLUDED.updated_at`

	upsertAccountSQL = `
INSERT INTO profiles (id, full_name, username, role, state, locality, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	username = EXCLUDED.username,
	role = EXCLUDED.role,
	state = EXCLUDED.state,
	locality = EXCLUDED.locality,
	is_active = EXCLUDED.is_active,
	updated_at = EXCLUDED.updated_at
WHERE profiles.updated_at <= EXCLUDED.updated_at`

	deleteAccountSQL = `DELETE FROM profiles WHERE id = $1`

	probeSQL = `SELECT id FROM accidents LIMIT 1`
)

// Mirror is the Postgres implementation of ports.RemoteStore.
type Mirror struct {
	pool *pgxpool.Pool
}

func NewMirror(pool *pgxpool.Pool) *Mirror {
	return &Mirror{pool: pool}
}

func (m *Mirror) UpsertIncident(ctx context.Context, row ports.IncidentRow) error {
	_, err := m.pool.Exec(ctx, upsertIncidentSQL,
		row.ID,
		row.SequenceNumber,
		row.Status,
		row.State,
		row.Locality,
		row.LocationDescription,
		row.Latitude,
		row.Longitude,
		string(row.Data),
		row.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert accident %s: %w", row.ID, err)
	}
	return nil
}

func (m *Mirror) UpsertAccount(ctx context.Context, row ports.AccountRow) error {
	_, err := m.pool.Exec(ctx, upsertAccountSQL,
		row.ID,
		row.FullName,
		row.Username,
		row.Role,
		row.State,
		row.Locality,
		row.IsActive,
		row.CreatedAt.UTC(),
		row.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", row.ID, err)
	}
	return nil
}

func (m *Mirror) DeleteAccount(ctx context.Context, id string) error {
	if _, err := m.pool.Exec(ctx, deleteAccountSQL, id); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	return nil
}

// Probe runs a one-row select against the incident table; a missing table or
// rejected credential surfaces here.
func (m *Mirror) Probe(ctx context.Context) error {
	rows, err := m.pool.Query(ctx, probeSQL)
	if err != nil {
		return fmt.Errorf("probe accidents: %w", err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("probe accidents: %w", err)
	}
	return nil
}

func (m *Mirror) Close(context.Context) error {
	m.pool.Close()
	return nil
}
