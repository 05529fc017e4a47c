package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"feria-storefront/models"
)

// SchemaVersion tags persisted snapshots. Payloads stored under a different
// version are discarded on load rather than migrated.
const SchemaVersion = 1

// Namespace under which cart snapshots are stored.
const Namespace = "feria.cart"

// Snapshot is the durable representation of one cart.
type Snapshot struct {
	SchemaVersion int               `json:"schema_version"`
	Items         []models.CartItem `json:"items"`
}

// PostgresSnapshotRepo stores one JSON snapshot row per cart id.
type PostgresSnapshotRepo struct {
	db *sql.DB
}

func NewPostgresSnapshotRepo(db *sql.DB) *PostgresSnapshotRepo {
	return &PostgresSnapshotRepo{db: db}
}

var _ SnapshotRepo = (*PostgresSnapshotRepo)(nil)

func (r *PostgresSnapshotRepo) Save(ctx context.Context, cartID string, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	query := `
		INSERT INTO cart_snapshots (cart_id, namespace, schema_version, payload, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (cart_id)
		DO UPDATE SET schema_version = $3, payload = $4, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, cartID, Namespace, snap.SchemaVersion, payload); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Load returns the persisted snapshot for the cart. A snapshot written under
// a different schema version is treated as absent.
func (r *PostgresSnapshotRepo) Load(ctx context.Context, cartID string) (Snapshot, bool, error) {
	query := `
		SELECT schema_version, payload
		FROM cart_snapshots
		WHERE cart_id = $1 AND namespace = $2
	`
	var version int
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, cartID, Namespace).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	if version != SchemaVersion {
		return Snapshot{}, false, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}
	return snap, true, nil
}

func (r *PostgresSnapshotRepo) Delete(ctx context.Context, cartID string) error {
	query := `DELETE FROM cart_snapshots WHERE cart_id = $1 AND namespace = $2`
	if _, err := r.db.ExecContext(ctx, query, cartID, Namespace); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
