package cart

import (
	"context"
	"encoding/json"
	"testing"

	"feria-storefront/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSnapshotSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewPostgresSnapshotRepo(db)
	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		Items:         []models.CartItem{{ArtworkID: "obra-1", Title: "X", Price: 2_000_000, Quantity: 1}},
	}
	payload, _ := json.Marshal(snap)

	mock.ExpectExec("INSERT INTO cart_snapshots").
		WithArgs("c1", Namespace, SchemaVersion, payload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(context.Background(), "c1", snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSnapshotLoadRoundTrip(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := NewPostgresSnapshotRepo(db)
	stored := Snapshot{
		SchemaVersion: SchemaVersion,
		Items:         []models.CartItem{{ArtworkID: "obra-1", Title: "X", Price: 100, Quantity: 3}},
	}
	payload, _ := json.Marshal(stored)

	rows := sqlmock.NewRows([]string{"schema_version", "payload"}).
		AddRow(SchemaVersion, payload)
	mock.ExpectQuery("SELECT schema_version, payload").
		WithArgs("c1", Namespace).
		WillReturnRows(rows)

	snap, ok, err := repo.Load(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot to be found")
	}
	if len(snap.Items) != 1 || snap.Items[0].Quantity != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSnapshotLoadDiscardsVersionMismatch(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := NewPostgresSnapshotRepo(db)

	rows := sqlmock.NewRows([]string{"schema_version", "payload"}).
		AddRow(SchemaVersion+1, []byte(`{"schema_version":2,"items":[]}`))
	mock.ExpectQuery("SELECT schema_version, payload").
		WithArgs("c1", Namespace).
		WillReturnRows(rows)

	_, ok, err := repo.Load(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Fatalf("snapshot with a different schema version must be discarded, not migrated")
	}
}

func TestSnapshotLoadMissing(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := NewPostgresSnapshotRepo(db)

	mock.ExpectQuery("SELECT schema_version, payload").
		WithArgs("nope", Namespace).
		WillReturnRows(sqlmock.NewRows([]string{"schema_version", "payload"}))

	_, ok, err := repo.Load(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Fatalf("expected missing snapshot")
	}
}
