package memstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"expenseflow/internal/models"
)

// SnapshotVersion is the schema version written into every snapshot.
const SnapshotVersion = 1

// ErrUnsupportedVersion is returned when a snapshot was written by an
// incompatible schema version.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot is the persisted form of the whole store.
type Snapshot struct {
	Version   int                   `json:"version"`
	SavedAt   time.Time             `json:"saved_at"`
	Companies []models.Company      `json:"companies"`
	Users     []userRecord          `json:"users"`
	Expenses  []models.Expense      `json:"expenses"`
	Rules     []models.ApprovalRule `json:"rules"`
	Audit     []models.AuditLog     `json:"audit"`
}

// userRecord keeps the password hash, which models.User hides from JSON.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

// Persister loads and saves snapshots.
type Persister interface {
	// Load returns nil, nil when no snapshot has been written yet.
	Load() (*Snapshot, error)
	Save(snapshot *Snapshot) error
}

// FilePersister stores the snapshot as a JSON document on disk.
type FilePersister struct {
	Path string
}

// NewFilePersister returns a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

// Load reads and decodes the snapshot file.
func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	return &snap, nil
}

// Save writes the snapshot to a temporary file and renames it into place,
// so a crash mid-write never leaves a truncated snapshot behind.
func (p *FilePersister) Save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(p.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(p.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (d dataset) snapshot(now time.Time) *Snapshot {
	users := make([]userRecord, 0, len(d.users))
	for _, u := range d.users {
		users = append(users, userRecord{User: u, PasswordHash: u.Password})
	}
	return &Snapshot{
		Version:   SnapshotVersion,
		SavedAt:   now.UTC(),
		Companies: d.companies,
		Users:     users,
		Expenses:  d.expenses,
		Rules:     d.rules,
		Audit:     d.audit,
	}
}

func datasetFromSnapshot(snap *Snapshot) dataset {
	users := make([]models.User, 0, len(snap.Users))
	for _, rec := range snap.Users {
		u := rec.User
		u.Password = rec.PasswordHash
		users = append(users, u)
	}
	return dataset{
		companies: snap.Companies,
		users:     users,
		expenses:  snap.Expenses,
		rules:     snap.Rules,
		audit:     snap.Audit,
	}
}
