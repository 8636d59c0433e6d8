package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ayusman/handtrace/internal/finger"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Gesture represents a named gesture recording stored in the database.
// Frames holds the JSON-encoded finger.Hand sequence; the in-memory
// recognizer (internal/gesture) is the only place that actually runs DTW
// over it, this is just the relational copy the HTTP API reads and writes.
type Gesture struct {
	ID        string
	Name      string
	Frames    []finger.Hand
	Samples   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GestureRepository provides CRUD operations for gestures.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

// Create inserts a new gesture into the database.
func (r *GestureRepository) Create(g *Gesture) error {
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	framesJSON, err := json.Marshal(g.Frames)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO gestures (id, name, frames, samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, string(framesJSON), g.Samples, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

// GetByID retrieves a gesture by its ID.
func (r *GestureRepository) GetByID(id string) (*Gesture, error) {
	return r.scanRow(r.db.QueryRow(
		`SELECT id, name, frames, samples, created_at, updated_at
		 FROM gestures WHERE id = ?`, id,
	))
}

// GetByName retrieves a gesture by its name.
func (r *GestureRepository) GetByName(name string) (*Gesture, error) {
	return r.scanRow(r.db.QueryRow(
		`SELECT id, name, frames, samples, created_at, updated_at
		 FROM gestures WHERE name = ?`, name,
	))
}

func (r *GestureRepository) scanRow(row *sql.Row) (*Gesture, error) {
	g := &Gesture{}
	var framesJSON string

	err := row.Scan(&g.ID, &g.Name, &framesJSON, &g.Samples, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(framesJSON), &g.Frames); err != nil {
		return nil, err
	}
	return g, nil
}

// List retrieves all gestures from the database.
func (r *GestureRepository) List() ([]*Gesture, error) {
	rows, err := r.db.Query(
		`SELECT id, name, frames, samples, created_at, updated_at
		 FROM gestures ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gestures []*Gesture
	for rows.Next() {
		g := &Gesture{}
		var framesJSON string

		if err := rows.Scan(&g.ID, &g.Name, &framesJSON, &g.Samples, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(framesJSON), &g.Frames); err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gestures, nil
}

// Update updates an existing gesture in the database.
func (r *GestureRepository) Update(g *Gesture) error {
	g.UpdatedAt = time.Now()

	framesJSON, err := json.Marshal(g.Frames)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, frames = ?, samples = ?, updated_at = ?
		 WHERE id = ?`,
		g.Name, string(framesJSON), g.Samples, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a gesture from the database by its ID.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
