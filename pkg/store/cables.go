package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/braunma/cabletrace/pkg/models"
)

const cableColumns = `id, termination_a_kind, termination_a_id, termination_b_kind, termination_b_id,
	status, type, label, color, length, length_unit`

func scanCable(scanner interface{ Scan(...any) error }) (*models.Cable, error) {
	var (
		cable  models.Cable
		aKind  string
		bKind  string
		status string
		length sql.NullFloat64
	)
	err := scanner.Scan(
		&cable.ID, &aKind, &cable.TerminationA.ID, &bKind, &cable.TerminationB.ID,
		&status, &cable.Type, &cable.Label, &cable.Color, &length, &cable.LengthUnit,
	)
	if err != nil {
		return nil, err
	}
	cable.TerminationA.Kind = models.Kind(aKind)
	cable.TerminationB.Kind = models.Kind(bKind)
	cable.Status = models.CableStatus(status)
	if length.Valid {
		v := length.Float64
		cable.Length = &v
	}
	return &cable, nil
}

// CreateCable persists a cable and assigns its ID. Attaching the cable
// to its two terminations is a separate step.
func (t *Tx) CreateCable(cable *models.Cable) error {
	var length any
	if cable.Length != nil {
		length = *cable.Length
	}
	result, err := t.tx.Exec(
		`INSERT INTO cables (
			termination_a_kind, termination_a_id, termination_b_kind, termination_b_id,
			status, type, label, color, length, length_unit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(cable.TerminationA.Kind), cable.TerminationA.ID,
		string(cable.TerminationB.Kind), cable.TerminationB.ID,
		string(cable.Status), cable.Type, cable.Label, cable.Color, length, cable.LengthUnit,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cable: %w", err)
	}
	cable.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

// Cable fetches a cable by ID.
func (t *Tx) Cable(id int64) (*models.Cable, error) {
	cable, err := scanCable(t.tx.QueryRow(
		`SELECT `+cableColumns+` FROM cables WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "cable", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cable %d: %w", id, err)
	}
	return cable, nil
}

// Cables lists every cable, ordered by ID.
func (t *Tx) Cables() ([]*models.Cable, error) {
	rows, err := t.tx.Query(`SELECT ` + cableColumns + ` FROM cables ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cables: %w", err)
	}
	defer rows.Close()

	var cables []*models.Cable
	for rows.Next() {
		cable, err := scanCable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cable: %w", err)
		}
		cables = append(cables, cable)
	}
	return cables, rows.Err()
}

// UpdateCable rewrites the mutable attributes of a cable. Terminations
// are immutable; replacing an end means delete and recreate.
func (t *Tx) UpdateCable(cable *models.Cable) error {
	var length any
	if cable.Length != nil {
		length = *cable.Length
	}
	result, err := t.tx.Exec(
		`UPDATE cables SET status = ?, type = ?, label = ?, color = ?, length = ?, length_unit = ?
		WHERE id = ?`,
		string(cable.Status), cable.Type, cable.Label, cable.Color, length, cable.LengthUnit,
		cable.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cable %d: %w", cable.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Resource: "cable", ID: cable.ID}
	}
	return nil
}

// DeleteCable removes a cable row. Detaching its terminations is the
// caller's job and must happen first.
func (t *Tx) DeleteCable(id int64) error {
	result, err := t.tx.Exec(`DELETE FROM cables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cable %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Resource: "cable", ID: id}
	}
	return nil
}
