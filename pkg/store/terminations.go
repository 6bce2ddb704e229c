package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/braunma/cabletrace/pkg/models"
)

// terminationColumns is the list of columns to select for termination queries.
const terminationColumns = `id, kind, device_id, name, iface_type, mgmt_only, positions,
	rear_port_id, rear_port_position, circuit_id, term_side, cable_id,
	connected_endpoint_kind, connected_endpoint_id, connection_status`

// terminationRow mirrors one row of the terminations table.
type terminationRow struct {
	ID               int64
	Kind             string
	DeviceID         sql.NullInt64
	Name             string
	IfaceType        string
	MgmtOnly         bool
	Positions        int
	RearPortID       sql.NullInt64
	RearPortPosition sql.NullInt64
	CircuitID        sql.NullInt64
	TermSide         string
	CableID          sql.NullInt64
	EndpointKind     sql.NullString
	EndpointID       sql.NullInt64
	ConnectionStatus sql.NullString
}

func scanTermination(scanner interface{ Scan(...any) error }) (*terminationRow, error) {
	var row terminationRow
	err := scanner.Scan(
		&row.ID, &row.Kind, &row.DeviceID, &row.Name, &row.IfaceType, &row.MgmtOnly, &row.Positions,
		&row.RearPortID, &row.RearPortPosition, &row.CircuitID, &row.TermSide, &row.CableID,
		&row.EndpointKind, &row.EndpointID, &row.ConnectionStatus,
	)
	return &row, err
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// toDomain converts a row into its concrete termination type.
func (row *terminationRow) toDomain() (models.Termination, error) {
	cache := models.EndpointCache{}
	if row.EndpointKind.Valid && row.EndpointID.Valid {
		cache.ConnectedEndpoint = &models.TerminationRef{
			Kind: models.Kind(row.EndpointKind.String),
			ID:   row.EndpointID.Int64,
		}
	}
	if row.ConnectionStatus.Valid {
		status := models.ConnectionStatus(row.ConnectionStatus.String)
		cache.ConnectionStatus = &status
	}
	cableID := nullableID(row.CableID)
	deviceID := row.DeviceID.Int64

	switch models.Kind(row.Kind) {
	case models.KindConsolePort:
		return &models.ConsolePort{ID: row.ID, DeviceID: deviceID, Name: row.Name, CableID: cableID, EndpointCache: cache}, nil
	case models.KindConsoleServerPort:
		return &models.ConsoleServerPort{ID: row.ID, DeviceID: deviceID, Name: row.Name, CableID: cableID, EndpointCache: cache}, nil
	case models.KindPowerPort:
		return &models.PowerPort{ID: row.ID, DeviceID: deviceID, Name: row.Name, CableID: cableID, EndpointCache: cache}, nil
	case models.KindPowerOutlet:
		return &models.PowerOutlet{ID: row.ID, DeviceID: deviceID, Name: row.Name, CableID: cableID, EndpointCache: cache}, nil
	case models.KindInterface:
		return &models.Interface{
			ID: row.ID, DeviceID: deviceID, Name: row.Name, Type: row.IfaceType,
			MgmtOnly: row.MgmtOnly, CableID: cableID, EndpointCache: cache,
		}, nil
	case models.KindFrontPort:
		return &models.FrontPort{
			ID: row.ID, DeviceID: deviceID, Name: row.Name, Type: row.IfaceType,
			RearPortID: row.RearPortID.Int64, RearPortPosition: int(row.RearPortPosition.Int64),
			CableID: cableID,
		}, nil
	case models.KindRearPort:
		return &models.RearPort{
			ID: row.ID, DeviceID: deviceID, Name: row.Name, Type: row.IfaceType,
			Positions: row.Positions, CableID: cableID,
		}, nil
	case models.KindPowerFeed:
		return &models.PowerFeed{ID: row.ID, Name: row.Name, CableID: cableID}, nil
	case models.KindCircuitTermination:
		return &models.CircuitTermination{
			ID: row.ID, CircuitID: row.CircuitID.Int64, TermSide: row.TermSide, CableID: cableID,
		}, nil
	}
	return nil, fmt.Errorf("unknown termination kind %q in row %d", row.Kind, row.ID)
}

// CreateSite persists a site and assigns its ID.
func (t *Tx) CreateSite(site *models.Site) error {
	result, err := t.tx.Exec(
		`INSERT INTO sites (name, slug, status) VALUES (?, ?, ?)`,
		site.Name, site.Slug, site.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert site: %w", err)
	}
	site.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

// SiteBySlug retrieves a site by its slug.
func (t *Tx) SiteBySlug(slug string) (*models.Site, error) {
	var site models.Site
	err := t.tx.QueryRow(
		`SELECT id, name, slug, status FROM sites WHERE slug = ?`, slug,
	).Scan(&site.ID, &site.Name, &site.Slug, &site.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "site"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find site %q: %w", slug, err)
	}
	return &site, nil
}

// CreateDevice persists a device and assigns its ID.
func (t *Tx) CreateDevice(device *models.Device) error {
	result, err := t.tx.Exec(
		`INSERT INTO devices (site_id, name, role) VALUES (?, ?, ?)`,
		device.SiteID, device.Name, device.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}
	device.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

// DeviceByName retrieves a device by its unique name.
func (t *Tx) DeviceByName(name string) (*models.Device, error) {
	var device models.Device
	var siteID sql.NullInt64
	err := t.tx.QueryRow(
		`SELECT id, site_id, name, role FROM devices WHERE name = ?`, name,
	).Scan(&device.ID, &siteID, &device.Name, &device.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "device"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find device %q: %w", name, err)
	}
	device.SiteID = siteID.Int64
	return &device, nil
}

// DeviceByID retrieves a device by its ID.
func (t *Tx) DeviceByID(id int64) (*models.Device, error) {
	var device models.Device
	var siteID sql.NullInt64
	err := t.tx.QueryRow(
		`SELECT id, site_id, name, role FROM devices WHERE id = ?`, id,
	).Scan(&device.ID, &siteID, &device.Name, &device.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "device", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find device %d: %w", id, err)
	}
	device.SiteID = siteID.Int64
	return &device, nil
}

// CreateTermination persists a termination of any kind and assigns its
// ID on the concrete struct.
func (t *Tx) CreateTermination(term models.Termination) error {
	var (
		deviceID         any
		name             string
		ifaceType        string
		mgmtOnly         bool
		positions        = 1
		rearPortID       any
		rearPortPosition any
		circuitID        any
		termSide         string
	)

	switch v := term.(type) {
	case *models.ConsolePort:
		deviceID, name = v.DeviceID, v.Name
	case *models.ConsoleServerPort:
		deviceID, name = v.DeviceID, v.Name
	case *models.PowerPort:
		deviceID, name = v.DeviceID, v.Name
	case *models.PowerOutlet:
		deviceID, name = v.DeviceID, v.Name
	case *models.Interface:
		deviceID, name, ifaceType, mgmtOnly = v.DeviceID, v.Name, v.Type, v.MgmtOnly
	case *models.FrontPort:
		deviceID, name, ifaceType = v.DeviceID, v.Name, v.Type
		rearPortID, rearPortPosition = v.RearPortID, v.RearPortPosition
	case *models.RearPort:
		deviceID, name, ifaceType = v.DeviceID, v.Name, v.Type
		if v.Positions > 0 {
			positions = v.Positions
		}
	case *models.PowerFeed:
		name = v.Name
	case *models.CircuitTermination:
		circuitID, termSide = v.CircuitID, v.TermSide
	default:
		return fmt.Errorf("unsupported termination type %T", term)
	}

	result, err := t.tx.Exec(
		`INSERT INTO terminations (
			kind, device_id, name, iface_type, mgmt_only, positions,
			rear_port_id, rear_port_position, circuit_id, term_side
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(term.Ref().Kind), deviceID, name, ifaceType, mgmtOnly, positions,
		rearPortID, rearPortPosition, circuitID, termSide,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", term.Ref().Kind, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	setTerminationID(term, id)
	return nil
}

func setTerminationID(term models.Termination, id int64) {
	switch v := term.(type) {
	case *models.ConsolePort:
		v.ID = id
	case *models.ConsoleServerPort:
		v.ID = id
	case *models.PowerPort:
		v.ID = id
	case *models.PowerOutlet:
		v.ID = id
	case *models.Interface:
		v.ID = id
	case *models.FrontPort:
		v.ID = id
	case *models.RearPort:
		v.ID = id
	case *models.PowerFeed:
		v.ID = id
	case *models.CircuitTermination:
		v.ID = id
	}
}

// Termination resolves a tagged reference to its concrete object.
func (t *Tx) Termination(ref models.TerminationRef) (models.Termination, error) {
	row, err := scanTermination(t.tx.QueryRow(
		`SELECT `+terminationColumns+` FROM terminations WHERE id = ? AND kind = ?`,
		ref.ID, string(ref.Kind),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: string(ref.Kind), ID: ref.ID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find termination %s: %w", ref, err)
	}
	return row.toDomain()
}

// TerminationByName resolves a device port by kind and name.
func (t *Tx) TerminationByName(kind models.Kind, deviceID int64, name string) (models.Termination, error) {
	row, err := scanTermination(t.tx.QueryRow(
		`SELECT `+terminationColumns+` FROM terminations WHERE kind = ? AND device_id = ? AND name = ?`,
		string(kind), deviceID, name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: string(kind)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s %q on device %d: %w", kind, name, deviceID, err)
	}
	return row.toDomain()
}

// SetCable attaches or detaches (nil) the owning cable of a termination.
func (t *Tx) SetCable(ref models.TerminationRef, cableID *int64) error {
	var value any
	if cableID != nil {
		value = *cableID
	}
	result, err := t.tx.Exec(
		`UPDATE terminations SET cable_id = ? WHERE id = ? AND kind = ?`,
		value, ref.ID, string(ref.Kind),
	)
	if err != nil {
		return fmt.Errorf("failed to set cable on %s: %w", ref, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Resource: string(ref.Kind), ID: ref.ID}
	}
	return nil
}

// SetEndpointCache writes the denormalized trace result of a
// connectable termination. Both values nil records "no complete path".
func (t *Tx) SetEndpointCache(ref models.TerminationRef, endpoint *models.TerminationRef, status *models.ConnectionStatus) error {
	var kind, statusValue any
	var id any
	if endpoint != nil {
		kind = string(endpoint.Kind)
		id = endpoint.ID
	}
	if status != nil {
		statusValue = string(*status)
	}
	result, err := t.tx.Exec(
		`UPDATE terminations
		SET connected_endpoint_kind = ?, connected_endpoint_id = ?, connection_status = ?
		WHERE id = ? AND kind = ?`,
		kind, id, statusValue, ref.ID, string(ref.Kind),
	)
	if err != nil {
		return fmt.Errorf("failed to set endpoint cache on %s: %w", ref, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Resource: string(ref.Kind), ID: ref.ID}
	}
	return nil
}

// FrontPortAtPosition returns the front port occupying the given rear
// port position, or nil when the position is unoccupied. Uniqueness is
// guaranteed by the idx_front_port_position constraint.
func (t *Tx) FrontPortAtPosition(rearPortID int64, position int) (*models.FrontPort, error) {
	row, err := scanTermination(t.tx.QueryRow(
		`SELECT `+terminationColumns+` FROM terminations
		WHERE kind = ? AND rear_port_id = ? AND rear_port_position = ?`,
		string(models.KindFrontPort), rearPortID, position,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find front port for rear port %d position %d: %w", rearPortID, position, err)
	}
	term, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return term.(*models.FrontPort), nil
}

// FrontPortsForRearPort returns every front port paired with a rear
// port, ordered by position.
func (t *Tx) FrontPortsForRearPort(rearPortID int64) ([]*models.FrontPort, error) {
	rows, err := t.tx.Query(
		`SELECT `+terminationColumns+` FROM terminations
		WHERE kind = ? AND rear_port_id = ?
		ORDER BY rear_port_position`,
		string(models.KindFrontPort), rearPortID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list front ports for rear port %d: %w", rearPortID, err)
	}
	defer rows.Close()

	var ports []*models.FrontPort
	for rows.Next() {
		row, err := scanTermination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan front port: %w", err)
		}
		term, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		ports = append(ports, term.(*models.FrontPort))
	}
	return ports, rows.Err()
}

// CircuitPeer returns the termination on the far side of a circuit, or
// nil when the circuit has no second termination.
func (t *Tx) CircuitPeer(ct *models.CircuitTermination) (*models.CircuitTermination, error) {
	row, err := scanTermination(t.tx.QueryRow(
		`SELECT `+terminationColumns+` FROM terminations
		WHERE kind = ? AND circuit_id = ? AND id <> ?`,
		string(models.KindCircuitTermination), ct.CircuitID, ct.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find circuit peer for termination %d: %w", ct.ID, err)
	}
	term, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return term.(*models.CircuitTermination), nil
}

// DeleteTermination removes a termination row. Cable cascade is the
// caller's job; the row must already be detached.
func (t *Tx) DeleteTermination(ref models.TerminationRef) error {
	result, err := t.tx.Exec(
		`DELETE FROM terminations WHERE id = ? AND kind = ?`,
		ref.ID, string(ref.Kind),
	)
	if err != nil {
		return fmt.Errorf("failed to delete termination %s: %w", ref, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Resource: string(ref.Kind), ID: ref.ID}
	}
	return nil
}
