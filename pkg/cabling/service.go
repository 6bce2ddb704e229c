// Package cabling implements cable lifecycle operations and keeps the
// connected-endpoint cache on connectable terminations in sync. Every
// mutation and its cache rewrites share one store transaction.
package cabling

import (
	"fmt"

	"github.com/braunma/cabletrace/internal/constants"
	"github.com/braunma/cabletrace/pkg/models"
	"github.com/braunma/cabletrace/pkg/store"
	"github.com/braunma/cabletrace/pkg/trace"
	"github.com/braunma/cabletrace/pkg/utils"
)

// Service coordinates cable mutations against the store.
type Service struct {
	store  *store.Store
	logger *utils.Logger
}

// NewService creates a cabling service.
func NewService(s *store.Store, logger *utils.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// ConnectRequest describes a cable to create between two terminations.
type ConnectRequest struct {
	A, B       models.TerminationRef
	Status     models.CableStatus // empty means connected
	Type       string
	Label      string
	Color      string
	Length     *float64
	LengthUnit string
}

// Connect validates and creates a cable, attaches both terminations,
// and refreshes every endpoint cache the new segment affects.
func (s *Service) Connect(req ConnectRequest) (*models.Cable, error) {
	if req.Status == "" {
		req.Status = models.CableStatus(constants.DefaultCableStatus)
	}

	var cable *models.Cable
	err := s.store.WithTx(func(tx *store.Tx) error {
		a, err := tx.Termination(req.A)
		if err != nil {
			return err
		}
		b, err := tx.Termination(req.B)
		if err != nil {
			return err
		}
		if err := validateConnect(a, b, req); err != nil {
			return err
		}

		cable = &models.Cable{
			TerminationA: req.A,
			TerminationB: req.B,
			Status:       req.Status,
			Type:         req.Type,
			Label:        req.Label,
			Color:        utils.NormalizeColor(req.Color),
			Length:       req.Length,
			LengthUnit:   req.LengthUnit,
		}
		if err := tx.CreateCable(cable); err != nil {
			return err
		}
		if err := tx.SetCable(req.A, &cable.ID); err != nil {
			return err
		}
		if err := tx.SetCable(req.B, &cable.ID); err != nil {
			return err
		}

		affected, err := s.affectedEndpoints(tx, cable)
		if err != nil {
			return err
		}
		return s.refreshCaches(tx, affected)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Success("Created cable %s: %s <-> %s", cable, req.A, req.B)
	return cable, nil
}

// CableChanges carries the mutable cable attributes for an update. Nil
// fields are left untouched.
type CableChanges struct {
	Status     *models.CableStatus
	Type       *string
	Label      *string
	Color      *string
	Length     *float64
	LengthUnit *string
}

// UpdateCable rewrites cable attributes. A status change re-resolves
// the endpoint caches along the path; cosmetic changes do not.
func (s *Service) UpdateCable(id int64, changes CableChanges) (*models.Cable, error) {
	var cable *models.Cable
	err := s.store.WithTx(func(tx *store.Tx) error {
		var err error
		cable, err = tx.Cable(id)
		if err != nil {
			return err
		}

		statusChanged := false
		if changes.Status != nil && *changes.Status != cable.Status {
			cable.Status = *changes.Status
			statusChanged = true
		}
		if changes.Type != nil {
			cable.Type = *changes.Type
		}
		if changes.Label != nil {
			cable.Label = *changes.Label
		}
		if changes.Color != nil {
			cable.Color = utils.NormalizeColor(*changes.Color)
		}
		if changes.Length != nil {
			cable.Length = changes.Length
		}
		if changes.LengthUnit != nil {
			cable.LengthUnit = *changes.LengthUnit
		}
		if cable.Length != nil && cable.LengthUnit == "" {
			return validationErrorf(RuleLengthUnitRequired, "cable %s has a length without a unit", cable)
		}

		if err := tx.UpdateCable(cable); err != nil {
			return err
		}
		if !statusChanged {
			return nil
		}
		affected, err := s.affectedEndpoints(tx, cable)
		if err != nil {
			return err
		}
		return s.refreshCaches(tx, affected)
	})
	if err != nil {
		return nil, err
	}
	return cable, nil
}

// Disconnect deletes a cable, detaches both terminations, and clears or
// re-resolves the caches of every endpoint the segment served.
func (s *Service) Disconnect(id int64) error {
	err := s.store.WithTx(func(tx *store.Tx) error {
		cable, err := tx.Cable(id)
		if err != nil {
			return err
		}
		// The affected set never crosses the cable being removed, so it
		// is the same whether computed before or after the delete.
		affected, err := s.affectedEndpoints(tx, cable)
		if err != nil {
			return err
		}
		if err := tx.SetCable(cable.TerminationA, nil); err != nil {
			return err
		}
		if err := tx.SetCable(cable.TerminationB, nil); err != nil {
			return err
		}
		if err := tx.DeleteCable(cable.ID); err != nil {
			return err
		}
		return s.refreshCaches(tx, affected)
	})
	if err != nil {
		return err
	}
	s.logger.Success("Deleted cable #%d", id)
	return nil
}

// DeleteTermination removes a termination. An attached cable is
// deleted with it, and the far side's caches are re-resolved.
func (s *Service) DeleteTermination(ref models.TerminationRef) error {
	return s.store.WithTx(func(tx *store.Tx) error {
		term, err := tx.Termination(ref)
		if err != nil {
			return err
		}
		if cableID := term.AttachedCable(); cableID != nil {
			cable, err := tx.Cable(*cableID)
			if err != nil {
				return err
			}
			affected, err := s.affectedEndpoints(tx, cable)
			if err != nil {
				return err
			}
			if err := tx.SetCable(cable.TerminationA, nil); err != nil {
				return err
			}
			if err := tx.SetCable(cable.TerminationB, nil); err != nil {
				return err
			}
			if err := tx.DeleteCable(cable.ID); err != nil {
				return err
			}
			remaining := affected[:0]
			for _, a := range affected {
				if a != ref {
					remaining = append(remaining, a)
				}
			}
			if err := s.refreshCaches(tx, remaining); err != nil {
				return err
			}
		}
		return tx.DeleteTermination(ref)
	})
}

// Trace resolves the full path from a termination for display.
func (s *Service) Trace(ref models.TerminationRef, followCircuits bool) (*trace.Path, error) {
	var path *trace.Path
	err := s.store.View(func(tx *store.Tx) error {
		term, err := tx.Termination(ref)
		if err != nil {
			return err
		}
		path, err = trace.Trace(tx, term, trace.Options{FollowCircuits: followCircuits})
		return err
	})
	if err != nil {
		return nil, err
	}
	return path, nil
}

// Endpoint reads the cached far-end endpoint of a connectable
// termination without walking the graph.
func (s *Service) Endpoint(ref models.TerminationRef) (*models.TerminationRef, *models.ConnectionStatus, error) {
	if !models.IsConnectable(ref.Kind) {
		return nil, nil, fmt.Errorf("%s does not carry an endpoint cache", ref.Kind)
	}
	var (
		endpoint *models.TerminationRef
		status   *models.ConnectionStatus
	)
	err := s.store.View(func(tx *store.Tx) error {
		term, err := tx.Termination(ref)
		if err != nil {
			return err
		}
		switch v := term.(type) {
		case *models.ConsolePort:
			endpoint, status = v.ConnectedEndpoint, v.ConnectionStatus
		case *models.ConsoleServerPort:
			endpoint, status = v.ConnectedEndpoint, v.ConnectionStatus
		case *models.PowerPort:
			endpoint, status = v.ConnectedEndpoint, v.ConnectionStatus
		case *models.PowerOutlet:
			endpoint, status = v.ConnectedEndpoint, v.ConnectionStatus
		case *models.Interface:
			endpoint, status = v.ConnectedEndpoint, v.ConnectionStatus
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return endpoint, status, nil
}

// validateConnect applies the plant integrity rules before a cable is
// created. The checks mirror physical reality: one cable per port, no
// port cabled to itself, matching media on both ends.
func validateConnect(a, b models.Termination, req ConnectRequest) error {
	if a.Ref() == b.Ref() {
		return validationErrorf(RuleSelfConnection, "cannot connect %s to itself", a.Ref())
	}
	if !models.IsCompatible(a.Ref().Kind, b.Ref().Kind) {
		return validationErrorf(RuleIncompatibleTypes, "incompatible termination types %s and %s", a.Ref().Kind, b.Ref().Kind)
	}
	for _, term := range []models.Termination{a, b} {
		if iface, ok := term.(*models.Interface); ok && !iface.Connectable() {
			return validationErrorf(RuleNonConnectableInterface, "%s interface %s cannot be cabled", iface.Type, iface.Ref())
		}
	}
	if fp, rp, ok := frontRearPair(a, b); ok && fp.RearPortID == rp.ID {
		return validationErrorf(RuleFrontPortOwnRearPort, "front port %s cannot be connected to its own rear port", fp.Ref())
	}
	if ra, ok := a.(*models.RearPort); ok {
		if rb, ok := b.(*models.RearPort); ok && ra.Positions != rb.Positions {
			return validationErrorf(RulePositionsMismatch,
				"rear port %s has %d positions but %s has %d", ra.Ref(), ra.Positions, rb.Ref(), rb.Positions)
		}
	}
	for _, term := range []models.Termination{a, b} {
		if term.AttachedCable() != nil {
			return validationErrorf(RuleAlreadyCabled, "%s already has a cable attached", term.Ref())
		}
	}
	if req.Length != nil && req.LengthUnit == "" {
		return validationErrorf(RuleLengthUnitRequired, "a cable with a length must have a length unit")
	}
	return nil
}

func frontRearPair(a, b models.Termination) (*models.FrontPort, *models.RearPort, bool) {
	if fp, ok := a.(*models.FrontPort); ok {
		if rp, ok := b.(*models.RearPort); ok {
			return fp, rp, true
		}
	}
	if fp, ok := b.(*models.FrontPort); ok {
		if rp, ok := a.(*models.RearPort); ok {
			return fp, rp, true
		}
	}
	return nil, nil, false
}

// affectedEndpoints collects every connectable termination whose cached
// endpoint depends on the given cable. Each cable end is resolved by
// walking away from the cable: a connectable end is affected itself, a
// front port leads through its rear port, and a rear port fans out
// through every front port multiplexed onto it.
func (s *Service) affectedEndpoints(tx *store.Tx, cable *models.Cable) ([]models.TerminationRef, error) {
	seen := make(map[models.TerminationRef]bool)
	var affected []models.TerminationRef
	add := func(ref models.TerminationRef) {
		if models.IsConnectable(ref.Kind) && !seen[ref] {
			seen[ref] = true
			affected = append(affected, ref)
		}
	}

	collect := func(path *trace.Path) {
		if path.Cycle {
			s.logger.Warning("Cable %s participates in a loop; affected endpoints beyond it are unreachable", cable)
			return
		}
		if path.HopLimitExceeded {
			s.logger.Warning("Path through cable %s exceeds %d hops; distant endpoints left unresolved", cable, constants.MaxTraceHops)
			return
		}
		if path.Endpoint != nil {
			add(path.Endpoint.Ref())
		}
	}

	for _, ref := range []models.TerminationRef{cable.TerminationA, cable.TerminationB} {
		switch {
		case models.IsConnectable(ref.Kind):
			add(ref)

		case ref.Kind == models.KindFrontPort:
			term, err := tx.Termination(ref)
			if err != nil {
				return nil, err
			}
			fp := term.(*models.FrontPort)
			rear, err := tx.Termination(fp.RearPortRef())
			if err != nil {
				return nil, err
			}
			path, err := trace.Trace(tx, rear, trace.Options{Position: fp.RearPortPosition})
			if err != nil {
				return nil, err
			}
			collect(path)

		case ref.Kind == models.KindRearPort:
			fronts, err := tx.FrontPortsForRearPort(ref.ID)
			if err != nil {
				return nil, err
			}
			for _, fp := range fronts {
				path, err := trace.Trace(tx, fp, trace.Options{})
				if err != nil {
					return nil, err
				}
				collect(path)
			}
		}
	}
	return affected, nil
}

// refreshCaches re-walks the path from each affected termination and
// writes the result. An incomplete, looping, or over-budget path clears
// the cache rather than failing the transaction.
func (s *Service) refreshCaches(tx *store.Tx, affected []models.TerminationRef) error {
	for _, ref := range affected {
		term, err := tx.Termination(ref)
		if err != nil {
			return err
		}
		path, err := trace.Trace(tx, term, trace.Options{})
		if err != nil {
			return err
		}
		if path.Cycle {
			s.logger.Warning("Loop detected while resolving %s; endpoint cache cleared", ref)
		}
		if path.HopLimitExceeded {
			s.logger.Warning("Path from %s exceeds %d hops; endpoint cache cleared", ref, constants.MaxTraceHops)
		}
		if path.Complete() && path.Endpoint.Ref().Kind != models.KindCircuitTermination {
			endpoint := path.Endpoint.Ref()
			status := path.Status
			if err := tx.SetEndpointCache(ref, &endpoint, &status); err != nil {
				return err
			}
			continue
		}
		if err := tx.SetEndpointCache(ref, nil, nil); err != nil {
			return err
		}
	}
	return nil
}
