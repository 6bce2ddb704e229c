package loader

import (
	"errors"
	"fmt"
	"sort"

	"github.com/braunma/cabletrace/internal/constants"
	"github.com/braunma/cabletrace/pkg/cabling"
	"github.com/braunma/cabletrace/pkg/models"
	"github.com/braunma/cabletrace/pkg/store"
	"github.com/braunma/cabletrace/pkg/utils"
)

// Seeder applies loaded inventory to the store with full idempotency:
// existing sites, devices, ports, and cables are left alone, missing
// ones are created.
type Seeder struct {
	store          *store.Store
	service        *cabling.Service
	logger         *utils.Logger
	processedPairs map[string]bool // Track processed cable pairs to avoid duplicates
}

// NewSeeder creates a new seeder
func NewSeeder(st *store.Store, service *cabling.Service, logger *utils.Logger) *Seeder {
	return &Seeder{
		store:          st,
		service:        service,
		logger:         logger,
		processedPairs: make(map[string]bool),
	}
}

// Apply creates everything the inventory describes. Sites, devices, and
// ports land first so cable endpoints resolve regardless of file order.
func (s *Seeder) Apply(sites []*models.SiteConfig, devices []*models.DeviceConfig) error {
	if err := s.applyFoundation(sites, devices); err != nil {
		return err
	}
	return s.applyCables(devices)
}

func (s *Seeder) applyFoundation(sites []*models.SiteConfig, devices []*models.DeviceConfig) error {
	return s.store.WithTx(func(tx *store.Tx) error {
		for _, cfg := range sites {
			if err := s.ensureSite(tx, cfg); err != nil {
				return err
			}
		}
		for _, cfg := range devices {
			device, err := s.ensureDevice(tx, cfg)
			if err != nil {
				return err
			}
			if device == nil {
				continue // dry-run
			}
			if err := s.ensurePorts(tx, device, cfg); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Seeder) ensureSite(tx *store.Tx, cfg *models.SiteConfig) error {
	slug := cfg.Slug
	if slug == "" {
		slug = utils.Slugify(cfg.Name)
	}
	_, err := tx.SiteBySlug(slug)
	if err == nil {
		s.logger.Debug("Site %s exists, skipping", slug)
		return nil
	}
	var nfe *store.NotFoundError
	if !errors.As(err, &nfe) {
		return err
	}
	if s.logger.IsDryRun() {
		s.logger.DryRun("CREATE", "Site: %s", cfg.Name)
		return nil
	}
	status := cfg.Status
	if status == "" {
		status = "active"
	}
	site := &models.Site{Name: cfg.Name, Slug: slug, Status: status}
	if err := tx.CreateSite(site); err != nil {
		return err
	}
	s.logger.Success("Created site %s", cfg.Name)
	return nil
}

func (s *Seeder) ensureDevice(tx *store.Tx, cfg *models.DeviceConfig) (*models.Device, error) {
	device, err := tx.DeviceByName(cfg.Name)
	if err == nil {
		s.logger.Debug("Device %s exists, skipping", cfg.Name)
		return device, nil
	}
	var nfe *store.NotFoundError
	if !errors.As(err, &nfe) {
		return nil, err
	}
	if s.logger.IsDryRun() {
		s.logger.DryRun("CREATE", "Device: %s", cfg.Name)
		return nil, nil
	}
	device = &models.Device{Name: cfg.Name, Role: cfg.Role}
	if cfg.SiteSlug != "" {
		site, err := tx.SiteBySlug(cfg.SiteSlug)
		if err != nil {
			return nil, fmt.Errorf("device %s references unknown site %q: %w", cfg.Name, cfg.SiteSlug, err)
		}
		device.SiteID = site.ID
	}
	if err := tx.CreateDevice(device); err != nil {
		return nil, err
	}
	s.logger.Success("Created device %s", cfg.Name)
	return device, nil
}

// ensurePorts creates the device's terminations. Rear ports go first so
// front ports can resolve their rear port by name.
func (s *Seeder) ensurePorts(tx *store.Tx, device *models.Device, cfg *models.DeviceConfig) error {
	for _, rp := range cfg.RearPorts {
		positions := rp.Positions
		if positions == 0 {
			positions = 1
		}
		err := s.ensureTermination(tx, device, models.KindRearPort, rp.Name, func() models.Termination {
			return &models.RearPort{DeviceID: device.ID, Name: rp.Name, Type: rp.Type, Positions: positions}
		})
		if err != nil {
			return err
		}
	}
	for _, fp := range cfg.FrontPorts {
		rear, err := tx.TerminationByName(models.KindRearPort, device.ID, fp.RearPort)
		if err != nil {
			return fmt.Errorf("front port %s/%s references unknown rear port %q: %w",
				device.Name, fp.Name, fp.RearPort, err)
		}
		position := fp.RearPortPosition
		if position == 0 {
			position = 1
		}
		err = s.ensureTermination(tx, device, models.KindFrontPort, fp.Name, func() models.Termination {
			return &models.FrontPort{
				DeviceID: device.ID, Name: fp.Name, Type: fp.Type,
				RearPortID: rear.Ref().ID, RearPortPosition: position,
			}
		})
		if err != nil {
			return err
		}
	}
	for _, ic := range cfg.Interfaces {
		err := s.ensureTermination(tx, device, models.KindInterface, ic.Name, func() models.Termination {
			return &models.Interface{DeviceID: device.ID, Name: ic.Name, Type: ic.Type, MgmtOnly: ic.MgmtOnly}
		})
		if err != nil {
			return err
		}
	}
	for _, cp := range cfg.ConsolePorts {
		err := s.ensureTermination(tx, device, models.KindConsolePort, cp.Name, func() models.Termination {
			return &models.ConsolePort{DeviceID: device.ID, Name: cp.Name}
		})
		if err != nil {
			return err
		}
	}
	for _, csp := range cfg.ConsoleServerPorts {
		err := s.ensureTermination(tx, device, models.KindConsoleServerPort, csp.Name, func() models.Termination {
			return &models.ConsoleServerPort{DeviceID: device.ID, Name: csp.Name}
		})
		if err != nil {
			return err
		}
	}
	for _, pp := range cfg.PowerPorts {
		err := s.ensureTermination(tx, device, models.KindPowerPort, pp.Name, func() models.Termination {
			return &models.PowerPort{DeviceID: device.ID, Name: pp.Name}
		})
		if err != nil {
			return err
		}
	}
	for _, po := range cfg.PowerOutlets {
		err := s.ensureTermination(tx, device, models.KindPowerOutlet, po.Name, func() models.Termination {
			return &models.PowerOutlet{DeviceID: device.ID, Name: po.Name}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) ensureTermination(tx *store.Tx, device *models.Device, kind models.Kind, name string, build func() models.Termination) error {
	_, err := tx.TerminationByName(kind, device.ID, name)
	if err == nil {
		return nil
	}
	var nfe *store.NotFoundError
	if !errors.As(err, &nfe) {
		return err
	}
	if s.logger.IsDryRun() {
		s.logger.DryRun("CREATE", "%s: %s/%s", kind, device.Name, name)
		return nil
	}
	if err := tx.CreateTermination(build()); err != nil {
		return fmt.Errorf("failed to create %s %s/%s: %w", kind, device.Name, name, err)
	}
	s.logger.Debug("Created %s %s/%s", kind, device.Name, name)
	return nil
}

// linkEntry is one declared cable end: the local port it hangs off and
// the link block describing the far side.
type linkEntry struct {
	kind models.Kind
	port string
	link *models.LinkConfig
}

func linkEntries(cfg *models.DeviceConfig) []linkEntry {
	var entries []linkEntry
	for _, ic := range cfg.Interfaces {
		if ic.Link != nil {
			entries = append(entries, linkEntry{models.KindInterface, ic.Name, ic.Link})
		}
	}
	for _, cp := range cfg.ConsolePorts {
		if cp.Link != nil {
			entries = append(entries, linkEntry{models.KindConsolePort, cp.Name, cp.Link})
		}
	}
	for _, csp := range cfg.ConsoleServerPorts {
		if csp.Link != nil {
			entries = append(entries, linkEntry{models.KindConsoleServerPort, csp.Name, csp.Link})
		}
	}
	for _, pp := range cfg.PowerPorts {
		if pp.Link != nil {
			entries = append(entries, linkEntry{models.KindPowerPort, pp.Name, pp.Link})
		}
	}
	for _, po := range cfg.PowerOutlets {
		if po.Link != nil {
			entries = append(entries, linkEntry{models.KindPowerOutlet, po.Name, po.Link})
		}
	}
	for _, fp := range cfg.FrontPorts {
		if fp.Link != nil {
			entries = append(entries, linkEntry{models.KindFrontPort, fp.Name, fp.Link})
		}
	}
	for _, rp := range cfg.RearPorts {
		if rp.Link != nil {
			entries = append(entries, linkEntry{models.KindRearPort, rp.Name, rp.Link})
		}
	}
	return entries
}

func (s *Seeder) applyCables(devices []*models.DeviceConfig) error {
	for _, cfg := range devices {
		for _, entry := range linkEntries(cfg) {
			if err := s.applyLink(cfg.Name, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) applyLink(deviceName string, entry linkEntry) error {
	link := entry.link
	peerKind := entry.kind
	if link.PeerKind != "" {
		var err error
		peerKind, err = models.ParseKind(link.PeerKind)
		if err != nil {
			return fmt.Errorf("link %s/%s: %w", deviceName, entry.port, err)
		}
	}

	// Canonical pair ID so the link declared on both devices yields one
	// cable (sorted to ensure A->B == B->A).
	pairID := createPairID(
		fmt.Sprintf("%s:%s:%s", entry.kind, deviceName, entry.port),
		fmt.Sprintf("%s:%s:%s", peerKind, link.PeerDevice, link.PeerPort),
	)
	if s.processedPairs[pairID] {
		s.logger.Debug("Cable %s already processed, skipping", pairID)
		return nil
	}
	s.processedPairs[pairID] = true

	if s.logger.IsDryRun() {
		s.logger.DryRun("CREATE", "Cable: %s[%s] <-> %s[%s]",
			deviceName, entry.port, link.PeerDevice, link.PeerPort)
		return nil
	}

	var aRef, bRef models.TerminationRef
	var cabled bool
	err := s.store.View(func(tx *store.Tx) error {
		local, err := tx.DeviceByName(deviceName)
		if err != nil {
			return err
		}
		a, err := tx.TerminationByName(entry.kind, local.ID, entry.port)
		if err != nil {
			return fmt.Errorf("link references unknown port %s/%s: %w", deviceName, entry.port, err)
		}
		peer, err := tx.DeviceByName(link.PeerDevice)
		if err != nil {
			return fmt.Errorf("link %s/%s references unknown device %q: %w",
				deviceName, entry.port, link.PeerDevice, err)
		}
		b, err := tx.TerminationByName(peerKind, peer.ID, link.PeerPort)
		if err != nil {
			return fmt.Errorf("link %s/%s references unknown port %s/%s: %w",
				deviceName, entry.port, link.PeerDevice, link.PeerPort, err)
		}
		aRef, bRef = a.Ref(), b.Ref()
		cabled = a.AttachedCable() != nil || b.AttachedCable() != nil
		return nil
	})
	if err != nil {
		return err
	}
	if cabled {
		s.logger.Debug("Cable %s exists, skipping", pairID)
		return nil
	}

	req := cabling.ConnectRequest{
		A:          aRef,
		B:          bRef,
		Type:       link.CableType,
		Label:      link.Label,
		Color:      link.Color,
		Length:     link.Length,
		LengthUnit: link.LengthUnit,
	}
	if link.Status != "" {
		status, err := models.ParseCableStatus(link.Status)
		if err != nil {
			return fmt.Errorf("link %s/%s: %w", deviceName, entry.port, err)
		}
		req.Status = status
	}
	if req.Color == "" && req.Type != "" {
		req.Color = utils.GetCableColor(req.Type)
	}
	if req.Length != nil && req.LengthUnit == "" {
		req.LengthUnit = constants.DefaultLengthUnit
	}

	_, err = s.service.Connect(req)
	return err
}

// createPairID creates a canonical identifier for a cable pair (order-independent)
func createPairID(aID, bID string) string {
	ids := []string{aID, bID}
	sort.Strings(ids)
	return fmt.Sprintf("%s <-> %s", ids[0], ids[1])
}
