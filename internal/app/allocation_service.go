package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/core/allocation"
	"github.com/example/wealthdesk/internal/events"
	"github.com/example/wealthdesk/internal/ports/primary"
	"github.com/example/wealthdesk/internal/ports/secondary"
)

// AllocationServiceImpl implements the AllocationService interface.
// It holds the tree of the last Load; edits mutate it and persist the edited node.
type AllocationServiceImpl struct {
	allocRepo    secondary.AllocationRepository
	positionRepo secondary.PositionRepository
	rateRepo     secondary.ExchangeRateRepository
	modes        secondary.AllocationModeStore
	bus          *events.Bus
	portfolioID  int64
	baseCurrency string
	now          func() time.Time
	log          zerolog.Logger

	mu   sync.Mutex
	tree *allocation.Tree
}

// NewAllocationService creates a new AllocationService with injected dependencies.
func NewAllocationService(
	allocRepo secondary.AllocationRepository,
	positionRepo secondary.PositionRepository,
	rateRepo secondary.ExchangeRateRepository,
	modes secondary.AllocationModeStore,
	bus *events.Bus,
	portfolioID int64,
	baseCurrency string,
	log zerolog.Logger,
) *AllocationServiceImpl {
	return &AllocationServiceImpl{
		allocRepo:    allocRepo,
		positionRepo: positionRepo,
		rateRepo:     rateRepo,
		modes:        modes,
		bus:          bus,
		portfolioID:  portfolioID,
		baseCurrency: baseCurrency,
		now:          time.Now,
		log:          log.With().Str("service", "allocation").Logger(),
	}
}

// Load reconciles positions, FX rates and targets into a fresh tree.
func (s *AllocationServiceImpl) Load(ctx context.Context) (*primary.AllocationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	s.tree = tree
	return s.view(), nil
}

// View returns the current tree with freshly computed validation.
func (s *AllocationServiceImpl) View(ctx context.Context) (*primary.AllocationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTree(ctx); err != nil {
		return nil, err
	}
	return s.view(), nil
}

// SetTargetPercent edits a percent-mode node's percentage and persists that node.
func (s *AllocationServiceImpl) SetTargetPercent(ctx context.Context, nodeID string, pct float64) (*allocation.Asset, error) {
	return s.edit(ctx, nodeID, func(t *allocation.Tree, id allocation.NodeID) (allocation.Asset, error) {
		return t.SetTargetPercent(id, pct)
	})
}

// SetTargetChf edits a chf-mode node's CHF amount and persists that node.
func (s *AllocationServiceImpl) SetTargetChf(ctx context.Context, nodeID string, chf float64) (*allocation.Asset, error) {
	return s.edit(ctx, nodeID, func(t *allocation.Tree, id allocation.NodeID) (allocation.Asset, error) {
		return t.SetTargetChf(id, chf)
	})
}

func (s *AllocationServiceImpl) edit(
	ctx context.Context,
	nodeID string,
	apply func(*allocation.Tree, allocation.NodeID) (allocation.Asset, error),
) (*allocation.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTree(ctx); err != nil {
		return nil, err
	}

	id := allocation.NodeID(nodeID)
	asset, err := apply(s.tree, id)
	if err != nil {
		return nil, err
	}

	update, err := s.tree.TargetOf(id)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, update); err != nil {
		// The in-memory edit no longer matches the ledger; reload on next access.
		s.tree = nil
		return nil, fmt.Errorf("failed to persist target %s: %w", nodeID, err)
	}

	s.bus.Publish("allocation", &events.AllocationTargetsChangedData{
		PortfolioID: s.portfolioID,
		Nodes:       []string{nodeID},
	})
	return &asset, nil
}

// SetMode stores a node's entry mode in the user preferences.
func (s *AllocationServiceImpl) SetMode(ctx context.Context, nodeID string, mode allocation.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := allocation.NodeID(nodeID)
	if _, _, err := id.Parse(); err != nil {
		return err
	}
	if _, err := allocation.ParseMode(string(mode)); err != nil {
		return err
	}
	if s.tree != nil {
		if err := s.tree.SetMode(id, mode); err != nil {
			return err
		}
	}
	if err := s.modes.SaveMode(ctx, nodeID, string(mode)); err != nil {
		return fmt.Errorf("failed to save entry mode: %w", err)
	}
	return nil
}

// PersistAll writes every node of the current tree and returns the number written.
func (s *AllocationServiceImpl) PersistAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTree(ctx); err != nil {
		return 0, err
	}

	var nodes []string
	for _, update := range s.tree.AllTargets() {
		if err := s.persist(ctx, update); err != nil {
			return len(nodes), err
		}
		nodes = append(nodes, string(updateNodeID(update)))
	}
	s.tree.MarkStored()

	s.bus.Publish("allocation", &events.AllocationTargetsChangedData{
		PortfolioID: s.portfolioID,
		Nodes:       nodes,
	})
	return len(nodes), nil
}

func (s *AllocationServiceImpl) ensureTree(ctx context.Context) error {
	if s.tree != nil {
		return nil
	}
	tree, err := s.reconcile(ctx)
	if err != nil {
		return err
	}
	s.tree = tree
	return nil
}

func (s *AllocationServiceImpl) view() *primary.AllocationView {
	return &primary.AllocationView{
		Tree:       s.tree,
		Validation: allocation.Validate(s.tree),
	}
}

func (s *AllocationServiceImpl) persist(ctx context.Context, update allocation.TargetUpdate) error {
	if update.SubClassID != 0 {
		return s.allocRepo.UpsertSubClassTarget(ctx, s.portfolioID, update.SubClassID, update.Percent, update.AmountChf)
	}
	return s.allocRepo.UpsertClassTarget(ctx, s.portfolioID, update.ClassID, update.Percent, update.AmountChf)
}

func (s *AllocationServiceImpl) reconcile(ctx context.Context) (*allocation.Tree, error) {
	input, err := s.loadInput(ctx)
	if err != nil {
		return nil, err
	}

	rates := newRateCache(ctx, s.rateRepo, s.baseCurrency, s.now())
	tree := allocation.Reconcile(*input, rates.Lookup)
	if rates.err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", rates.err)
	}

	for _, ex := range tree.Excluded {
		s.log.Warn().
			Str("position", ex.Label).
			Str("sub_class", ex.SubClass).
			Str("currency", ex.Currency).
			Str("reason", string(ex.Reason)).
			Msg("position excluded from allocation")
	}

	stored, err := s.modes.LoadModes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry modes: %w", err)
	}
	modes := make(map[allocation.NodeID]allocation.Mode, len(stored))
	for node, raw := range stored {
		mode, err := allocation.ParseMode(raw)
		if err != nil {
			s.log.Warn().Str("node", node).Str("mode", raw).Msg("ignoring unknown entry mode")
			continue
		}
		modes[allocation.NodeID(node)] = mode
	}
	tree.ApplyModes(modes)

	return tree, nil
}

func (s *AllocationServiceImpl) loadInput(ctx context.Context) (*allocation.ReconcileInput, error) {
	classes, err := s.allocRepo.ListAssetClasses(ctx)
	if err != nil {
		return nil, err
	}

	input := &allocation.ReconcileInput{BaseCurrency: s.baseCurrency}
	for _, c := range classes {
		input.Classes = append(input.Classes, allocation.AssetClass{ID: c.ID, Name: c.Name})

		subs, err := s.allocRepo.ListSubClasses(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, sc := range subs {
			input.SubClasses = append(input.SubClasses, allocation.SubClass{ID: sc.ID, ClassID: sc.ClassID, Name: sc.Name})
		}
	}

	targets, err := s.allocRepo.ListTargets(ctx, s.portfolioID)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		input.Targets = append(input.Targets, allocation.TargetRow{
			ClassID:    t.ClassID,
			SubClassID: t.SubClassID,
			Percent:    t.Percent,
			AmountChf:  t.AmountChf,
		})
	}

	positions, err := s.positionRepo.ListPositionReports(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range positions {
		input.Positions = append(input.Positions, allocation.Position{
			Label:        p.Label,
			SubClassName: p.SubClassName,
			Quantity:     p.Quantity,
			CurrentPrice: p.CurrentPrice,
			Currency:     p.Currency,
		})
	}

	return input, nil
}

func updateNodeID(u allocation.TargetUpdate) allocation.NodeID {
	if u.SubClassID != 0 {
		return allocation.SubNodeID(u.SubClassID)
	}
	return allocation.ClassNodeID(u.ClassID)
}

// Ensure AllocationServiceImpl implements the interface
var _ primary.AllocationService = (*AllocationServiceImpl)(nil)
