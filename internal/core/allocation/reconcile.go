package allocation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AssetClass is reference data for a top-level class.
type AssetClass struct {
	ID   int64
	Name string
}

// SubClass is reference data for a sub-class of ClassID.
type SubClass struct {
	ID      int64
	ClassID int64
	Name    string
}

// TargetRow is one persisted target. Exactly one of ClassID / SubClassID is set.
// A nil AmountChf means no explicit CHF target; the percentage is authoritative.
type TargetRow struct {
	ClassID    *int64
	SubClassID *int64
	Percent    float64
	AmountChf  *float64
}

// Position is one row of the position report.
type Position struct {
	Label        string
	SubClassName string
	Quantity     float64
	CurrentPrice float64
	Currency     string
}

// RateFunc returns the rate converting one unit of currency into the base currency.
// Implementations are scoped to a single reconciliation pass.
type RateFunc func(currency string) (float64, bool)

// ReconcileInput holds all pre-fetched data for one reconciliation pass.
type ReconcileInput struct {
	BaseCurrency string
	Classes      []AssetClass
	SubClasses   []SubClass
	Targets      []TargetRow
	Positions    []Position
}

func nameKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Reconcile merges live positions with persisted targets into the allocation tree.
// Rules:
// - reference maps are built before any position is accumulated
// - position value = quantity × price, converted when its currency differs from base
// - positions with an unknown sub-class or no FX rate are excluded and reported
// - class actual% is relative to the portfolio total, sub actual% to the parent class actual
// - missing CHF targets default from the percentage (class: of total, sub: of parent target CHF)
func Reconcile(in ReconcileInput, rates RateFunc) *Tree {
	tree := &Tree{
		BaseCurrency: in.BaseCurrency,
		SubToClass:   make(map[int64]int64, len(in.SubClasses)),
	}

	// 1. Reference maps.
	classIDs := make(map[int64]bool, len(in.Classes))
	for _, c := range in.Classes {
		classIDs[c.ID] = true
	}
	subsByName := make(map[string]SubClass, len(in.SubClasses))
	subsByClass := make(map[int64][]SubClass)
	for _, s := range in.SubClasses {
		if !classIDs[s.ClassID] {
			continue
		}
		tree.SubToClass[s.ID] = s.ClassID
		subsByClass[s.ClassID] = append(subsByClass[s.ClassID], s)
		if _, dup := subsByName[nameKey(s.Name)]; !dup {
			subsByName[nameKey(s.Name)] = s
		}
	}

	// 2. Target maps.
	classTargetPct := map[int64]float64{}
	classTargetChf := map[int64]float64{}
	subTargetPct := map[int64]float64{}
	subTargetChf := map[int64]float64{}
	for _, row := range in.Targets {
		switch {
		case row.ClassID != nil:
			classTargetPct[*row.ClassID] = row.Percent
			if row.AmountChf != nil {
				classTargetChf[*row.ClassID] = *row.AmountChf
			}
		case row.SubClassID != nil:
			subTargetPct[*row.SubClassID] = row.Percent
			if row.AmountChf != nil {
				subTargetChf[*row.SubClassID] = *row.AmountChf
			}
		}
	}

	// 3. Actuals.
	subActual := map[int64]decimal.Decimal{}
	classActual := map[int64]decimal.Decimal{}
	total := decimal.Zero
	for _, p := range in.Positions {
		sub, ok := subsByName[nameKey(p.SubClassName)]
		if !ok {
			tree.Excluded = append(tree.Excluded, excluded(p, ExcludedUnresolvedSubClass))
			continue
		}

		value := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(p.CurrentPrice))
		if !sameCurrency(p.Currency, in.BaseCurrency) {
			rate, ok := rates(strings.ToUpper(strings.TrimSpace(p.Currency)))
			if !ok {
				tree.Excluded = append(tree.Excluded, excluded(p, ExcludedMissingFXRate))
				continue
			}
			value = value.Mul(decimal.NewFromFloat(rate))
		}

		subActual[sub.ID] = subActual[sub.ID].Add(value)
		classActual[sub.ClassID] = classActual[sub.ClassID].Add(value)
		total = total.Add(value)
	}
	tree.Total = total.InexactFloat64()

	// 4. Nodes.
	for _, c := range in.Classes {
		actual := classActual[c.ID].InexactFloat64()
		node := ClassNode{
			ClassID: c.ID,
			Asset: Asset{
				ID:        ClassNodeID(c.ID),
				Name:      c.Name,
				ActualChf: actual,
				TargetPct: classTargetPct[c.ID],
				Mode:      ModePercent,
			},
		}
		if tree.Total > 0 {
			node.ActualPct = actual / tree.Total * 100
		}
		if chf, ok := classTargetChf[c.ID]; ok {
			node.TargetChf = chf
		} else {
			node.TargetChf = node.TargetPct * tree.Total / 100
		}

		for _, s := range subsByClass[c.ID] {
			subValue := subActual[s.ID].InexactFloat64()
			sn := SubNode{
				SubClassID: s.ID,
				ClassID:    c.ID,
				Asset: Asset{
					ID:        SubNodeID(s.ID),
					Name:      s.Name,
					ActualChf: subValue,
					TargetPct: subTargetPct[s.ID],
					Mode:      ModePercent,
				},
			}
			if actual > 0 {
				sn.ActualPct = subValue / actual * 100
			}
			if chf, ok := subTargetChf[s.ID]; ok {
				sn.TargetChf = chf
			} else {
				sn.TargetChf = node.TargetChf * sn.TargetPct / 100
				sn.DefaultChf = true
			}
			node.Subs = append(node.Subs, sn)
		}

		tree.Classes = append(tree.Classes, node)
	}

	return tree
}

func sameCurrency(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func excluded(p Position, reason ExclusionReason) ExcludedPosition {
	return ExcludedPosition{
		Label:    p.Label,
		SubClass: p.SubClassName,
		Currency: p.Currency,
		Reason:   reason,
	}
}
