// Package allocation contains the pure allocation target reconciliation engine.
// This is part of the Functional Core - no I/O, only pure functions.
package allocation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Zero thresholds. Every zero-ness test in this package goes through
// IsZeroPct / IsZeroChf so both reconciliation passes flag consistently.
const (
	PctEpsilon = 0.0001
	ChfEpsilon = 0.01
)

// Validation tolerances.
const (
	PctTolerance      = 1.0  // sub-class percent sum must be within 100 ± 1
	ChfToleranceRatio = 0.01 // sub-class CHF sum must be within ±1% of the class target
)

// IsZeroPct reports whether a percentage is zero within PctEpsilon.
func IsZeroPct(x float64) bool { return math.Abs(x) < PctEpsilon }

// IsZeroChf reports whether an amount is zero within ChfEpsilon.
func IsZeroChf(x float64) bool { return math.Abs(x) < ChfEpsilon }

// Mode selects which target field is the user's editable source of truth.
type Mode string

const (
	ModePercent Mode = "percent"
	ModeChf     Mode = "chf"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePercent, "pct", "%":
		return ModePercent, nil
	case ModeChf:
		return ModeChf, nil
	}
	return "", fmt.Errorf("unknown entry mode %q (want percent or chf)", s)
}

// NodeKind distinguishes asset classes from sub-classes.
type NodeKind string

const (
	KindClass NodeKind = "class"
	KindSub   NodeKind = "sub"
)

// NodeID is the composite tag "class-{id}" or "sub-{id}".
type NodeID string

// ClassNodeID returns the tag of an asset class.
func ClassNodeID(id int64) NodeID { return NodeID(fmt.Sprintf("class-%d", id)) }

// SubNodeID returns the tag of a sub-class.
func SubNodeID(id int64) NodeID { return NodeID(fmt.Sprintf("sub-%d", id)) }

// Parse splits a node tag into its kind and numeric id.
func (n NodeID) Parse() (NodeKind, int64, error) {
	kind, raw, ok := strings.Cut(string(n), "-")
	if !ok || (NodeKind(kind) != KindClass && NodeKind(kind) != KindSub) {
		return "", 0, fmt.Errorf("invalid node id %q (want class-<id> or sub-<id>)", n)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid node id %q (want class-<id> or sub-<id>)", n)
	}
	return NodeKind(kind), id, nil
}

// Asset is one node of the allocation tree.
type Asset struct {
	ID        NodeID
	Name      string
	ActualPct float64
	ActualChf float64
	TargetPct float64
	TargetChf float64
	Mode      Mode
}

// DeviationPct is target minus actual percentage.
func (a Asset) DeviationPct() float64 { return a.TargetPct - a.ActualPct }

// DeviationChf is target minus actual amount.
func (a Asset) DeviationChf() float64 { return a.TargetChf - a.ActualChf }

// HasTarget reports whether either target field is non-zero.
func (a Asset) HasTarget() bool { return !IsZeroPct(a.TargetPct) || !IsZeroChf(a.TargetChf) }

// SubNode is a sub-class under exactly one class.
// DefaultChf is set while TargetChf is derived from the parent target
// because no amount is stored for the sub-class.
type SubNode struct {
	Asset
	SubClassID int64
	ClassID    int64
	DefaultChf bool
}

// ClassNode is an asset class with its sub-classes in reference order.
type ClassNode struct {
	Asset
	ClassID int64
	Subs    []SubNode
}

// ExclusionReason explains why a position was left out of the aggregates.
type ExclusionReason string

const (
	ExcludedUnresolvedSubClass ExclusionReason = "unresolved_sub_class"
	ExcludedMissingFXRate      ExclusionReason = "missing_fx_rate"
)

// ExcludedPosition records a position that did not contribute to any total.
type ExcludedPosition struct {
	Label    string
	SubClass string
	Currency string
	Reason   ExclusionReason
}

// Tree is the reconciled allocation hierarchy.
type Tree struct {
	BaseCurrency string
	Total        float64
	Classes      []ClassNode
	SubToClass   map[int64]int64
	Excluded     []ExcludedPosition
}

// TargetUpdate is the persisted form of one node's target.
// Exactly one of ClassID / SubClassID is set.
type TargetUpdate struct {
	ClassID    int64
	SubClassID int64
	Percent    float64
	AmountChf  float64
}

// locate finds a node. sub is nil for class nodes.
func (t *Tree) locate(id NodeID) (*ClassNode, *SubNode, error) {
	kind, num, err := id.Parse()
	if err != nil {
		return nil, nil, err
	}
	switch kind {
	case KindClass:
		for i := range t.Classes {
			if t.Classes[i].ClassID == num {
				return &t.Classes[i], nil, nil
			}
		}
	case KindSub:
		classID, ok := t.SubToClass[num]
		if !ok {
			break
		}
		for i := range t.Classes {
			if t.Classes[i].ClassID != classID {
				continue
			}
			for j := range t.Classes[i].Subs {
				if t.Classes[i].Subs[j].SubClassID == num {
					return &t.Classes[i], &t.Classes[i].Subs[j], nil
				}
			}
		}
	}
	return nil, nil, fmt.Errorf("allocation node %s not found", id)
}

// Node returns a copy of the node with the given tag.
func (t *Tree) Node(id NodeID) (Asset, error) {
	class, sub, err := t.locate(id)
	if err != nil {
		return Asset{}, err
	}
	if sub != nil {
		return sub.Asset, nil
	}
	return class.Asset, nil
}

// TargetOf returns the persisted form of a node's current target.
func (t *Tree) TargetOf(id NodeID) (TargetUpdate, error) {
	class, sub, err := t.locate(id)
	if err != nil {
		return TargetUpdate{}, err
	}
	if sub != nil {
		return TargetUpdate{SubClassID: sub.SubClassID, Percent: sub.TargetPct, AmountChf: sub.TargetChf}, nil
	}
	return TargetUpdate{ClassID: class.ClassID, Percent: class.TargetPct, AmountChf: class.TargetChf}, nil
}

// AllTargets returns the persisted form of every node, classes before their subs.
func (t *Tree) AllTargets() []TargetUpdate {
	var out []TargetUpdate
	for _, c := range t.Classes {
		out = append(out, TargetUpdate{ClassID: c.ClassID, Percent: c.TargetPct, AmountChf: c.TargetChf})
		for _, s := range c.Subs {
			out = append(out, TargetUpdate{SubClassID: s.SubClassID, Percent: s.TargetPct, AmountChf: s.TargetChf})
		}
	}
	return out
}

// ApplyModes sets each node's entry mode from the preferences map.
// Nodes without a preference default to percent.
func (t *Tree) ApplyModes(modes map[NodeID]Mode) {
	for i := range t.Classes {
		t.Classes[i].Mode = modeOr(modes[t.Classes[i].ID])
		for j := range t.Classes[i].Subs {
			t.Classes[i].Subs[j].Mode = modeOr(modes[t.Classes[i].Subs[j].ID])
		}
	}
}

func modeOr(m Mode) Mode {
	if m == "" {
		return ModePercent
	}
	return m
}
