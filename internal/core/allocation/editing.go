package allocation

import (
	"errors"
	"fmt"
)

// ErrModeMismatch is returned when a node is edited through the field its
// entry mode derives rather than the one it edits.
var ErrModeMismatch = errors.New("target field does not match entry mode")

// base returns the amount a node's percentage is relative to:
// the portfolio total for a class, the parent's CHF target for a sub-class.
func (t *Tree) base(class *ClassNode, sub *SubNode) float64 {
	if sub != nil {
		return class.TargetChf
	}
	return t.Total
}

// editable locates a node and checks that mode is its entry mode.
func (t *Tree) editable(id NodeID, mode Mode) (*ClassNode, *SubNode, *Asset, error) {
	class, sub, err := t.locate(id)
	if err != nil {
		return nil, nil, nil, err
	}
	node := &class.Asset
	if sub != nil {
		node = &sub.Asset
	}
	if modeOr(node.Mode) != mode {
		return nil, nil, nil, fmt.Errorf("%s is in %s mode, edit its %s target or switch mode: %w",
			id, modeOr(node.Mode), modeOr(node.Mode), ErrModeMismatch)
	}
	return class, sub, node, nil
}

// SetTargetPercent edits a percent-mode node's percentage and derives its CHF target.
func (t *Tree) SetTargetPercent(id NodeID, pct float64) (Asset, error) {
	if pct < 0 {
		return Asset{}, fmt.Errorf("target percent must not be negative, got %.2f", pct)
	}
	class, sub, node, err := t.editable(id, ModePercent)
	if err != nil {
		return Asset{}, err
	}

	node.TargetPct = pct
	node.TargetChf = pct * t.base(class, sub) / 100
	t.edited(class, sub)
	return *node, nil
}

// SetTargetChf edits a chf-mode node's CHF amount and derives its percentage.
// A zero base leaves the percentage at zero.
func (t *Tree) SetTargetChf(id NodeID, chf float64) (Asset, error) {
	if chf < 0 {
		return Asset{}, fmt.Errorf("target amount must not be negative, got %.2f", chf)
	}
	class, sub, node, err := t.editable(id, ModeChf)
	if err != nil {
		return Asset{}, err
	}

	node.TargetChf = chf
	if b := t.base(class, sub); b > 0 {
		node.TargetPct = chf / b * 100
	} else {
		node.TargetPct = 0
	}
	t.edited(class, sub)
	return *node, nil
}

// edited updates derived state after a target edit. An edited sub-class now
// has a stored amount; a class edit moves the default amount of every sub
// that has none, as a fresh Reconcile would.
func (t *Tree) edited(class *ClassNode, sub *SubNode) {
	if sub != nil {
		sub.DefaultChf = false
		return
	}
	for i := range class.Subs {
		s := &class.Subs[i]
		if s.DefaultChf {
			s.TargetChf = class.TargetChf * s.TargetPct / 100
		}
	}
}

// MarkStored records that every node's target amount is now persisted.
func (t *Tree) MarkStored() {
	for i := range t.Classes {
		for j := range t.Classes[i].Subs {
			t.Classes[i].Subs[j].DefaultChf = false
		}
	}
}

// SetMode records the entry mode of one node.
func (t *Tree) SetMode(id NodeID, mode Mode) error {
	if mode != ModePercent && mode != ModeChf {
		return fmt.Errorf("unknown entry mode %q", mode)
	}
	class, sub, err := t.locate(id)
	if err != nil {
		return err
	}
	if sub != nil {
		sub.Mode = mode
	} else {
		class.Mode = mode
	}
	return nil
}
