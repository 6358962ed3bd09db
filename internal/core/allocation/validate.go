package allocation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Severity is the display level of a validation outcome.
type Severity string

const (
	SeverityOK        Severity = "ok"
	SeverityAttention Severity = "attention" // orange
	SeverityInvalid   Severity = "invalid"   // red
)

// ClassValidity is the sub-class consistency check for one class.
type ClassValidity struct {
	ClassID        int64
	Node           NodeID
	Name           string
	Checked        bool
	PctValid       bool
	ChfValid       bool
	SubPctSum      float64
	SubChfSum      float64
	NeedsAttention bool
	Issues         []string
}

// Severity folds the flags into one display level. Invalid beats attention.
func (v ClassValidity) Severity() Severity {
	if !v.PctValid || !v.ChfValid {
		return SeverityInvalid
	}
	if v.NeedsAttention {
		return SeverityAttention
	}
	return SeverityOK
}

// RowWarning flags a single node.
type RowWarning struct {
	Node    NodeID
	Name    string
	Message string
}

// Validation is the result of the second reconciliation pass.
type Validation struct {
	Classes []ClassValidity
	Rows    []RowWarning
}

// Class returns the validity of one class node.
func (v Validation) Class(id NodeID) (ClassValidity, bool) {
	for _, c := range v.Classes {
		if c.Node == id {
			return c, true
		}
	}
	return ClassValidity{}, false
}

// Valid reports whether no class is invalid.
func (v Validation) Valid() bool {
	for _, c := range v.Classes {
		if c.Severity() == SeverityInvalid {
			return false
		}
	}
	return true
}

// RowWarningMessage is shown for nodes holding value without any target.
const RowWarningMessage = "has actual but no target defined"

// Validate checks sub-class targets against their class targets.
// Rules:
// - a class whose percent and CHF targets are both zero is not checked
// - a class without sub-classes is not checked
// - percent sum must be within 100 ± PctTolerance
// - CHF sum must be within ±ChfToleranceRatio of the class CHF target
// - a zero-target class whose children carry targets or actuals needs attention
// - any node with a positive actual and no target gets a row warning
func Validate(tree *Tree) Validation {
	var out Validation

	for _, c := range tree.Classes {
		v := ClassValidity{
			ClassID:  c.ClassID,
			Node:     c.ID,
			Name:     c.Name,
			PctValid: true,
			ChfValid: true,
		}

		pcts := make([]float64, 0, len(c.Subs))
		chfs := make([]float64, 0, len(c.Subs))
		childActivity := false
		for _, s := range c.Subs {
			pcts = append(pcts, s.TargetPct)
			chfs = append(chfs, s.TargetChf)
			if s.HasTarget() || !IsZeroChf(s.ActualChf) {
				childActivity = true
			}
		}
		v.SubPctSum = floats.Sum(pcts)
		v.SubChfSum = floats.Sum(chfs)

		if !c.HasTarget() {
			if childActivity {
				v.NeedsAttention = true
				v.Issues = append(v.Issues, "class has no target but its sub-classes carry targets or holdings")
			}
		} else if len(c.Subs) > 0 {
			v.Checked = true
			if math.Abs(v.SubPctSum-100) > PctTolerance {
				v.PctValid = false
				v.Issues = append(v.Issues, fmt.Sprintf("sub-class targets sum to %.2f%% (expected 100%% ± %.0f)", v.SubPctSum, PctTolerance))
			}
			tolerance := ChfToleranceRatio * math.Abs(c.TargetChf)
			if math.Abs(v.SubChfSum-c.TargetChf) > tolerance+1e-9 {
				v.ChfValid = false
				v.Issues = append(v.Issues, fmt.Sprintf("sub-class CHF targets sum to %.2f vs class target %.2f (± %.0f%%)", v.SubChfSum, c.TargetChf, ChfToleranceRatio*100))
			}
		}

		out.Classes = append(out.Classes, v)

		if needsRowWarning(c.Asset) {
			out.Rows = append(out.Rows, RowWarning{Node: c.ID, Name: c.Name, Message: RowWarningMessage})
		}
		for _, s := range c.Subs {
			if needsRowWarning(s.Asset) {
				out.Rows = append(out.Rows, RowWarning{Node: s.ID, Name: s.Name, Message: RowWarningMessage})
			}
		}
	}

	return out
}

func needsRowWarning(a Asset) bool {
	return a.ActualChf > 0 && !IsZeroChf(a.ActualChf) && !a.HasTarget()
}
