package model

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownLabel is returned when a truth label is not one of the six known values
var ErrUnknownLabel = errors.New("unknown truth label")

// Label is the truth rating attached to a statement
type Label string

const (
	LabelPantsFire  Label = "pants-fire"
	LabelFalse      Label = "false"
	LabelBarelyTrue Label = "barely-true"
	LabelHalfTrue   Label = "half-true"
	LabelMostlyTrue Label = "mostly-true"
	LabelTrue       Label = "true"
)

// Labels lists the truth labels in display order
var Labels = [NumLabels]Label{
	LabelPantsFire,
	LabelFalse,
	LabelBarelyTrue,
	LabelHalfTrue,
	LabelMostlyTrue,
	LabelTrue,
}

// NumLabels is the number of truth labels (and label buckets)
const NumLabels = 6

// ParseLabel normalizes and validates a raw label value
func ParseLabel(raw string) (Label, error) {
	l := Label(strings.ToLower(strings.TrimSpace(raw)))
	if !l.Valid() {
		return "", errors.Wrapf(ErrUnknownLabel, "%q", raw)
	}
	return l, nil
}

// Valid reports whether l is one of the six known labels
func (l Label) Valid() bool {
	return l.Index() >= 0
}

// Index returns the display position of the label, or -1 if unknown
func (l Label) Index() int {
	for i, known := range Labels {
		if l == known {
			return i
		}
	}
	return -1
}

// DisplayName returns the human-readable name used in menus and legends
func (l Label) DisplayName() string {
	switch l {
	case LabelPantsFire:
		return "Pants on fire"
	case LabelFalse:
		return "False"
	case LabelBarelyTrue:
		return "Barely true"
	case LabelHalfTrue:
		return "Half true"
	case LabelMostlyTrue:
		return "Mostly true"
	case LabelTrue:
		return "True"
	default:
		return string(l)
	}
}

// LabelSelector restricts a query to one truth label or admits all of them.
// The zero value admits all labels.
type LabelSelector struct {
	label Label
}

// AllLabels admits every truth label
func AllLabels() LabelSelector {
	return LabelSelector{}
}

// OnlyLabel restricts a query to a single truth label
func OnlyLabel(l Label) LabelSelector {
	return LabelSelector{label: l}
}

// IsAll reports whether the selector admits every label
func (s LabelSelector) IsAll() bool {
	return s.label == ""
}

// Label returns the restricting label; ok is false for AllLabels
func (s LabelSelector) Label() (Label, bool) {
	return s.label, s.label != ""
}

// Admits reports whether a record carrying l passes the selector
func (s LabelSelector) Admits(l Label) bool {
	return s.IsAll() || s.label == l
}

func (s LabelSelector) String() string {
	if s.IsAll() {
		return "all labels"
	}
	return string(s.label)
}

// ParseLabelSelector accepts "all", "all_labels", "" or a concrete label,
// either raw ("pants-fire") or by display name ("Pants on fire")
func ParseLabelSelector(raw string) (LabelSelector, error) {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "all", "all_labels", "all labels":
		return AllLabels(), nil
	}
	for _, l := range Labels {
		if strings.EqualFold(l.DisplayName(), trimmed) {
			return OnlyLabel(l), nil
		}
	}
	l, err := ParseLabel(raw)
	if err != nil {
		return LabelSelector{}, err
	}
	return OnlyLabel(l), nil
}
