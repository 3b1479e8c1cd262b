package model

import "fmt"

// Selector picks the records of one dimension: either every record (the
// wildcard) or those whose normalized value equals a concrete category.
// The zero value is the wildcard.
type Selector struct {
	value    string
	concrete bool
}

// Wildcard matches every record, NA included
func Wildcard() Selector {
	return Selector{}
}

// Value matches records whose normalized field equals raw exactly.
// Value(NA) matches only records with a missing field.
func Value(raw string) Selector {
	return Selector{value: raw, concrete: true}
}

// IsWildcard reports whether the selector matches everything
func (s Selector) IsWildcard() bool {
	return !s.concrete
}

// Raw returns the concrete category value; ok is false for the wildcard
func (s Selector) Raw() (string, bool) {
	return s.value, s.concrete
}

// Matches reports whether a normalized field value passes the selector
func (s Selector) Matches(field string) bool {
	return !s.concrete || s.value == field
}

func (s Selector) String() string {
	if !s.concrete {
		return "*"
	}
	return fmt.Sprintf("%q", s.value)
}

// Selection holds one selector per dimension. The zero value selects everything.
type Selection [NumDimensions]Selector

// With returns a copy of the selection with dimension d set to sel
func (s Selection) With(d Dimension, sel Selector) Selection {
	if i := d.Index(); i >= 0 {
		s[i] = sel
	}
	return s
}

// Get returns the selector of dimension d
func (s Selection) Get(d Dimension) Selector {
	if i := d.Index(); i >= 0 {
		return s[i]
	}
	return Wildcard()
}

// Choice is one entry of a selector menu
type Choice struct {
	Label    string   `json:"label" yaml:"label"`
	Selector Selector `json:"-" yaml:"-"`
}

// Value returns the raw category value, or "" for the wildcard entry
func (c Choice) Value() string {
	v, _ := c.Selector.Raw()
	return v
}
