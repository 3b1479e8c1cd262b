package model

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownDimension is returned for a dimension name outside the six filterable fields
var ErrUnknownDimension = errors.New("unknown dimension")

// Dimension names one of the six categorical, filterable fields of a statement
type Dimension string

const (
	DimSubject    Dimension = "subject"
	DimSpeaker    Dimension = "speaker"
	DimProfession Dimension = "profession"
	DimState      Dimension = "state"
	DimParty      Dimension = "party"
	DimContext    Dimension = "context"
)

// Dimensions lists the filterable dimensions in selector order
var Dimensions = [NumDimensions]Dimension{
	DimSubject,
	DimSpeaker,
	DimProfession,
	DimState,
	DimParty,
	DimContext,
}

// NumDimensions is the number of filterable dimensions
const NumDimensions = 6

// ParseDimension validates a dimension name (case-insensitive)
func ParseDimension(raw string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(raw)))
	if d.Index() < 0 {
		return "", errors.WithHint(
			errors.Wrapf(ErrUnknownDimension, "%q", raw),
			"valid dimensions: subject, speaker, profession, state, party, context",
		)
	}
	return d, nil
}

// Index returns the field slot of the dimension, or -1 if unknown
func (d Dimension) Index() int {
	for i, known := range Dimensions {
		if d == known {
			return i
		}
	}
	return -1
}

// Plural is used for the wildcard menu entry ("All parties")
func (d Dimension) Plural() string {
	if d == DimParty {
		return "parties"
	}
	return string(d) + "s"
}

// WildcardLabel is the display label of the synthetic "match everything" entry
func (d Dimension) WildcardLabel() string {
	return "All " + d.Plural()
}
