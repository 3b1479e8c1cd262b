package model

// NA is substituted for missing categorical values. Real category values are
// lowercased on load, so the uppercase sentinel never collides with them.
const NA = "NA"

// Record is one labeled statement of the corpus
type Record struct {
	ID    string `json:"statement_id"`
	Label Label  `json:"label"`
	Text  string `json:"statement"` // Free-form, never normalized or filtered on

	// Fields holds the six categorical dimensions, indexed like Dimensions.
	// Each entry is NA or a trimmed, lowercased, non-empty string.
	Fields [NumDimensions]string `json:"fields"`

	History CreditHistory `json:"history"`
}

// Field returns the normalized value of dimension d
func (r *Record) Field(d Dimension) string {
	if i := d.Index(); i >= 0 {
		return r.Fields[i]
	}
	return NA
}

// CreditHistory is the speaker's historical truth-telling record shipped with
// each statement. Carried through loading, not used by the aggregation core.
type CreditHistory struct {
	BarelyTrue  int `json:"barely_true"`
	False       int `json:"false"`
	HalfTrue    int `json:"half_true"`
	MostlyTrue  int `json:"mostly_true"`
	PantsOnFire int `json:"pants_on_fire"`
}

// Category is one of the seven display categories: the six labels plus "others"
type Category int

const (
	CatPantsFire Category = iota
	CatFalse
	CatBarelyTrue
	CatHalfTrue
	CatMostlyTrue
	CatTrue
	CatOthers
)

// NumCategories is the number of display categories
const NumCategories = NumLabels + 1

// Categories lists the display categories in fixed rendering order
var Categories = [NumCategories]Category{
	CatPantsFire, CatFalse, CatBarelyTrue, CatHalfTrue, CatMostlyTrue, CatTrue, CatOthers,
}

// Label returns the truth label of the category; ok is false for CatOthers
func (c Category) Label() (Label, bool) {
	if c < 0 || int(c) >= NumLabels {
		return "", false
	}
	return Labels[c], true
}

// DisplayName is the legend text of the category
func (c Category) DisplayName() string {
	if l, ok := c.Label(); ok {
		return l.DisplayName()
	}
	return "Excluded"
}

func (c Category) String() string {
	if l, ok := c.Label(); ok {
		return string(l)
	}
	return "others"
}
