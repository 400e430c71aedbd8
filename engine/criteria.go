package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spektr-org/salespulse/schema"
)

// ============================================================================
// FILTER CRITERIA — the user's current selections, as a value
// ============================================================================
// Two membership conventions live side by side:
//   strict  (Genders, Seasons)  — empty set matches nothing
//   opt-in  (multiselects)      — empty set means "don't filter"
// Checkboxes are strict, multiselects are opt-in.
// ============================================================================

// Checkbox values.
const (
	GenderMale         = "male"
	GenderFemale       = "female"
	SeasonFallWinter   = "fall/winter"
	SeasonSpringSummer = "spring/summer"
)

// Age slider defaults.
const (
	DefaultAgeMin = 8
	DefaultAgeMax = 90
	AgeSliderMax  = 120
)

// AgeRange is a closed interval of whole years.
type AgeRange struct {
	Min int `json:"min" validate:"gte=0,lte=120"`
	Max int `json:"max" validate:"gte=0,lte=120,gtefield=Min"`
}

// DateRange is a closed interval of calendar days. The zero range is what
// DefaultCriteria yields when no order date parsed; it matches no record.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end" validate:"gtefield=Start"`
}

// FilterCriteria is the complete set of active constraints for one run.
type FilterCriteria struct {
	Ages    AgeRange  `json:"ages"`
	Genders []string  `json:"genders"`
	Seasons []string  `json:"seasons"`
	Dates   DateRange `json:"dates"`

	FullNames  []string `json:"fullNames,omitempty"`
	ItemNames  []string `json:"itemNames,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Textures   []string `json:"textures,omitempty"`
}

// DefaultCriteria returns the selections a fresh session starts with:
// ages 8–90, every checkbox ticked, the full observed order-date range and
// no multiselect restriction.
func DefaultCriteria(records []MergedRecord) FilterCriteria {
	start, end, _ := OrderDateBounds(records)
	return FilterCriteria{
		Ages:    AgeRange{Min: DefaultAgeMin, Max: DefaultAgeMax},
		Genders: []string{GenderMale, GenderFemale},
		Seasons: []string{SeasonFallWinter, SeasonSpringSummer},
		Dates:   DateRange{Start: start, End: end},
	}
}

// OrderDateBounds returns the earliest and latest valid order dates.
func OrderDateBounds(records []MergedRecord) (time.Time, time.Time, bool) {
	var lo, hi time.Time
	found := false
	for _, r := range records {
		if !r.OrderDate.Valid {
			continue
		}
		d := r.OrderDate.V
		if !found || d.Before(lo) {
			lo = d
		}
		if !found || d.After(hi) {
			hi = d
		}
		found = true
	}
	return lo, hi, found
}

// FilterOptions lists the values each control can offer, in first-seen order.
type FilterOptions struct {
	FullNames  []string  `json:"fullNames"`
	ItemNames  []string  `json:"itemNames"`
	Categories []string  `json:"categories"`
	Textures   []string  `json:"textures"`
	Genders    []string  `json:"genders"`
	Seasons    []string  `json:"seasons"`
	AgeMin     int       `json:"ageMin"`
	AgeMax     int       `json:"ageMax"`
	DateMin    time.Time `json:"dateMin"`
	DateMax    time.Time `json:"dateMax"`
}

// Options computes the selectable values from the merged set.
func Options(records []MergedRecord) FilterOptions {
	view := NewMergedView(records)
	lo, hi, _ := OrderDateBounds(records)
	return FilterOptions{
		FullNames:  UniqueValues(view, schema.ColFullName),
		ItemNames:  UniqueValues(view, schema.ColItemName),
		Categories: UniqueValues(view, schema.ColCategory),
		Textures:   UniqueValues(view, schema.ColPrinting),
		Genders:    []string{GenderMale, GenderFemale},
		Seasons:    []string{SeasonFallWinter, SeasonSpringSummer},
		AgeMin:     0,
		AgeMax:     AgeSliderMax,
		DateMin:    lo,
		DateMax:    hi,
	}
}

// ============================================================================
// VALIDATION
// ============================================================================

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks the ranges: 0 ≤ min ≤ max ≤ 120 and start ≤ end.
func (c FilterCriteria) Validate() error {
	var msgs []string
	for _, target := range []interface{}{c.Ages, c.Dates} {
		err := validate.Struct(target)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			msgs = append(msgs, validationMessage(fe))
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("invalid filter criteria: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	field := fe.StructNamespace()
	switch fe.Tag() {
	case "gte":
		return field + " must be at least " + fe.Param()
	case "lte":
		return field + " must be at most " + fe.Param()
	case "gtefield":
		return field + " must be greater than or equal to " + fe.Param()
	default:
		return field + " is invalid"
	}
}
