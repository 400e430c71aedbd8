package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/salespulse/engine"
	"github.com/spektr-org/salespulse/schema"
)

// CriteriaFile is a saved set of filter selections. Omitted keys keep the
// dataset defaults; an explicit empty list is kept as empty, so
// `genders: []` selects no gender at all.
//
//	ages: {min: 18, max: 40}
//	genders: [female]
//	dates: {start: 2024-03-01, end: 2024-06-30}
//	categories: [Tops, Dresses]
type CriteriaFile struct {
	Ages       *AgeSelection  `yaml:"ages"`
	Genders    []string       `yaml:"genders"`
	Seasons    []string       `yaml:"seasons"`
	Dates      *DateSelection `yaml:"dates"`
	FullNames  []string       `yaml:"full_names"`
	ItemNames  []string       `yaml:"item_names"`
	Categories []string       `yaml:"categories"`
	Textures   []string       `yaml:"textures"`

	set map[string]bool
}

// AgeSelection is the age slider.
type AgeSelection struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

// DateSelection is the order-date picker; any layout schema.ParseDate
// accepts is allowed.
type DateSelection struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// LoadCriteriaFile reads a YAML criteria file. Unknown keys are an error.
func LoadCriteriaFile(path string) (*CriteriaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCriteria(data)
}

// ParseCriteria decodes YAML criteria.
func ParseCriteria(data []byte) (*CriteriaFile, error) {
	cf := &CriteriaFile{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse criteria: %w", err)
	}

	// Record which keys were present so an explicit [] differs from absent.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse criteria: %w", err)
	}
	cf.set = make(map[string]bool, len(raw))
	for k := range raw {
		cf.set[k] = true
	}
	return cf, nil
}

// Apply overlays the file's selections on base and validates the result.
func (cf *CriteriaFile) Apply(base engine.FilterCriteria) (engine.FilterCriteria, error) {
	c := base

	if cf.Ages != nil {
		if cf.Ages.Min != nil {
			c.Ages.Min = *cf.Ages.Min
		}
		if cf.Ages.Max != nil {
			c.Ages.Max = *cf.Ages.Max
		}
	}
	if cf.Dates != nil {
		if cf.Dates.Start != "" {
			d, ok := schema.ParseDate(cf.Dates.Start)
			if !ok {
				return base, fmt.Errorf("criteria: dates.start %q is not a date", cf.Dates.Start)
			}
			c.Dates.Start = d
		}
		if cf.Dates.End != "" {
			d, ok := schema.ParseDate(cf.Dates.End)
			if !ok {
				return base, fmt.Errorf("criteria: dates.end %q is not a date", cf.Dates.End)
			}
			c.Dates.End = d
		}
	}

	overlay := func(key string, src []string, dst *[]string) {
		if cf.set[key] {
			*dst = append([]string{}, src...)
		}
	}
	overlay("genders", cf.Genders, &c.Genders)
	overlay("seasons", cf.Seasons, &c.Seasons)
	overlay("full_names", cf.FullNames, &c.FullNames)
	overlay("item_names", cf.ItemNames, &c.ItemNames)
	overlay("categories", cf.Categories, &c.Categories)
	overlay("textures", cf.Textures, &c.Textures)

	if err := c.Validate(); err != nil {
		return base, err
	}
	return c, nil
}
