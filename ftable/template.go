// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ftable

import (
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/flatfile/location"
	"github.com/pkg/errors"
)

// Property is a feature qualifier. Value is a string, or the bool true for
// a qualifier written without a value.
type Property struct {
	Key   string
	Value interface{}
}

// Template is an assembled feature: its key, location and qualifiers in the
// order they appear. Qualifier keys may repeat.
type Template struct {
	Type       string
	Loc        location.Stranded
	Properties []Property
}

// Get returns the values of all qualifiers with the given key.
func (t *Template) Get(key string) []interface{} {
	var v []interface{}
	for _, p := range t.Properties {
		if p.Key == key {
			v = append(v, p.Value)
		}
	}
	return v
}

// Has returns whether the template has a qualifier with the given key.
func (t *Template) Has(key string) bool {
	for _, p := range t.Properties {
		if p.Key == key {
			return true
		}
	}
	return false
}

// nameKeys are the qualifiers used to name a feature, in priority order.
var nameKeys = []string{"gene", "locus_tag", "label", "product"}

// Name returns the value of the first naming qualifier present, or the
// feature type.
func (t *Template) Name() string {
	for _, k := range nameKeys {
		for _, v := range t.Get(k) {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return t.Type
}

// Description returns the feature type.
func (t *Template) Description() string { return t.Type }

// Start returns the zero-based start of the feature's bounded extent.
func (t *Template) Start() int {
	min, _ := location.Bounds(t.Loc.Location)
	return feat.OneToZero(min)
}

// End returns the zero-based end, exclusive, of the feature's bounded extent.
func (t *Template) End() int {
	_, max := location.Bounds(t.Loc.Location)
	return max
}

// Len returns the length of the feature's bounded extent.
func (t *Template) Len() int { return t.End() - t.Start() }

// Location returns nil; templates are not placed on a parent feature.
func (t *Template) Location() feat.Feature { return nil }

// Orientation returns the orientation of the feature's strand.
func (t *Template) Orientation() feat.Orientation {
	switch t.Loc.Strand {
	case seq.Plus:
		return feat.Forward
	case seq.Minus:
		return feat.Reverse
	}
	return feat.NotOriented
}

var (
	_ feat.Feature  = (*Template)(nil)
	_ feat.Orienter = (*Template)(nil)
)

// Collector is a Listener that collects assembled features.
type Collector struct {
	Features []*Template

	current *Template
}

// StartFeature begins a new feature template.
func (c *Collector) StartFeature(typ string, loc location.Stranded) error {
	if c.current != nil {
		return errors.Errorf("ftable: feature %s started inside %s", typ, c.current.Type)
	}
	c.current = &Template{Type: typ, Loc: loc}
	return nil
}

// AddFeatureProperty adds a qualifier to the current feature template.
func (c *Collector) AddFeatureProperty(key string, value interface{}) error {
	if c.current == nil {
		return errors.Errorf("ftable: qualifier %s outside a feature", key)
	}
	c.current.Properties = append(c.current.Properties, Property{Key: key, Value: value})
	return nil
}

// EndFeature completes the current feature template.
func (c *Collector) EndFeature() error {
	if c.current == nil {
		return errors.New("ftable: feature ended without start")
	}
	c.Features = append(c.Features, c.current)
	c.current = nil
	return nil
}

// Reset discards collected features.
func (c *Collector) Reset() {
	c.Features = nil
	c.current = nil
}
