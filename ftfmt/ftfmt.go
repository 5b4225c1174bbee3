// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/flatfile/featindex"
	"github.com/biogo/flatfile/flat"
	"github.com/biogo/flatfile/ftable"
	"github.com/biogo/flatfile/location"
	"github.com/biogo/store/step"
)

type style int

const (
	emblStyle style = iota
	genbankStyle
	gffStyle
)

func parseStyle(s string) (style, error) {
	switch s {
	case "embl":
		return emblStyle, nil
	case "genbank", "gb":
		return genbankStyle, nil
	case "gff":
		return gffStyle, nil
	}
	return 0, fmt.Errorf("unknown output format %q", s)
}

// selectFeatures indexes the features of rec and returns those overlapping
// region, or all of them if region is nil.
func selectFeatures(rec *flat.Record, region location.Location) ([]*ftable.Template, *featindex.Index, error) {
	var x featindex.Index
	for _, f := range rec.Features {
		if err := x.Insert(f); err != nil {
			return nil, nil, err
		}
	}
	if region == nil {
		return rec.Features, &x, nil
	}
	return x.Overlapping(region), &x, nil
}

// writeTable writes the features of a record as a flat file feature table
// in the given style, wrapped in a minimal record so that the output can be
// read back.
func writeTable(w io.Writer, name string, feats []*ftable.Template, s style, width int) error {
	var head, prefix, tail string
	switch s {
	case emblStyle:
		head = fmt.Sprintf("ID   %s;\nFH   Key             Location/Qualifiers\nFH\n", name)
		prefix = ftable.EMBLPrefix
		tail = "//\n"
	case genbankStyle:
		head = fmt.Sprintf("LOCUS       %s\nFEATURES             Location/Qualifiers\n", name)
		prefix = ftable.GenBankPrefix
		tail = "//\n"
	default:
		panic("ftfmt: invalid table style")
	}
	if _, err := io.WriteString(w, head); err != nil {
		return err
	}
	fw := ftable.NewWriter(w, prefix, width)
	for _, f := range feats {
		if _, err := fw.Write(f); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, tail)
	return err
}

// writeGFF writes one GFF line for each top-level segment of each feature.
// Qualifiers become GFF attributes.
func writeGFF(w *gff.Writer, name string, feats []*ftable.Template) error {
	for _, f := range feats {
		var attrs gff.Attributes
		for _, p := range f.Properties {
			var v string
			if s, ok := p.Value.(string); ok {
				v = `"` + s + `"`
			}
			attrs = append(attrs, gff.Attribute{Tag: p.Key, Value: v})
		}
		for _, seg := range location.Segments(f.Loc.Location) {
			min, max := location.Bounds(seg)
			_, err := w.Write(&gff.Feature{
				SeqName:        name,
				Source:         "ftfmt",
				Feature:        f.Type,
				FeatStart:      feat.OneToZero(min),
				FeatEnd:        max,
				FeatStrand:     f.Loc.Strand,
				FeatFrame:      gff.NoFrame,
				FeatAttributes: attrs,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// coverage returns the feature depth over a record. Records without
// sequence are measured to the end of their last feature.
func coverage(rec *flat.Record, x *featindex.Index) (*step.Vector, error) {
	length := rec.Seq.Len()
	if length == 0 {
		for _, f := range rec.Features {
			if e := f.End(); e > length {
				length = e
			}
		}
	}
	if length == 0 {
		return nil, nil
	}
	return x.Coverage(length)
}

// writeCoverage writes a table of feature coverage for each record.
func writeCoverage(w io.Writer, cov map[string]*step.Vector) error {
	const mapLen = 40

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "record\tlength\tcovered\tmax depth\tmap")

	names := make([]string, 0, len(cov))
	for n := range cov {
		names = append(names, n)
	}
	sort.Strings(names)

	m := make([]byte, mapLen)
	for _, n := range names {
		v := cov[n]
		for i := range m {
			m[i] = '-'
		}
		var covered, maxDepth int
		scale := mapLen / float64(v.Len())
		v.Do(func(start, end int, e step.Equaler) {
			d := int(e.(featindex.Depth))
			if d == 0 {
				return
			}
			covered += end - start
			if d > maxDepth {
				maxDepth = d
			}
			if d > 9 {
				d = 9
			}
			c := byte('0' + d)
			for j := int(float64(start) * scale); j < int(float64(end)*scale+0.5) && j < mapLen; j++ {
				if m[j] < c {
					m[j] = c
				}
			}
		})
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", n, v.Len(), covered, maxDepth, m)
	}
	return tw.Flush()
}
