// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/flatfile/flat"
	"github.com/biogo/flatfile/location"
	"github.com/biogo/store/step"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

const record = `LOCUS       TEST1                     30 bp    DNA
FEATURES             Location/Qualifiers
     gene            1..20
                     /gene="alpha"
     CDS             complement(join(2..5,11..18))
                     /gene="alpha"
                     /pseudo
     misc_feature    25^26
ORIGIN
        1 acgtacgtac gtacgtacgt acgtacgtac
//
`

func readRecord(c *check.C, text string) *flat.Record {
	rec, err := flat.NewReader(strings.NewReader(text)).Read()
	c.Assert(err, check.Equals, nil)
	return rec
}

func (s *S) TestTableRoundTrip(c *check.C) {
	rec := readRecord(c, record)
	for _, st := range []style{emblStyle, genbankStyle} {
		var buf bytes.Buffer
		c.Assert(writeTable(&buf, rec.Name, rec.Features, st, 80), check.Equals, nil)

		got := readRecord(c, buf.String())
		c.Check(got.Name, check.Equals, "TEST1")
		c.Assert(got.Features, check.HasLen, len(rec.Features))
		for i, f := range got.Features {
			c.Check(f.Type, check.Equals, rec.Features[i].Type)
			c.Check(f.Loc.String(), check.Equals, rec.Features[i].Loc.String())
			c.Check(f.Properties, check.DeepEquals, rec.Features[i].Properties)
		}
	}
}

func (s *S) TestRegion(c *check.C) {
	rec := readRecord(c, record)
	for i, t := range []struct {
		region string
		want   []string
	}{
		{"6..10", []string{"gene"}},
		{"3", []string{"gene", "CDS"}},
		{"join(19..20,26)", []string{"gene", "misc_feature"}},
		{"27..30", nil},
	} {
		feats, _, err := selectFeatures(rec, location.MustParse(t.region).Location)
		c.Assert(err, check.Equals, nil)
		var got []string
		for _, f := range feats {
			got = append(got, f.Type)
		}
		c.Check(got, check.DeepEquals, t.want, check.Commentf("Test %d: %s", i, t.region))
	}
	feats, _, err := selectFeatures(rec, nil)
	c.Assert(err, check.Equals, nil)
	c.Check(feats, check.HasLen, 3)
}

func (s *S) TestGFF(c *check.C) {
	rec := readRecord(c, record)
	var buf bytes.Buffer
	c.Assert(writeGFF(gff.NewWriter(&buf, 60, false), rec.Name, rec.Features), check.Equals, nil)

	type line struct {
		typ        string
		start, end int
		strand     seq.Strand
	}
	var got []line
	r := gff.NewReader(&buf)
	for {
		f, err := r.Read()
		if err == io.EOF {
			break
		}
		c.Assert(err, check.Equals, nil)
		gf := f.(*gff.Feature)
		c.Check(gf.SeqName, check.Equals, "TEST1")
		got = append(got, line{gf.Feature, gf.FeatStart, gf.FeatEnd, gf.FeatStrand})
	}
	c.Check(got, check.DeepEquals, []line{
		{"gene", 0, 20, seq.Plus},
		{"CDS", 1, 5, seq.Minus},
		{"CDS", 10, 18, seq.Minus},
		{"misc_feature", 24, 26, seq.Plus},
	})
}

func (s *S) TestCoverage(c *check.C) {
	rec := readRecord(c, record)
	_, x, err := selectFeatures(rec, nil)
	c.Assert(err, check.Equals, nil)
	v, err := coverage(rec, x)
	c.Assert(err, check.Equals, nil)
	c.Check(v.Len(), check.Equals, 30)

	var buf bytes.Buffer
	c.Assert(writeCoverage(&buf, map[string]*step.Vector{rec.Name: v}), check.Equals, nil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	c.Assert(lines, check.HasLen, 2)
	fields := strings.Fields(lines[1])
	c.Assert(fields, check.HasLen, 5)
	c.Check(fields[:4], check.DeepEquals, []string{"TEST1", "30", "22", "2"})
	c.Check(fields[4], check.HasLen, 40)
}
