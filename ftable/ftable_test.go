// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ftable

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/flatfile/location"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

// recorder is a Listener recording the calls made to it.
type recorder struct {
	calls []string
}

func (r *recorder) StartFeature(typ string, loc location.Stranded) error {
	r.calls = append(r.calls, fmt.Sprintf("start %s %v", typ, loc))
	return nil
}

func (r *recorder) AddFeatureProperty(key string, value interface{}) error {
	r.calls = append(r.calls, fmt.Sprintf("property %s=%#v", key, value))
	return nil
}

func (r *recorder) EndFeature() error {
	r.calls = append(r.calls, "end")
	return nil
}

func feed(a *Assembler, lines ...string) error {
	for _, l := range lines {
		if err := a.FeatureData(l); err != nil {
			return err
		}
	}
	return a.End()
}

func (s *S) TestContinuation(c *check.C) {
	r := &recorder{}
	a := NewAssembler(r)
	err := feed(a,
		"misc_feature    1..10",
		`/note="this is a`,
		`very long note"`,
	)
	c.Assert(err, check.Equals, nil)
	c.Check(r.calls, check.DeepEquals, []string{
		"start misc_feature 1..10",
		`property note="this is a very long note"`,
		"end",
	})
}

func (s *S) TestAssemble(c *check.C) {
	r := &recorder{}
	a := NewAssembler(r)
	err := feed(a,
		"source          1..1000",
		`                /organism="Homo sapiens"`,
		`                /mol_type="genomic DNA"`,
		"CDS             complement(join(100..200,",
		"                300..>400))",
		`                /gene="abc"`,
		`                /note="a ""quoted"" word"`,
		"                /pseudo",
		"                /codon_start=1",
		`                /db_xref="GeneID:1"`,
		`                /db_xref="HGNC:2"`,
		`                /translation="MKVLAAGIVALLLAAGCSSSKEETVAEPTAPAPVAAEPAPVAEPAP`,
		`                QQPAAPVAEPAPAPVAA"`,
		"",
		"gene            <1..50",
	)
	c.Assert(err, check.Equals, nil)
	c.Check(r.calls, check.DeepEquals, []string{
		"start source 1..1000",
		`property organism="Homo sapiens"`,
		`property mol_type="genomic DNA"`,
		"end",
		"start CDS join(complement(300..>400),complement(100..200))",
		`property gene="abc"`,
		`property note="a \"quoted\" word"`,
		"property pseudo=true",
		`property codon_start="1"`,
		`property db_xref="GeneID:1"`,
		`property db_xref="HGNC:2"`,
		`property translation="MKVLAAGIVALLLAAGCSSSKEETVAEPTAPAPVAAEPAPVAEPAPQQPAAPVAEPAPAPVAA"`,
		"end",
		"start gene <1..50",
		"end",
	})
}

func (s *S) TestAssemblerErrors(c *check.C) {
	for i, t := range []struct {
		lines []string
		want  error
	}{
		{[]string{"CDS             1..(2"}, ErrUnterminatedFeature},
		{[]string{"CDS             join(1..2,", "                AL1234:(3..4))"}, location.ErrRemoteLocation},
		{[]string{"CDS             1..2..3"}, location.ErrMalformedLocation},
		{[]string{"CDS             1..2", `                /note="open`}, ErrUnterminatedFeature},
		{[]string{`                /note="x"`}, ErrUnexpectedLine},
		{[]string{"CDS             1..2", "                stray"}, ErrUnexpectedLine},
		{[]string{"CDS             1..2", `                /="x"`}, ErrUnexpectedLine},
	} {
		err := feed(NewAssembler(&recorder{}), t.lines...)
		c.Check(errors.Is(err, t.want), check.Equals, true, check.Commentf("Test %d: %v", i, err))
	}

	err := feed(NewAssembler(&recorder{}), "CDS             1..2", "CDS             1..2..3")
	c.Check(err, check.ErrorMatches, "line 2: CDS feature: parsing .*")
}

func (s *S) TestCollector(c *check.C) {
	var col Collector
	a := NewAssembler(&col)
	err := feed(a,
		"gene            complement(20..120)",
		`                /gene="abc"`,
		`                /locus_tag="T_001"`,
		"repeat_region   5^6",
	)
	c.Assert(err, check.Equals, nil)
	c.Assert(col.Features, check.HasLen, 2)

	g := col.Features[0]
	c.Check(g.Type, check.Equals, "gene")
	c.Check(g.Name(), check.Equals, "abc")
	c.Check(g.Description(), check.Equals, "gene")
	c.Check(g.Start(), check.Equals, 19)
	c.Check(g.End(), check.Equals, 120)
	c.Check(g.Len(), check.Equals, 101)
	c.Check(g.Orientation(), check.Equals, feat.Reverse)
	c.Check(g.Loc.Strand, check.Equals, seq.Minus)
	c.Check(g.Get("locus_tag"), check.DeepEquals, []interface{}{"T_001"})
	c.Check(g.Has("note"), check.Equals, false)

	r := col.Features[1]
	c.Check(r.Name(), check.Equals, "repeat_region")
	c.Check(r.Orientation(), check.Equals, feat.Forward)

	col.Reset()
	c.Check(col.Features, check.HasLen, 0)
	c.Check(col.EndFeature(), check.NotNil)
}

func (s *S) TestWriter(c *check.C) {
	t := &Template{
		Type: "CDS",
		Loc:  location.MustParse("complement(join(1000..2000,3000..4000,5000..6000,7000..8000,9000..10000))"),
		Properties: []Property{
			{Key: "gene", Value: "abc"},
			{Key: "codon_start", Value: "1"},
			{Key: "pseudo", Value: true},
			{Key: "note", Value: `a "quoted" word in a note that is long enough to need wrapping onto the next line`},
			{Key: "translation", Value: strings.Repeat("MKV", 30)},
		},
	}
	var buf bytes.Buffer
	w := NewWriter(&buf, EMBLPrefix, DefaultWidth)
	_, err := w.Write(t)
	c.Assert(err, check.Equals, nil)

	want := "" +
		"FT   CDS             join(complement(9000..10000),complement(7000..8000),\n" +
		"FT                   complement(5000..6000),complement(3000..4000),\n" +
		"FT                   complement(1000..2000))\n" +
		"FT                   /gene=\"abc\"\n" +
		"FT                   /codon_start=1\n" +
		"FT                   /pseudo\n" +
		"FT                   /note=\"a \"\"quoted\"\" word in a note that is long enough to\n" +
		"FT                   need wrapping onto the next line\"\n" +
		"FT                   /translation=\"MKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKV\n" +
		"FT                   MKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKVMKV\"\n"
	c.Check(buf.String(), check.Equals, want)
	for _, l := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		c.Check(len(l) <= DefaultWidth, check.Equals, true, check.Commentf("%q", l))
	}

	// Written features are read back unchanged.
	var col Collector
	a := NewAssembler(&col)
	for _, l := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		c.Assert(a.FeatureData(strings.TrimPrefix(l, EMBLPrefix)), check.Equals, nil)
	}
	c.Assert(a.End(), check.Equals, nil)
	c.Assert(col.Features, check.HasLen, 1)
	got := col.Features[0]
	c.Check(got.Type, check.Equals, t.Type)
	c.Check(got.Loc.String(), check.Equals, t.Loc.String())
	c.Check(got.Properties, check.DeepEquals, t.Properties)
}

func (s *S) TestWriterLongLeadingWord(c *check.C) {
	t := &Template{
		Type: "misc_feature",
		Loc:  location.MustParse("1..10"),
		Properties: []Property{
			{Key: "note", Value: strings.Repeat("x", 55) + " tail of the note"},
			{Key: "partial", Value: false},
			{Key: "label", Value: strings.Repeat("y", 52) + " z"},
		},
	}
	var buf bytes.Buffer
	_, err := NewWriter(&buf, EMBLPrefix, DefaultWidth).Write(t)
	c.Assert(err, check.Equals, nil)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	c.Check(lines, check.DeepEquals, []string{
		"FT   misc_feature    1..10",
		"FT                   /note=\"" + strings.Repeat("x", 52),
		"FT                   xxx tail of the note\"",
		"FT                   /label=\"" + strings.Repeat("y", 51),
		"FT                   y z\"",
	})

	var col Collector
	a := NewAssembler(&col)
	for _, l := range lines {
		c.Check(len(l) <= DefaultWidth, check.Equals, true, check.Commentf("%q", l))
		c.Assert(a.FeatureData(strings.TrimPrefix(l, EMBLPrefix)), check.Equals, nil)
	}
	c.Assert(a.End(), check.Equals, nil)
	c.Assert(col.Features, check.HasLen, 1)
	c.Check(col.Features[0].Properties, check.DeepEquals, []Property{
		{Key: "note", Value: strings.Repeat("x", 55) + " tail of the note"},
		{Key: "label", Value: strings.Repeat("y", 52) + " z"},
	})
}

func (s *S) TestWrap(c *check.C) {
	for i, t := range []struct {
		in    string
		width int
		want  []string
	}{
		{"short", 10, []string{"short"}},
		{"aaaa bbbb cccc", 9, []string{"aaaa bbbb", "cccc"}},
		{"aaaaaaaaaaaa bb", 5, []string{"aaaaa", "aaaaa", "aa bb"}},
		{"aaaa bbbbbbbbbb", 5, []string{"aaa", "a bbbbbbbbbb"}},
		{"aa bb cccccccccc dd", 6, []string{"aa bb", "cccccccccc", "dd"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
	} {
		c.Check(wrap(t.in, t.width), check.DeepEquals, t.want, check.Commentf("Test %d", i))
	}
}
