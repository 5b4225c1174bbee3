// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flat

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/flatfile/ftable"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

const embl = `ID   X56734; SV 1; linear; mRNA; STD; PLN; 40 BP.
XX
AC   X56734;
XX
DE   Trifolium repens mRNA for non-cyanogenic beta-glucosidase
XX
FH   Key             Location/Qualifiers
FH
FT   source          1..40
FT                   /organism="Trifolium repens"
FT                   /mol_type="mRNA"
FT   CDS             complement(join(3..10,
FT                   20..>35))
FT                   /gene="lin"
FT                   /note="a note that is
FT                   continued"
FT                   /pseudo
XX
SQ   Sequence 40 BP; 10 A; 10 C; 10 G; 10 T; 0 other;
     acgtacgtac gtacgtacgt acgtacgtac gtacgtacgt                              40
//
ID   X00002; SV 1; linear; DNA; STD; PLN; 4 BP.
XX
SQ   Sequence 4 BP;
     ggcc                                                                      4
//
`

const genbank = `LOCUS       SCU49845                  15 bp    DNA     linear   PLN 21-JUN-1999
DEFINITION  Saccharomyces cerevisiae TCP1-beta gene, partial cds.
            and more definition.
ACCESSION   U49845
FEATURES             Location/Qualifiers
     source          1..15
                     /organism="Saccharomyces cerevisiae"
     gene            <1..>15
                     /gene="TCP1-beta"
     misc_feature    order(2,5^6)
BASE COUNT        3 a      4 c      4 g      4 t
ORIGIN
        1 gatcctccat atacg
//`

func (s *S) TestEMBL(c *check.C) {
	r := NewReader(strings.NewReader(embl))

	rec, err := r.Read()
	c.Assert(err, check.Equals, nil)
	c.Check(rec.Name, check.Equals, "X56734")
	c.Assert(rec.Features, check.HasLen, 2)

	src := rec.Features[0]
	c.Check(src.Type, check.Equals, "source")
	c.Check(src.Loc.String(), check.Equals, "1..40")
	c.Check(src.Get("organism"), check.DeepEquals, []interface{}{"Trifolium repens"})

	cds := rec.Features[1]
	c.Check(cds.Type, check.Equals, "CDS")
	c.Check(cds.Loc.String(), check.Equals, "join(complement(20..>35),complement(3..10))")
	c.Check(cds.Orientation(), check.Equals, feat.Reverse)
	c.Check(cds.Properties, check.DeepEquals, []ftable.Property{
		{Key: "gene", Value: "lin"},
		{Key: "note", Value: "a note that is continued"},
		{Key: "pseudo", Value: true},
	})

	c.Check(rec.Seq.Len(), check.Equals, 40)
	c.Check(fmt.Sprintf("%.8s", rec.Seq), check.Equals, "acgtacgt...")

	rec, err = r.Read()
	c.Assert(err, check.Equals, nil)
	c.Check(rec.Name, check.Equals, "X00002")
	c.Check(rec.Features, check.HasLen, 0)
	c.Check(fmt.Sprintf("%s", rec.Seq), check.Equals, "ggcc")

	rec, err = r.Read()
	c.Check(rec, check.IsNil)
	c.Check(err, check.Equals, io.EOF)
}

func (s *S) TestGenBank(c *check.C) {
	r := NewReader(strings.NewReader(genbank))
	r.ChunkSize = 4

	rec, err := r.Read()
	c.Assert(err, check.Equals, nil)
	c.Check(rec.Name, check.Equals, "SCU49845")

	var got []string
	for _, f := range rec.Features {
		got = append(got, f.Type+" "+f.Loc.String())
	}
	c.Check(got, check.DeepEquals, []string{
		"source 1..15",
		"gene <1..>15",
		"misc_feature join(2,5^6)",
	})
	c.Check(rec.Features[1].Name(), check.Equals, "TCP1-beta")

	c.Check(rec.Seq.Len(), check.Equals, 15)
	c.Check(rec.Seq.Chunks(), check.Equals, 4)
	v, err := rec.Seq.SubRange(3, 7)
	c.Assert(err, check.Equals, nil)
	c.Check(fmt.Sprintf("%s", v), check.Equals, "tcctc")

	_, err = r.Read()
	c.Check(err, check.Equals, io.EOF)
}

func (s *S) TestBadFeature(c *check.C) {
	const bad = `ID   BAD; SV 1; linear; DNA; STD; PLN; 4 BP.
FT   CDS             join(1..2,3..4
SQ   Sequence 4 BP;
     acgt                                                                      4
//
`
	_, err := NewReader(strings.NewReader(bad)).Read()
	c.Check(errors.Is(err, ftable.ErrUnterminatedFeature), check.Equals, true)
	c.Check(err, check.ErrorMatches, "flat: record ending at line 3: .*")
}

func (s *S) TestUnterminatedRecord(c *check.C) {
	const records = `ID   FIRST; SV 1; linear; DNA; STD; PLN; 4 BP.
FT   gene            1..2
FT                   /gene="a"
SQ   Sequence 4 BP;
     acgt                                                                      4
ID   SECOND; SV 1; linear; DNA; STD; PLN; 2 BP.
FT   gene            3..4
FT                   /gene="b"
SQ   Sequence 2 BP;
     gg                                                                        2
//
`
	r := NewReader(strings.NewReader(records))
	for _, want := range []struct {
		name, gene, seq string
	}{
		{"FIRST", "a", "acgt"},
		{"SECOND", "b", "gg"},
	} {
		rec, err := r.Read()
		c.Assert(err, check.Equals, nil)
		c.Check(rec.Name, check.Equals, want.name)
		c.Assert(rec.Features, check.HasLen, 1, check.Commentf("%s", want.name))
		c.Check(rec.Features[0].Name(), check.Equals, want.gene)
		c.Check(fmt.Sprintf("%s", rec.Seq), check.Equals, want.seq)
	}
	_, err := r.Read()
	c.Check(err, check.Equals, io.EOF)
}
