// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

const records = `LOCUS       AB000001                  12 bp    DNA
FEATURES             Location/Qualifiers
     gene            1..12
                     /locus_tag="T_001"
     CDS             complement(3..11)
                     /product="a protein"
ORIGIN
        1 atgcatgcat gc
//
LOCUS       AB000002                   4 bp    DNA
ORIGIN
        1 acgt
//
`

func (s *S) TestListFeatures(c *check.C) {
	var buf bytes.Buffer
	n, err := listFeatures(&buf, strings.NewReader(records))
	c.Assert(err, check.Equals, nil)
	c.Check(n, check.Equals, 2)
	c.Check(buf.String(), check.Equals, ""+
		"AB000001\tgene\tT_001\t1..12\n"+
		"AB000001\tCDS\ta protein\tcomplement(3..11)\n")
}
