// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ftfmt reads EMBL or GenBank flat files and writes their feature tables
// in canonical form, as EMBL or GenBank feature tables or as GFF.
//
// Features may be restricted to those overlapping a region given as a
// feature table location, for example:
//  ftfmt -in U49845.gb -region 'join(100..200,500..600)' -format gff
// A per-record feature coverage report may be written with -covrep.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/flatfile/flat"
	"github.com/biogo/flatfile/ftable"
	"github.com/biogo/flatfile/location"
	"github.com/biogo/store/step"
)

func main() {
	inName := flag.String("in", "", "Filename for input flat file. Defaults to stdin.")
	outName := flag.String("out", "", "Filename for output. Defaults to stdout.")
	format := flag.String("format", "embl", "Output format: embl, genbank or gff.")
	regionText := flag.String("region", "", "Location of region to report features for. Defaults to all features.")
	width := flag.Int("width", ftable.DefaultWidth, "Column at which feature table lines are wrapped.")
	covRep := flag.String("covrep", "", "Filename for feature coverage report.")
	help := flag.Bool("help", false, "Print this usage message.")

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	st, err := parseStyle(*format)
	if err != nil {
		log.Fatal(err)
	}
	var region location.Location
	if *regionText != "" {
		r, err := location.Parse(*regionText)
		if err != nil {
			log.Fatalf("invalid region: %v", err)
		}
		region = r.Location
	}

	var in io.Reader
	if *inName == "" {
		fmt.Fprintln(os.Stderr, "reading flat file records from stdin.")
		in = os.Stdin
	} else if f, err := os.Open(*inName); err != nil {
		log.Fatalf("could not open %q: %v", *inName, err)
	} else {
		fmt.Fprintf(os.Stderr, "reading flat file records from %q.\n", *inName)
		defer f.Close()
		in = f
	}

	var out *bufio.Writer
	if *outName == "" {
		out = bufio.NewWriter(os.Stdout)
	} else if f, err := os.Create(*outName); err != nil {
		log.Fatalf("could not create %q: %v", *outName, err)
	} else {
		defer f.Close()
		out = bufio.NewWriter(f)
		fmt.Fprintf(os.Stderr, "writing features to %q.\n", *outName)
	}
	defer out.Flush()

	var gw *gff.Writer
	if st == gffStyle {
		gw = gff.NewWriter(out, 60, true)
	}

	var cov map[string]*step.Vector
	if *covRep != "" {
		cov = make(map[string]*step.Vector)
	}

	r := flat.NewReader(in)
	var records, features int
	for {
		rec, err := r.Read()
		if err != nil {
			if err != io.EOF {
				log.Fatalf("failed to read record: %v", err)
			}
			break
		}
		records++

		feats, x, err := selectFeatures(rec, region)
		if err != nil {
			log.Fatalf("failed to index %s: %v", rec.Name, err)
		}
		features += len(feats)

		if st == gffStyle {
			err = writeGFF(gw, rec.Name, feats)
		} else {
			err = writeTable(out, rec.Name, feats, st, *width)
		}
		if err != nil {
			log.Fatalf("failed to write %s: %v", rec.Name, err)
		}

		if cov != nil {
			v, err := coverage(rec, x)
			if err != nil {
				log.Fatalf("failed to calculate coverage of %s: %v", rec.Name, err)
			}
			if v != nil {
				cov[rec.Name] = v
			}
		}
	}
	fmt.Fprintf(os.Stderr, "wrote %d features from %d records.\n", features, records)

	if *covRep != "" {
		f, err := os.Create(*covRep)
		if err != nil {
			log.Fatalf("could not create %q: %v", *covRep, err)
		}
		defer f.Close()
		err = writeCoverage(f, cov)
		if err != nil {
			log.Fatalf("failed to write coverage report: %v", err)
		}
	}
}
