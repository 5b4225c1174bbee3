// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gbfetch retrieves GenBank flat file records matching an Entrez query and
// lists their features. The retrieved records may also be saved.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/biogo/flatfile/flat"
	"github.com/biogo/ncbi/entrez"
)

const tool = "biogo.flatfile"

var (
	db      = flag.String("db", "nuccore", "db specifies the Entrez database to search.")
	query   = flag.String("query", "", "query specifies the Entrez search term (required).")
	retmax  = flag.Int("retmax", 100, "retmax specifies the number of records to be retrieved per request.")
	out     = flag.String("out", "", "out specifies a file to save the retrieved records to.")
	email   = flag.String("email", "", "email specifies the email address to be sent to the server (required).")
	retries = flag.Int("retry", 5, "retry specifies the number of attempts to retrieve the data.")
	help    = flag.Bool("help", false, "help prints this message.")
)

func main() {
	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *email == "" || *query == "" {
		flag.Usage()
		os.Exit(1)
	}

	h := entrez.History{}
	s, err := entrez.DoSearch(*db, *query, nil, &h, tool, *email)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	fmt.Fprintf(os.Stderr, "will retrieve %d records.\n", s.Count)

	var of *os.File
	if *out != "" {
		of, err = os.Create(*out)
		if err != nil {
			log.Fatalf("failed to create %q: %v", *out, err)
		}
		defer of.Close()
	}

	var (
		buf = &bytes.Buffer{}
		p   = &entrez.Parameters{RetMax: *retmax, RetType: "gb", RetMode: "text"}
		tw  = tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
		n   int
	)
	fmt.Fprintln(tw, "record\tfeature\tname\tlocation")
	for p.RetStart = 0; p.RetStart < s.Count; p.RetStart += p.RetMax {
		fmt.Fprintf(os.Stderr, "attempting to retrieve %d records starting from %d with %d retries.\n", p.RetMax, p.RetStart, *retries)
		err = fetch(buf, p, &h)
		if err != nil {
			log.Fatalf("exceeded retries: last error: %v", err)
		}
		if of != nil {
			_, err = of.Write(buf.Bytes())
			if err != nil {
				log.Fatalf("failed to save records: %v", err)
			}
		}
		c, err := listFeatures(tw, buf)
		n += c
		if err != nil {
			log.Fatalf("failed to read records: %v", err)
		}
	}
	tw.Flush()
	fmt.Fprintf(os.Stderr, "read %d records.\n", n)
}

// fetch retrieves one batch of records into buf, retrying failed requests.
func fetch(buf *bytes.Buffer, p *entrez.Parameters, h *entrez.History) error {
	var err error
	for t := 0; t < *retries; t++ {
		buf.Reset()
		var r io.ReadCloser
		r, err = entrez.Fetch(*db, p, tool, *email, h)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to retrieve on attempt %d... retrying.\n", t)
			continue
		}
		_, err = io.Copy(buf, r)
		r.Close()
		if err == nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "failed to buffer on attempt %d... retrying.\n", t)
	}
	return err
}

// listFeatures writes a line to w for each feature of the flat file records
// read from r, returning the number of records read.
func listFeatures(w io.Writer, r io.Reader) (int, error) {
	fr := flat.NewReader(r)
	var n int
	for {
		rec, err := fr.Read()
		if err != nil {
			if err == io.EOF {
				return n, nil
			}
			return n, err
		}
		n++
		for _, f := range rec.Features {
			_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", rec.Name, f.Type, f.Name(), f.Loc)
			if err != nil {
				return n, err
			}
		}
	}
}
