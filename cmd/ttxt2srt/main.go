/*
NAME
  main.go

DESCRIPTION
  ttxt2srt reads an MPEG-2 transport stream or BDAV M2TS file carrying DVB
  teletext closed captions and writes the decoded subtitles as SubRip (SRT)
  text.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// ttxt2srt is a command line tool that extracts DVB teletext closed
// captions from an MPEG-TS or M2TS recording and writes them out as SRT
// subtitles.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/ttxt2srt/subtitle/srt"
	"github.com/ausocean/ttxt2srt/teletext"
)

const version = "ttxt2srt 1.0"

// firstPrivateStream1 is the -t sentinel requesting the first Private
// Stream 1 PID encountered, bypassing PAT/PMT teletext-descriptor discovery.
const firstPrivateStream1 = 0x2000

func main() {
	var (
		inPath    string
		outPath   string
		page      int
		pid       int
		offsetSec float64
		noBOM     bool
		dummy     bool
		colour    bool
		search    string
		searchSet bool
		m2ts      bool
		verbose   bool
		showVer   bool
		showHelp  bool
	)

	flag.StringVar(&inPath, "i", "", "input transport stream file (required)")
	flag.StringVar(&outPath, "o", "", "output SRT file (default stdout)")
	flag.IntVar(&page, "p", 0, "teletext page number, 100-899 (default: first subtitle page found)")
	flag.IntVar(&pid, "t", 0, "teletext elementary stream PID (default: auto; 0x2000 selects the first Private Stream 1)")
	flag.Float64Var(&offsetSec, "f", 0, "timestamp offset in seconds, applied to every subtitle")
	flag.BoolVar(&noBOM, "n", false, "omit the UTF-8 byte-order mark")
	flag.BoolVar(&dummy, "1", false, "emit a single dummy frame if no captions were decoded")
	flag.BoolVar(&colour, "c", false, "render spacing-attribute colours as HTML font tags")
	flag.StringVar(&search, "s", "", "search engine mode: one seconds_float|text line per frame; optional RFC3339 reference time")
	flag.BoolVar(&m2ts, "m", false, "input is BDAV M2TS (192-byte packets with a 4-byte prefix)")
	flag.BoolVar(&verbose, "v", false, "log diagnostics to stderr")
	flag.BoolVar(&showVer, "V", false, "print the version and exit")
	flag.BoolVar(&showHelp, "h", false, "print usage and exit")
	flag.Parse()
	searchSet = isFlagSet("s")

	if showVer {
		fmt.Println(version)
		os.Exit(0)
	}
	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if inPath == "" || inPath == "-" {
		fmt.Fprintln(os.Stderr, "ttxt2srt: -i is required and must name a file")
		os.Exit(1)
	}

	level := logging.Info
	if verbose {
		level = logging.Debug
	}
	log := logging.New(level, os.Stderr, !verbose)

	in, err := os.Open(inPath)
	if err != nil {
		log.Error("cannot open input", "error", err)
		os.Exit(1)
	}
	defer in.Close()

	out := io.Writer(os.Stdout)
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Error("cannot create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	opts := []teletext.Option{teletext.WithLogger(log), teletext.WithColour(colour), teletext.WithM2TS(m2ts)}

	if page != 0 {
		id, ok := teletext.ParsePageNumber(page)
		if !ok {
			fmt.Fprintln(os.Stderr, "ttxt2srt: -p must be a decimal page number between 100 and 899")
			os.Exit(1)
		}
		opts = append(opts, teletext.WithPage(id))
	}
	if pid != 0 {
		if pid < 0 || pid > firstPrivateStream1 {
			fmt.Fprintln(os.Stderr, "ttxt2srt: -t must be a PID between 0 and 0x1fff, or 0x2000")
			os.Exit(1)
		}
		opts = append(opts, teletext.WithPID(uint16(pid)))
	}

	dec := teletext.NewDecoder(opts...)

	frames, err := dec.Decode(context.Background(), in)
	if err != nil {
		log.Error("decoding failed", "error", err)
		os.Exit(1)
	}

	if verbose {
		st := dec.Stats()
		log.Debug("decode complete",
			"frames", len(frames),
			"syncLosses", st.SyncLosses,
			"continuityErrors", st.ContinuityErrors,
			"transportErrors", st.TransportErrors,
			"hamming84Errors", st.Hamming84Errors,
			"hamming2418Errors", st.Hamming2418Errors,
			"parityErrors", st.ParityErrors,
			"unknownCharsets", st.UnknownCharsets,
		)
	}

	if len(frames) == 0 {
		fmt.Fprintln(os.Stderr, "ttxt2srt: No frames produced.")
		if dummy {
			frames = append(frames, teletext.CaptionFrame{End: time.Second, Lines: []string{""}})
		}
	}

	offset := time.Duration(offsetSec * float64(time.Second))

	if searchSet {
		var ref time.Time
		if search != "" {
			ref, err = time.Parse(time.RFC3339, search)
			if err != nil {
				fmt.Fprintln(os.Stderr, "ttxt2srt: -s reference time must be RFC3339")
				os.Exit(1)
			}
		} else if bsd := dec.Stats().BSDTime; !bsd.IsZero() {
			ref = bsd
		}
		if err := srt.WriteSearchEngine(out, frames, offset, ref); err != nil {
			log.Error("writing output failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := srt.Write(out, frames, offset, !noBOM); err != nil {
		log.Error("writing output failed", "error", err)
		os.Exit(1)
	}
}

// isFlagSet reports whether the named flag was explicitly provided on the
// command line, so that -s can distinguish "search mode, no reference" from
// "search mode not requested".
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
