package main

import (
	"fmt"
	"io"
	"os"

	"github.com/andy16666/hashtable/pkg/cli"
	"github.com/andy16666/hashtable/pkg/hashtable"
	"github.com/andy16666/hashtable/pkg/script"
	"github.com/phuslu/log"
)

// exec replays the script file and prints one line per operation to w.
func exec(w io.Writer, l log.Logger, c cli.CommandExec) (ok bool) {
	src, err := os.ReadFile(c.ScriptPath)
	if err != nil {
		l.Error().
			Err(err).
			Str("scriptPath", c.ScriptPath).
			Msg("reading script")
		return false
	}
	s, err := script.Parse(src)
	if err != nil {
		l.Error().
			Err(err).
			Str("scriptPath", c.ScriptPath).
			Msg("parsing script")
		return false
	}

	var h hashtable.Hasher
	if c.Hasher != "" {
		if h, err = hashtable.HasherByName(c.Hasher, c.Seed); err != nil {
			l.Error().Err(err).Msg("selecting hasher")
			return false
		}
	}

	l.Debug().
		Str("scriptPath", c.ScriptPath).
		Int("bucketCount", s.BucketCount).
		Int("ops", len(s.Ops)).
		Msg("replaying script")

	results, err := s.Run(h)
	for i, r := range results {
		writeResult(w, i, r)
	}
	if err != nil {
		l.Error().
			Err(err).
			Str("scriptPath", c.ScriptPath).
			Msg("replaying script")
		return false
	}
	return true
}

func writeResult(w io.Writer, i int, r script.Result) {
	switch r.Op {
	case script.OpInsert:
		fmt.Fprintf(w, "%d %s %x %q len=%d\n", i, r.Op, r.Key, r.Value, r.Len)
	case script.OpLookup, script.OpRemove:
		if !r.Found {
			fmt.Fprintf(w, "%d %s %x not found len=%d\n", i, r.Op, r.Key, r.Len)
			return
		}
		fmt.Fprintf(w, "%d %s %x %q len=%d\n", i, r.Op, r.Key, r.Value, r.Len)
	case script.OpEmpty:
		fmt.Fprintf(w, "%d %s %t\n", i, r.Op, r.Empty)
	case script.OpLen:
		fmt.Fprintf(w, "%d %s %d\n", i, r.Op, r.Len)
	default:
		fmt.Fprintf(w, "%d %s\n", i, r.Op)
	}
}
