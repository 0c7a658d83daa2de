package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andy16666/hashtable/pkg/cli"
	"github.com/andy16666/hashtable/pkg/config"
	"github.com/andy16666/hashtable/pkg/workload"
	"github.com/dustin/go-humanize"
	"github.com/phuslu/log"
)

// run executes the workload defined by the configuration file
// and prints its report to w.
func run(w io.Writer, l log.Logger, c cli.CommandRun) (ok bool) {
	dir, file := dirAndFileName(c.ConfigPath)
	conf, err := config.Read(os.DirFS(dir), file)
	if err != nil {
		l.Error().
			Err(err).
			Str("configPath", c.ConfigPath).
			Msg("reading config")
		return false
	}

	l.Info().
		Int("bucketCount", conf.BucketCount).
		Str("hasher", conf.Hasher).
		Int("keys", conf.Keys.Count).
		Str("keySource", conf.Keys.Source).
		Msg("running workload")

	r, err := workload.Execute(conf)
	if err != nil {
		l.Error().
			Err(err).
			Str("configPath", c.ConfigPath).
			Msg("running workload")
		return false
	}

	l.Debug().
		Dur("insertTime", r.InsertTime).
		Dur("lookupTime", r.LookupTime).
		Dur("removeTime", r.RemoveTime).
		Msg("workload finished")

	writeReport(w, r)
	return true
}

func writeReport(w io.Writer, r workload.Report) {
	c := func(i int) string { return humanize.Comma(int64(i)) }
	fmt.Fprintf(w, "keys:          %s (%s)\n",
		c(r.Keys), humanize.Bytes(uint64(r.KeyBytes)))
	fmt.Fprintf(w, "inserts:       %s (%s duplicates) in %s\n",
		c(r.Inserts), c(r.Duplicates), perOp(r.InsertTime, r.Inserts))
	fmt.Fprintf(w, "lookups:       %s (%s misses) in %s\n",
		c(r.Lookups), c(r.Misses), perOp(r.LookupTime, r.Lookups))
	fmt.Fprintf(w, "removals:      %s in %s\n",
		c(r.Removals), perOp(r.RemoveTime, r.Removals))
	fmt.Fprintf(w, "entries:       %s\n", c(r.Len))
	fmt.Fprintf(w, "buckets:       %s (%s empty)\n",
		c(r.Stats.Buckets), c(r.Stats.EmptyBuckets))
	fmt.Fprintf(w, "load factor:   %s\n",
		humanize.FormatFloat("#,###.##", r.Stats.LoadFactor))
	fmt.Fprintf(w, "longest chain: %s\n", c(r.Stats.LongestChain))
}

func perOp(d time.Duration, ops int) string {
	if ops < 1 {
		return d.String()
	}
	return fmt.Sprintf("%s (%s/op)", d, d/time.Duration(ops))
}

func dirAndFileName(path string) (dir, fileName string) {
	dir, fileName = filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return dir, fileName
}
