package main

import (
	"fmt"
	"io"

	"github.com/andy16666/hashtable/pkg/cli"
	"github.com/andy16666/hashtable/pkg/hashtable"
	"github.com/phuslu/log"
)

// index prints the hash and bucket index of every key to w.
func index(w io.Writer, l log.Logger, c cli.CommandIndex) (ok bool) {
	h, err := hashtable.HasherByName(c.Hasher, c.Seed)
	if err != nil {
		l.Error().Err(err).Msg("selecting hasher")
		return false
	}
	t, err := hashtable.New[struct{}](c.BucketCount, h)
	if err != nil {
		l.Error().
			Err(err).
			Int("bucketCount", c.BucketCount).
			Msg("creating table")
		return false
	}
	defer func() { _ = t.Destroy() }()

	for _, k := range c.Keys {
		fmt.Fprintf(w, "%x %d %d\n", k, h.Hash(k), t.Index(k))
	}
	return true
}
