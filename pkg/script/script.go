// Package script replays JSON operation scripts against a hashtable.
//
// A script is a JSON object:
//
//	{
//	  "bucket-count": 4,
//	  "hasher": "shift5",
//	  "seed": 0,
//	  "ops": [
//	    {"op": "insert", "key": "a", "value": "1"},
//	    {"op": "lookup", "key": "a", "expect": "1"},
//	    {"op": "remove", "keyHex": "6100", "expect": null},
//	    {"op": "empty", "expect": false},
//	    {"op": "len", "expect": 1},
//	    {"op": "destroy"}
//	  ]
//	}
//
// Keys are given either as text ("key") or hex encoded ("keyHex").
// "expect" is optional, a null expectation on lookup and remove
// means the key must not be found.
package script

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/andy16666/hashtable/pkg/hashtable"
	"github.com/tidwall/gjson"
)

// Operation names.
const (
	OpInsert  = "insert"
	OpLookup  = "lookup"
	OpRemove  = "remove"
	OpEmpty   = "empty"
	OpLen     = "len"
	OpDestroy = "destroy"
)

var ErrSyntax = errors.New("invalid JSON")

type Script struct {
	BucketCount int
	Hasher      string
	Seed        uint64
	Ops         []Op
}

type Op struct {
	Name  string
	Key   []byte
	Value string

	// Expect is nil if the operation carries no expectation.
	Expect *Expect
}

// Expect is the expected outcome of an operation.
// Found and Value apply to lookup and remove,
// Empty to empty and Len to len.
type Expect struct {
	Found bool
	Value string
	Empty bool
	Len   int
}

// Result is the outcome of a single operation.
type Result struct {
	Op    string
	Key   []byte
	Value string
	Found bool
	Empty bool
	Len   int
}

// Parse parses and validates a JSON script.
func Parse(src []byte) (*Script, error) {
	if !gjson.ValidBytes(src) {
		return nil, ErrSyntax
	}
	doc := gjson.ParseBytes(src)
	if !doc.IsObject() {
		return nil, &ErrorIllegal{Index: -1, Message: "expected object"}
	}

	s := &Script{
		Hasher: doc.Get("hasher").String(),
		Seed:   doc.Get("seed").Uint(),
	}

	bc := doc.Get("bucket-count")
	if bc.Type != gjson.Number || bc.Int() < 1 ||
		float64(bc.Int()) != bc.Num {
		return nil, &ErrorIllegal{
			Index:   -1,
			Feature: "bucket-count",
			Message: "expected positive integer",
		}
	}
	s.BucketCount = int(bc.Int())

	ops := doc.Get("ops")
	if !ops.IsArray() {
		return nil, &ErrorIllegal{
			Index:   -1,
			Feature: "ops",
			Message: "expected array",
		}
	}
	for i, o := range ops.Array() {
		op, err := parseOp(o)
		if err != nil {
			err.Index = i
			return nil, err
		}
		s.Ops = append(s.Ops, op)
	}
	return s, nil
}

func parseOp(o gjson.Result) (op Op, err *ErrorIllegal) {
	if !o.IsObject() {
		return op, &ErrorIllegal{Message: "expected object"}
	}
	op.Name = o.Get("op").String()

	switch op.Name {
	case OpInsert, OpLookup, OpRemove:
		key, keyHex := o.Get("key"), o.Get("keyHex")
		switch {
		case key.Exists() && keyHex.Exists():
			return op, &ErrorIllegal{
				Feature: "key",
				Message: "key and keyHex are mutually exclusive",
			}
		case key.Type == gjson.String:
			op.Key = []byte(key.String())
		case keyHex.Type == gjson.String:
			k, e := hex.DecodeString(keyHex.String())
			if e != nil {
				return op, &ErrorIllegal{Feature: "keyHex", Message: e.Error()}
			}
			op.Key = k
		default:
			return op, &ErrorIllegal{Feature: "key", Message: "expected string"}
		}
	case OpEmpty, OpLen, OpDestroy:
	default:
		return op, &ErrorIllegal{
			Feature: "op",
			Message: fmt.Sprintf("unknown operation %q", op.Name),
		}
	}

	if op.Name == OpInsert {
		v := o.Get("value")
		if v.Type != gjson.String {
			return op, &ErrorIllegal{Feature: "value", Message: "expected string"}
		}
		op.Value = v.String()
	}

	x := o.Get("expect")
	if !x.Exists() {
		return op, nil
	}
	op.Expect = &Expect{}
	switch op.Name {
	case OpLookup, OpRemove:
		switch x.Type {
		case gjson.Null:
		case gjson.String:
			op.Expect.Found, op.Expect.Value = true, x.String()
		default:
			return op, &ErrorIllegal{
				Feature: "expect",
				Message: "expected string or null",
			}
		}
	case OpEmpty:
		if !x.IsBool() {
			return op, &ErrorIllegal{Feature: "expect", Message: "expected boolean"}
		}
		op.Expect.Empty = x.Bool()
	case OpLen:
		if x.Type != gjson.Number {
			return op, &ErrorIllegal{Feature: "expect", Message: "expected number"}
		}
		op.Expect.Len = int(x.Int())
	default:
		return op, &ErrorIllegal{
			Feature: "expect",
			Message: "not supported by " + op.Name,
		}
	}
	return op, nil
}

// Run executes the script on a new table.
// The hasher named by the script is used if h is nil.
// Run stops at the first failing expectation returning
// the results collected so far and an *ErrorExpectation.
func (s *Script) Run(h hashtable.Hasher) ([]Result, error) {
	if h == nil {
		var err error
		if h, err = hashtable.HasherByName(s.Hasher, s.Seed); err != nil {
			return nil, err
		}
	}
	t, err := hashtable.New[string](s.BucketCount, h)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(s.Ops))
	destroyed := false
	for i, op := range s.Ops {
		if destroyed {
			return results, fmt.Errorf(
				"op %d (%s): %w", i, op.Name, hashtable.ErrDestroyed,
			)
		}
		r := Result{Op: op.Name, Key: op.Key}
		switch op.Name {
		case OpInsert:
			if err := t.Insert(op.Key, op.Value); err != nil {
				return results, fmt.Errorf("op %d (%s): %w", i, op.Name, err)
			}
			r.Value, r.Found = op.Value, true
		case OpLookup:
			r.Value, r.Found = t.Lookup(op.Key)
		case OpRemove:
			r.Value, r.Found = t.Remove(op.Key)
		case OpEmpty:
			r.Empty = t.IsEmpty()
		case OpDestroy:
			if err := t.Destroy(); err != nil {
				return results, fmt.Errorf("op %d (%s): %w", i, op.Name, err)
			}
			destroyed = true
		}
		if !destroyed {
			r.Len = t.Len()
		}
		results = append(results, r)

		if op.Expect != nil && !op.Expect.matches(op.Name, r) {
			return results, &ErrorExpectation{
				Index: i, Op: op, Result: r,
			}
		}
	}
	return results, nil
}

func (x *Expect) matches(op string, r Result) bool {
	switch op {
	case OpLookup, OpRemove:
		return x.Found == r.Found && (!x.Found || x.Value == r.Value)
	case OpEmpty:
		return x.Empty == r.Empty
	case OpLen:
		return x.Len == r.Len
	}
	return true
}

// ErrorIllegal reports an invalid script.
// Index is -1 for errors outside of ops.
type ErrorIllegal struct {
	Index   int
	Feature string
	Message string
}

func (e ErrorIllegal) Error() string {
	var prefix string
	if e.Index > -1 {
		prefix = fmt.Sprintf("op %d: ", e.Index)
	}
	if e.Feature == "" {
		return prefix + "illegal script: " + e.Message
	}
	return prefix + "illegal " + e.Feature + ": " + e.Message
}

// ErrorExpectation reports an operation result differing from
// the expectation of the operation.
type ErrorExpectation struct {
	Index  int
	Op     Op
	Result Result
}

func (e ErrorExpectation) Error() string {
	x := e.Op.Expect
	switch e.Op.Name {
	case OpEmpty:
		return fmt.Sprintf(
			"op %d (%s): expected %t, actual %t",
			e.Index, e.Op.Name, x.Empty, e.Result.Empty,
		)
	case OpLen:
		return fmt.Sprintf(
			"op %d (%s): expected %d, actual %d",
			e.Index, e.Op.Name, x.Len, e.Result.Len,
		)
	}
	return fmt.Sprintf(
		"op %d (%s %x): expected %s, actual %s",
		e.Index, e.Op.Name, e.Op.Key,
		describe(x.Found, x.Value), describe(e.Result.Found, e.Result.Value),
	)
}

func describe(found bool, value string) string {
	if !found {
		return "not found"
	}
	return fmt.Sprintf("%q", value)
}
