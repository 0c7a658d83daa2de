package cli

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andy16666/hashtable/pkg/config"
	"github.com/andy16666/hashtable/pkg/hashtable"
	"golang.org/x/exp/slices"
)

const EnvLogLevel = "HASHTABLE_LOG_LEVEL"
const DefaultConfigPath = "./hashtable.yaml"
const DefaultLogLevel = "info"

var LogLevels = []string{"debug", "info", "warn", "error"}

// Command can be any of:
//
//	CommandRun
//	CommandExec
//	CommandIndex
//	CommandHelp
type Command any

type CommandRun struct {
	ConfigPath string
	LogLevel   string
}

type CommandExec struct {
	ScriptPath string
	Hasher     string
	Seed       uint64
	LogLevel   string
}

type CommandIndex struct {
	BucketCount int
	Hasher      string
	Seed        uint64
	Keys        [][]byte
	LogLevel    string
}

type CommandHelp struct{}

func Parse(w io.Writer, args []string) (cmd Command) {
	fm := fmt.Sprintf

	executableName := "hashtable"
	if len(args) > 0 {
		executableName = filepath.Base(args[0])
	}

	flags := flag.NewFlagSet("hashtable", flag.ContinueOnError)
	flags.SetOutput(w)
	flags.Usage = func() {
		writeLines(w,
			fm("usage: %s <command> [flags]", executableName),
			"",
			"commands available:",
			" run - runs a verified workload configured by a YAML file",
			" exec - replays a JSON operation script",
			" index - prints the bucket index of keys",
			" help - prints this help",
		)
	}

	parseFlags := func() (ok bool) {
		err := flags.Parse(args[2:])
		// flags will automatically call .Usage()
		return err == nil
	}

	if len(args) < 2 {
		flags.Usage()
		return nil
	}

	logLevel := os.Getenv(EnvLogLevel)
	if logLevel == "" {
		logLevel = DefaultLogLevel
	} else if !slices.Contains(LogLevels, logLevel) {
		writeLines(w,
			fm("%s contains an invalid log level: %q", EnvLogLevel, logLevel),
			"expected one of: "+strings.Join(LogLevels, ", "),
		)
		flags.Usage()
		return nil
	}
	envUsage := fm(
		"%s: log level, one of: %s (default: %s)",
		EnvLogLevel, strings.Join(LogLevels, ", "), DefaultLogLevel,
	)
	hasherUsage := fm(
		"-hasher <name>: key hasher, one of: %s",
		strings.Join(config.Hashers, ", "),
	)

	switch args[1] {
	case "run":
		c := CommandRun{LogLevel: logLevel}

		flags.Usage = func() {
			writeLines(w,
				"",
				fm("usage: %s run [-config <path>]", executableName),
				"",
				"flags:",
				"-config <path>: defines the workload configuration file path "+
					fm("(default: %s)", DefaultConfigPath),
				"",
				"environment variables:",
				envUsage,
			)
		}

		flags.StringVar(&c.ConfigPath, "config", DefaultConfigPath, "")
		if !parseFlags() {
			return nil
		}
		cmd = c

	case "exec":
		c := CommandExec{LogLevel: logLevel}

		flags.Usage = func() {
			writeLines(w,
				"",
				fm(
					"usage: %s exec -script <path> [-hasher <name>] [-seed <n>]",
					executableName,
				),
				"",
				"flags:",
				"-script <path>: defines the JSON script file path",
				hasherUsage+" (default: as defined by the script)",
				"-seed <n>: hasher seed (default: 0)",
				"",
				"environment variables:",
				envUsage,
			)
		}

		flags.StringVar(&c.ScriptPath, "script", "", "")
		flags.StringVar(&c.Hasher, "hasher", "", "")
		flags.Uint64Var(&c.Seed, "seed", 0, "")
		if !parseFlags() {
			return nil
		}
		if c.ScriptPath == "" {
			writeLines(w, "-script isn't set.")
			flags.Usage()
			return nil
		}
		if c.Hasher != "" && !slices.Contains(config.Hashers, c.Hasher) {
			writeLines(w, fm("unknown hasher: %q", c.Hasher))
			flags.Usage()
			return nil
		}
		cmd = c

	case "index":
		c := CommandIndex{LogLevel: logLevel}
		var hexKeys bool

		flags.Usage = func() {
			writeLines(w,
				"",
				fm(
					"usage: %s index -buckets <n> "+
						"[-hasher <name>] [-seed <n>] [-hex] <key>...",
					executableName,
				),
				"",
				"flags:",
				"-buckets <n>: number of buckets",
				hasherUsage+fm(" (default: %s)", hashtable.NameShift5),
				"-seed <n>: hasher seed (default: 0)",
				"-hex: keys are hex encoded",
				"",
				"environment variables:",
				envUsage,
			)
		}

		flags.IntVar(&c.BucketCount, "buckets", 0, "")
		flags.StringVar(&c.Hasher, "hasher", hashtable.NameShift5, "")
		flags.Uint64Var(&c.Seed, "seed", 0, "")
		flags.BoolVar(&hexKeys, "hex", false, "")
		if !parseFlags() {
			return nil
		}
		if c.BucketCount < 1 || c.BucketCount > hashtable.MaxBucketCount {
			writeLines(w, fm(
				"-buckets must be within [1, %d]", hashtable.MaxBucketCount,
			))
			flags.Usage()
			return nil
		}
		if !slices.Contains(config.Hashers, c.Hasher) {
			writeLines(w, fm("unknown hasher: %q", c.Hasher))
			flags.Usage()
			return nil
		}
		if flags.NArg() < 1 {
			writeLines(w, "no keys provided.")
			flags.Usage()
			return nil
		}
		for _, a := range flags.Args() {
			if !hexKeys {
				c.Keys = append(c.Keys, []byte(a))
				continue
			}
			k, err := hex.DecodeString(a)
			if err != nil {
				writeLines(w, fm("invalid hex key %q: %s", a, err))
				flags.Usage()
				return nil
			}
			c.Keys = append(c.Keys, k)
		}
		cmd = c

	case "help":
		PrintHelp(w)
		return CommandHelp{}

	default:
		flags.Usage()
		return nil
	}
	return cmd
}

func writeLines(w io.Writer, lines ...string) {
	for i := range lines {
		_, _ = w.Write([]byte(lines[i]))
		_, _ = w.Write([]byte("\n"))
	}
}

func PrintHelp(w io.Writer) {
	writeLines(w,
		"hashtable - fixed-capacity chained hashtable tooling",
		"",
		"run:   hashtable run -config ./hashtable.yaml",
		"exec:  hashtable exec -script ./script.json",
		"index: hashtable index -buckets 4 a b c",
	)
}
