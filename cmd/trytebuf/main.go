// Command trytebuf encodes records to tryte symbols and back using a schema
// file (JSON, YAML or TOML).
//
//	trytebuf encode -schema address.json < record.json
//	trytebuf decode -schema address.json -in record.trytes
//	trytebuf describe -schema address.json
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	tb "github.com/unkn0wn-root/trytebuffer"
	"github.com/unkn0wn-root/trytebuffer/codec"
	tbzap "github.com/unkn0wn-root/trytebuffer/log/zap"
	"github.com/unkn0wn-root/trytebuffer/schemafile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `usage: trytebuf <encode|decode|describe> -schema file [flags]

  encode    read a record, print its symbols
  decode    read symbols, print the record
  describe  print the compiled field layout
`

var errUsage = errors.New("usage")

type config struct {
	cmd     string
	schema  string
	format  string
	in      string
	limit   int
	strict  bool
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		if errors.Is(err, errUsage) {
			fmt.Fprint(stderr, usage)
		} else {
			fmt.Fprintln(stderr, "trytebuf:", err)
		}
		return 2
	}

	log := newLogger(stderr, cfg.verbose)
	defer func() { _ = log.Sync() }()

	if err := execute(cfg, log, stdin, stdout); err != nil {
		log.Error("command failed", zap.String("cmd", cfg.cmd), zap.Error(err))
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (config, error) {
	if len(args) == 0 {
		return config{}, errUsage
	}
	cfg := config{cmd: args[0]}
	switch cfg.cmd {
	case "encode", "decode", "describe":
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stderr, usage)
		return config{}, flag.ErrHelp
	default:
		return config{}, fmt.Errorf("%w: unknown command %q", errUsage, cfg.cmd)
	}

	fs := flag.NewFlagSet("trytebuf "+cfg.cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.schema, "schema", "", "schema file (.json, .yaml, .yml, .toml)")
	fs.StringVar(&cfg.format, "format", "json", "record format: "+strings.Join(codec.Names(), "|"))
	fs.StringVar(&cfg.in, "in", "", "input file (default stdin)")
	fs.IntVar(&cfg.limit, "limit", 0, "symbol limit; 0 uses the default, negative disables")
	fs.BoolVar(&cfg.strict, "strict", false, "fail instead of degrading bad values")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args[1:]); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if cfg.schema == "" {
		return config{}, errors.New("-schema is required")
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	lvl := zapcore.WarnLevel
	if verbose {
		lvl = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core)
}

func execute(cfg config, log *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	schema, err := schemafile.Load(cfg.schema)
	if err != nil {
		return err
	}
	mode := tb.Lenient
	if cfg.strict {
		mode = tb.Strict
	}
	buf, err := tb.New(schema, tb.Options{
		SymbolLimit: cfg.limit,
		Mode:        mode,
		Logger:      tbzap.New(log),
	})
	if err != nil {
		return err
	}
	log.Debug("schema loaded",
		zap.String("path", cfg.schema),
		zap.Int("fields", len(schema)),
		zap.Stringer("mode", mode),
		zap.Int("limit", buf.SymbolLimit()))

	if cfg.cmd == "describe" {
		return describe(buf, stdout)
	}

	c, err := codec.ByName(cfg.format)
	if err != nil {
		return err
	}
	input, err := readInput(cfg.in, stdin)
	if err != nil {
		return err
	}

	switch cfg.cmd {
	case "encode":
		rec, err := c.Decode(input)
		if err != nil {
			return fmt.Errorf("read %s record: %w", cfg.format, err)
		}
		res, err := buf.EncodeResult(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, res.Symbols)
		return err
	default:
		rec, err := buf.Decode(string(bytes.TrimSpace(input)))
		if err != nil {
			return err
		}
		out, err := c.Encode(rec)
		if err != nil {
			return fmt.Errorf("write %s record: %w", cfg.format, err)
		}
		if _, err := stdout.Write(out); err != nil {
			return err
		}
		if cfg.format == "json" {
			_, err = io.WriteString(stdout, "\n")
		}
		return err
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func describe(buf *tb.Buffer, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tKIND\tWIDTH")
	for _, l := range buf.Layout() {
		width := "var"
		if l.Width >= 0 {
			width = fmt.Sprint(l.Width)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Name, l.Kind, width)
	}
	return tw.Flush()
}
