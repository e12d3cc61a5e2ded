// Command structy inspects settings schemas and packs or unpacks settings
// records.
//
//	structy [-v] format   [-schema FILE]
//	structy [-v] defaults [-schema FILE]
//	structy [-v] pack     [-schema FILE] [-set name=value ...] [-o FILE]
//	structy [-v] unpack   [-schema FILE] (-i FILE | -hex HEX) [-fallback]
//
// Without -schema the built-in GemSettings schema is used.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/rawbytedev/structy/pkg/gemsettings"
	"github.com/rawbytedev/structy/pkg/record"
)

var errUsage = errors.New("usage: structy [-v] <format|defaults|pack|unpack> [flags]")

func main() {
	global := flag.NewFlagSet("structy", flag.ExitOnError)
	verbose := global.Bool("v", false, "verbose logging")
	_ = global.Parse(os.Args[1:])

	var (
		logger *zap.Logger
		err    error
	)
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(global.Args(), os.Stdout, logger); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run executes one subcommand, writing results to out.
func run(args []string, out io.Writer, logger *zap.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	logger = logger.With(zap.String("command", cmd))

	switch cmd {
	case "format":
		return runFormat(args, out, logger)
	case "defaults":
		return runDefaults(args, out, logger)
	case "pack":
		return runPack(args, out, logger)
	case "unpack":
		return runUnpack(args, out, logger)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// setFlags collects repeated -set name=value overrides.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected name=value, got %q", v)
	}
	*s = append(*s, v)
	return nil
}

func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	schemaPath := fs.String("schema", "", "schema YAML file (default: built-in GemSettings)")
	return fs, schemaPath
}

func loadSchema(path string, logger *zap.Logger) (*record.Schema, error) {
	if path == "" {
		logger.Debug("using built-in schema", zap.String("schema", gemsettings.Schema.Name))
		return gemsettings.Schema, nil
	}
	s, err := record.LoadSchemaFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded schema",
		zap.String("path", path),
		zap.String("schema", s.Name),
		zap.Int("fields", len(s.Fields)),
		zap.Int("packed_size", s.PackedSize()),
	)
	return s, nil
}

func runFormat(args []string, out io.Writer, logger *zap.Logger) error {
	fs, schemaPath := newFlagSet("format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadSchema(*schemaPath, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s format=%s size=%d\n", s.Name, s.Format(), s.PackedSize())
	offset := 0
	for _, f := range s.Fields {
		fmt.Fprintf(out, "%4d  %-7s %c  %s\n", offset, f.Kind, f.Kind.Code(), f.Name)
		offset += f.Kind.Width()
	}
	return nil
}

func runDefaults(args []string, out io.Writer, logger *zap.Logger) error {
	fs, schemaPath := newFlagSet("defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadSchema(*schemaPath, logger)
	if err != nil {
		return err
	}
	r, err := record.New(s)
	if err != nil {
		return err
	}
	r.Init()
	return r.Print(out)
}

func runPack(args []string, out io.Writer, logger *zap.Logger) error {
	fs, schemaPath := newFlagSet("pack")
	var sets setFlags
	fs.Var(&sets, "set", "override a field, name=value (repeatable)")
	outPath := fs.String("o", "", "write packed bytes to this file instead of hex to stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadSchema(*schemaPath, logger)
	if err != nil {
		return err
	}
	r, err := record.New(s)
	if err != nil {
		return err
	}
	r.Init()
	for _, kv := range sets {
		name, value, _ := strings.Cut(kv, "=")
		if err := r.SetText(strings.TrimSpace(name), value); err != nil {
			return err
		}
		logger.Debug("override", zap.String("field", name), zap.String("value", value))
	}

	buf := make([]byte, r.PackedSize())
	if err := r.Pack(buf); err != nil {
		return err
	}
	if *outPath == "" {
		_, err = fmt.Fprintln(out, hex.EncodeToString(buf))
		return err
	}
	if err := os.WriteFile(*outPath, buf, 0o644); err != nil {
		return err
	}
	logger.Info("packed record", zap.String("schema", s.Name), zap.String("path", *outPath), zap.Int("bytes", len(buf)))
	return nil
}

func runUnpack(args []string, out io.Writer, logger *zap.Logger) error {
	fs, schemaPath := newFlagSet("unpack")
	inPath := fs.String("i", "", "read packed bytes from this file")
	hexData := fs.String("hex", "", "packed bytes as hex")
	fallback := fs.Bool("fallback", false, "print defaults when the data cannot be unpacked")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*inPath == "") == (*hexData == "") {
		return fmt.Errorf("%w: unpack needs exactly one of -i or -hex", errUsage)
	}
	s, err := loadSchema(*schemaPath, logger)
	if err != nil {
		return err
	}

	var data []byte
	if *inPath != "" {
		data, err = os.ReadFile(*inPath)
	} else {
		data, err = hex.DecodeString(strings.TrimSpace(*hexData))
	}
	if err != nil {
		return err
	}

	r, err := record.New(s)
	if err != nil {
		return err
	}
	if err := r.Unpack(data); err != nil {
		if !*fallback {
			return err
		}
		logger.Warn("unpack failed, using defaults", zap.Error(err), zap.Int("bytes", len(data)), zap.Int("packed_size", r.PackedSize()))
		r.Init()
	}
	return r.Print(out)
}
