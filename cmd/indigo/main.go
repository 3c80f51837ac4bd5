package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/unbound-force/indigo/internal/config"
	"github.com/unbound-force/indigo/internal/filter"
	"github.com/unbound-force/indigo/internal/ingest"
	"github.com/unbound-force/indigo/internal/logging"
	"github.com/unbound-force/indigo/internal/report"
)

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "indigo",
		Short: "Indigo — schema profiling for newline-delimited JSON",
		Long: `Indigo consumes a stream of newline-delimited JSON documents and
reports every key path it discovers, per-path occurrence counts, and a
bounded reservoir sample of the values seen at each path, alongside a
content digest of the input.`,
		Version: version,
	}

	root.AddCommand(newProfileCmd())
	root.AddCommand(newSchemaCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// profileParams holds the parsed flags for the profile command.
// Zero-valued ints and empty strings mean "not set on the command
// line": the config file value (or default) applies.
type profileParams struct {
	files       []string
	size        int
	maxLength   int
	maxDepth    int
	encoding    string
	format      string
	filterExpr  string
	skipInvalid bool
	configPath  string
	logFile     string
	verbose     bool
	interactive bool
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
}

// loadConfig resolves the effective configuration: flags override the
// config file, which overrides the built-in defaults.
func loadConfig(p profileParams) (config.Config, error) {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return cfg, err
	}
	if p.size > 0 {
		cfg.Size = p.size
	}
	if p.maxLength > 0 {
		cfg.MaxLength = p.maxLength
	}
	if p.maxDepth > 0 {
		cfg.MaxDepth = p.maxDepth
	}
	if p.encoding != "" {
		cfg.Encoding = p.encoding
	}
	if p.skipInvalid {
		cfg.SkipInvalid = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runProfile is the extracted, testable body of the profile command.
func runProfile(p profileParams) error {
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}

	cfg, err := loadConfig(p)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup(logging.Options{
		Verbose:  p.verbose,
		FilePath: p.logFile,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	var jq *filter.Filter
	if p.filterExpr != "" {
		jq, err = filter.Compile(p.filterExpr)
		if err != nil {
			return err
		}
	}

	pass, err := ingest.NewPass(ingest.Options{
		Size:        cfg.Size,
		MaxLength:   cfg.MaxLength,
		Encoding:    cfg.Encoding,
		MaxDepth:    cfg.MaxDepth,
		SkipInvalid: cfg.SkipInvalid,
		Filter:      jq,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if len(p.files) > 0 {
		logger.Info("profiling", "inputs", len(p.files))
	} else {
		logger.Info("profiling stdin")
	}

	if err := pass.Run(p.files, p.stdin); err != nil {
		return err
	}

	logger.Info("pass complete",
		"documents", pass.Total(), "paths", pass.Counter().Len())

	rpt := report.Build(time.Now(), pass.Total(), pass.SHA1(),
		pass.Counter(), pass.Reservoir())

	if p.interactive {
		return runInteractiveProfile(rpt)
	}

	switch p.format {
	case "json":
		return report.WriteJSON(p.stdout, rpt)
	default:
		return report.WriteText(p.stdout, rpt)
	}
}

func newProfileCmd() *cobra.Command {
	var p profileParams

	cmd := &cobra.Command{
		Use:   "profile [FILE...]",
		Short: "Profile the schema of newline-delimited JSON input",
		Long: `Profile newline-delimited JSON from the named files (concatenated
in argument order), or from standard input when no files are named.
Files ending in .gz are decompressed transparently.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.files = args
			p.stdin = os.Stdin
			p.stdout = os.Stdout
			p.stderr = os.Stderr
			return runProfile(p)
		},
	}

	cmd.Flags().IntVarP(&p.size, "size", "s", 0,
		"per-path reservoir sample size (default 1024)")
	cmd.Flags().IntVar(&p.maxLength, "max-length", 0,
		"truncate sampled strings beyond this many characters (default 1024)")
	cmd.Flags().IntVar(&p.maxDepth, "max-depth", 0,
		"maximum document nesting depth (default 200)")
	cmd.Flags().StringVar(&p.encoding, "encoding", "",
		"text encoding for digest computation (default utf-8)")
	cmd.Flags().StringVar(&p.format, "format", "json",
		"output format: text or json")
	cmd.Flags().StringVar(&p.filterExpr, "filter", "",
		"jq expression applied to each document before profiling")
	cmd.Flags().BoolVar(&p.skipInvalid, "skip-invalid", false,
		"skip malformed JSON lines instead of aborting")
	cmd.Flags().StringVar(&p.configPath, "config", "",
		"config file (default .indigo.yaml in the working directory)")
	cmd.Flags().StringVar(&p.logFile, "log-file", "",
		"write logs to a rotated file instead of stderr")
	cmd.Flags().BoolVarP(&p.verbose, "verbose", "v", false,
		"enable debug logging")
	cmd.Flags().BoolVarP(&p.interactive, "interactive", "i", false,
		"launch interactive TUI for browsing the profile")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the profile report",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of indigo profile --format=json output. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Schema)
			return err
		},
	}
}
