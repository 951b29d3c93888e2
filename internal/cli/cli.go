package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/specialistvlad/asmtree/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

func failure(err error) error {
	return &ExitError{Code: 1, Message: err.Error()}
}

// Streams are the process's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type rootFlags struct {
	config    string
	catalog   []string
	settings  string
	state     string
	logLevel  string
	logFormat string
	color     string
	jobs      int
}

// NewRootCommand builds the asmtree command tree.
func NewRootCommand(s Streams) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "asmtree",
		Short: "Browse assemblies, their references and base types",
		Long: `asmtree loads assembly descriptions from .hcl catalog files and shows them
as a lazily expanded tree. Assembly references and base types navigate to the
loaded assembly or type they name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(s.In)
	root.SetOut(s.Out)
	root.SetErr(s.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "path to asmtree.toml (default: search upwards from the working directory)")
	pf.StringSliceVar(&flags.catalog, "catalog", nil, "catalog file or directory (repeatable)")
	pf.StringVar(&flags.settings, "settings", "", "settings file (default: keep settings in memory)")
	pf.StringVar(&flags.state, "state", "", "viewer state file (default: do not persist)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	pf.StringVar(&flags.logFormat, "log-format", "text", "log format (text|json)")
	pf.StringVar(&flags.color, "color", "auto", "colorize output (auto|on|off)")
	pf.IntVar(&flags.jobs, "jobs", 0, "parallel catalog decoders (0 = number of CPUs)")

	newApp := func(cmd *cobra.Command) (*app.App, error) {
		cfg, err := loadConfig(cmd, flags)
		if err != nil {
			return nil, usageError(err)
		}
		a, err := app.NewApp(s.Err, cfg, colorEnabled(cfg.Color, s.Out))
		if err != nil {
			return nil, failure(err)
		}
		return a, nil
	}

	root.AddCommand(
		newDumpCommand(newApp),
		newPathsCommand(newApp),
		newResolveCommand(newApp),
		newBrowseCommand(newApp),
		newHighlightCommand(newApp),
	)
	return root
}

// loadConfig layers defaults, the config file and explicitly set flags.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*app.Config, error) {
	cfg := app.DefaultConfig()

	path := flags.config
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, ok, err := app.FindConfigFile(wd)
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if err := app.ApplyConfigFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("catalog") {
		cfg.CatalogPaths = flags.catalog
	}
	if changed("settings") {
		cfg.SettingsPath = flags.settings
	}
	if changed("state") {
		cfg.StatePath = flags.state
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if changed("color") {
		cfg.Color = flags.color
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	return app.NewConfig(cfg)
}

// colorEnabled resolves the color mode against the output stream.
func colorEnabled(mode string, out io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
