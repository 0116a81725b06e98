package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"hnreader/internal/components/chrono"
	"hnreader/internal/components/telemetry"
	"hnreader/internal/configutil"
	"hnreader/internal/db"
	"hnreader/internal/format"
	"hnreader/internal/output"
	"hnreader/internal/pagecache"
	"hnreader/internal/restyutil"
	"hnreader/internal/scrapers/hackernews"
	"hnreader/internal/secrets"
	"hnreader/internal/state"

	"dario.cat/mergo"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const appName = "hn"

type Config struct {
	BaseUrl           string           `json:"base_url"`
	Database          string           `json:"database"`
	CacheTtlSeconds   int              `json:"cache_ttl_seconds"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	BrowserTransport  bool             `json:"browser_transport"`
	Telemetry         telemetry.Config `json:"telemetry"`
}

func defaultConfig() (Config, error) {
	dir, err := dataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseUrl:           hackernews.DefaultBaseUrl,
		Database:          filepath.Join(dir, "hn.db"),
		CacheTtlSeconds:   300,
		RequestsPerSecond: 2,
	}, nil
}

// dataDir is $XDG_DATA_HOME/hn, falling back to ~/.local/share/hn.
func dataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// readConfig merges the first config found over the defaults: an hn.json5 in
// the working directory or one of its parents, then the user config file.
func readConfig() (Config, error) {
	defaults, err := defaultConfig()
	if err != nil {
		return Config{}, err
	}

	project, err := configutil.ReadRecursively[Config]("hn.json5")
	if err == nil {
		err = mergo.Merge(&defaults, project, mergo.WithOverride)
		return defaults, err
	}
	if !os.IsNotExist(err) {
		return Config{}, err
	}

	userPath, err := configutil.UserConfigPath(appName, "config.json5")
	if err != nil {
		return Config{}, err
	}
	return configutil.ReadWithDefaults(defaults, userPath)
}

// env holds everything a command needs, it is built once before any command
// runs.
type env struct {
	cfg     Config
	tel     telemetry.API
	out     *output.Printer
	text    format.Printer
	client  *hackernews.Client
	state   state.Store
	sqlite  *sql.DB
	tracing telemetry.Tracing

	openSecrets func() (secrets.Store, error)
}

func (e *env) close(ctx context.Context) {
	if e.sqlite != nil {
		e.sqlite.Close()
	}
	err := e.tracing.Shutdown(ctx)
	if err != nil {
		slog.Warn("shutdown tracing", "err", err.Error())
	}
}

type rootFlags struct {
	output   string
	jq       string
	verbose  bool
	dumpHttp string
}

func newEnv(ctx context.Context, cmd *cobra.Command, flags rootFlags) (*env, error) {
	telemetry.InitSlog(flags.verbose)
	tel := telemetry.NewSlogAPI(nil)

	cfg, err := readConfig()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	tracing, err := telemetry.SetupTracing(ctx, appName, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	outputFormat, err := output.ParseFormat(flags.output)
	if err != nil {
		return nil, err
	}
	out, err := output.NewPrinter(cmd.OutOrStdout(), outputFormat, flags.jq)
	if err != nil {
		return nil, err
	}

	sqlite, err := db.OpenDB(db.Schema, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	qry := db.New(sqlite)
	clock := chrono.NewStandardImpl()

	cache := pagecache.NewSqlite(qry, clock, time.Duration(cfg.CacheTtlSeconds)*time.Second, tel)
	err = cache.Prune(ctx)
	if err != nil {
		sqlite.Close()
		return nil, err
	}

	var dump restyutil.Output
	if flags.dumpHttp != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(flags.dumpHttp)
		if err != nil {
			sqlite.Close()
			return nil, err
		}
		dump = fsOutput
	}

	client, err := hackernews.NewClient(hackernews.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		Cache:             cache,
		RequestsPerSecond: cfg.RequestsPerSecond,
		BrowserTransport:  cfg.BrowserTransport,
		Dump:              dump,
	}, tel)
	if err != nil {
		sqlite.Close()
		return nil, err
	}

	keyringDir := filepath.Dir(cfg.Database)
	return &env{
		cfg:     cfg,
		tel:     tel,
		out:     out,
		text:    format.NewPrinter(lipgloss.NewRenderer(cmd.OutOrStdout())),
		client:  client,
		state:   state.NewStore(qry, db.NewMakeTx(sqlite), clock, tel),
		sqlite:  sqlite,
		tracing: tracing,
		openSecrets: func() (secrets.Store, error) {
			return openSecretStore(keyringDir)
		},
	}, nil
}

var openSecretStore = func(dir string) (secrets.Store, error) {
	return secrets.OpenDefault(dir)
}

type envKeyType int

var envKey envKeyType

func getEnv(cmd *cobra.Command) *env {
	return cmd.Context().Value(envKey).(*env)
}

func newRootCmd() *cobra.Command {
	flags := rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "hn",
		Short:         "hn reads hacker news from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd.Context(), cmd, flags)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey, e))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e, ok := cmd.Context().Value(envKey).(*env); ok {
				e.close(cmd.Context())
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.output, "output", "text", "Output format: text, json or yaml.")
	rootCmd.PersistentFlags().StringVar(&flags.jq, "jq", "", "Filter structured output with a jq expression.")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging.")
	rootCmd.PersistentFlags().StringVar(&flags.dumpHttp, "dump-http", "", "Write every http exchange to this directory.")

	topCmd := newListCmd("top", "t", "Print top stories (default command).", hackernews.LIST_NEWS)
	rootCmd.AddCommand(
		topCmd,
		newListCmd("new", "n", "Print new stories.", hackernews.LIST_NEWEST),
		newListCmd("best", "b", "Print best stories.", hackernews.LIST_BEST),
		newListCmd("ask", "a", "Print ask stories.", hackernews.LIST_ASK),
		newListCmd("show", "s", "Print show stories.", hackernews.LIST_SHOW),
		newListCmd("job", "j", "Print job stories.", hackernews.LIST_JOBS),
		newDetailsCmd(),
		newOpenCmd(),
		newUserCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newUpvoteCmd(),
	)

	rootCmd.Flags().AddFlagSet(topCmd.Flags())
	rootCmd.RunE = topCmd.RunE

	return rootCmd
}

func ExecuteContext(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
