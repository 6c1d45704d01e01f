package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/abdul-hamid-achik/barbouse/packages/classify"
	"github.com/abdul-hamid-achik/barbouse/packages/core/config"
	"github.com/abdul-hamid-achik/barbouse/packages/core/env"
	"github.com/abdul-hamid-achik/barbouse/packages/core/runner"
	"github.com/abdul-hamid-achik/barbouse/packages/filter"
	"github.com/abdul-hamid-achik/barbouse/packages/http"
	"github.com/abdul-hamid-achik/barbouse/packages/logging"
	"github.com/abdul-hamid-achik/barbouse/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "barbouse [flags] <request-file>...",
	Short: "Send HTTP requests described in plain text files",
	Long: `barbouse sends the HTTP request described by each request file and
prints the response. JSON responses are pretty-printed with sorted keys and
can be narrowed with a filter expression; attachments are saved to disk.

Request file format:
  #METHOD^URL
  #Header-Name: value
  #|filter-expression

  body text

{NAME} placeholders in the URL, headers and filter are replaced with
environment variables.

Examples:
  barbouse users.req
  barbouse -H users.req orders.req
  barbouse -b -f '.items[0]' users.req
  barbouse --env-file .env.staging --engine jmespath users.req`,
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runCommand,
}

var (
	headersFlag       bool
	bodyOnlyFlag      bool
	filterFlag        string
	rawFlag           bool
	engineFlag        string
	envFileFlag       string
	configFlag        string
	timeoutFlag       string
	proxyFlag         string
	insecureFlag      bool
	noRedirectsFlag   bool
	attachmentDirFlag string
	styleFlag         string
	noColorFlag       bool
	bailFlag          bool
	watchFlag         bool
	dryRunFlag        bool
	verboseFlag       bool
	logFileFlag       string
)

// Execute runs the CLI and exits the process with the resulting code.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// reportError prints err unless it was already reported and returns the exit
// code for it. Errors that are not ExitErrors come from cobra itself.
func reportError(w io.Writer, err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(w, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	rootCmd.Flags().BoolVarP(&headersFlag, "headers", "H", getEnvBool("BARBOUSE_HEADERS", false), "Print status and response headers before the body (env: BARBOUSE_HEADERS)")
	rootCmd.Flags().BoolVarP(&bodyOnlyFlag, "body-only", "b", getEnvBool("BARBOUSE_BODY_ONLY", false), "Do not print the request line (env: BARBOUSE_BODY_ONLY)")
	rootCmd.Flags().StringVarP(&filterFlag, "filter", "f", getEnvString("BARBOUSE_FILTER", ""), "Filter expression overriding the one in the file (env: BARBOUSE_FILTER)")
	rootCmd.Flags().BoolVarP(&rawFlag, "raw", "r", getEnvBool("BARBOUSE_RAW", false), "Print JSON without highlighting (env: BARBOUSE_RAW)")
	rootCmd.Flags().StringVar(&engineFlag, "engine", getEnvString("BARBOUSE_ENGINE", ""), "Filter engine: jq, jmespath, gjson (env: BARBOUSE_ENGINE)")
	rootCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("BARBOUSE_ENV_FILE", ""), "Path to .env file for variable interpolation (env: BARBOUSE_ENV_FILE)")
	rootCmd.Flags().StringVar(&configFlag, "config", getEnvString("BARBOUSE_CONFIG", ""), "Path to config file (env: BARBOUSE_CONFIG)")
	rootCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("BARBOUSE_TIMEOUT", ""), "Request timeout, 0 disables (default 30s) (env: BARBOUSE_TIMEOUT)")
	rootCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("BARBOUSE_PROXY", ""), "Proxy URL for HTTP requests (env: BARBOUSE_PROXY)")
	rootCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("BARBOUSE_INSECURE", false), "Disable SSL certificate validation (env: BARBOUSE_INSECURE)")
	rootCmd.Flags().BoolVar(&noRedirectsFlag, "no-redirects", getEnvBool("BARBOUSE_NO_REDIRECTS", false), "Do not follow redirects (env: BARBOUSE_NO_REDIRECTS)")
	rootCmd.Flags().StringVar(&attachmentDirFlag, "attachment-dir", getEnvString("BARBOUSE_ATTACHMENT_DIR", ""), "Directory for saved attachments (default: temp dir) (env: BARBOUSE_ATTACHMENT_DIR)")
	rootCmd.Flags().StringVar(&styleFlag, "style", getEnvString("BARBOUSE_STYLE", ""), "Highlighting style (env: BARBOUSE_STYLE)")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("BARBOUSE_NO_COLOR", false), "Disable colored output (env: BARBOUSE_NO_COLOR)")
	rootCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("BARBOUSE_BAIL", false), "Stop at the first failing file (env: BARBOUSE_BAIL)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run when a request file changes")
	rootCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print the requests without sending them")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("BARBOUSE_VERBOSE", false), "Debug logging to stderr (env: BARBOUSE_VERBOSE)")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", getEnvString("BARBOUSE_LOG_FILE", ""), "Also write logs to a rotating file (env: BARBOUSE_LOG_FILE)")

	_ = rootCmd.RegisterFlagCompletionFunc("style", cobra.FixedCompletions(output.Styles(), cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(filter.Engines(), cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// loadSettings reads the config file and layers the flags over it.
func loadSettings() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}

	overrides := &config.Config{
		Timeout:       timeoutFlag,
		Proxy:         proxyFlag,
		Engine:        engineFlag,
		Style:         styleFlag,
		AttachmentDir: attachmentDirFlag,
		LogFile:       logFileFlag,
	}
	if insecureFlag {
		overrides.ValidateSSL = config.BoolPtr(false)
	}
	if noRedirectsFlag {
		overrides.FollowRedirects = config.BoolPtr(false)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	if verboseFlag {
		overrides.LogLevel = "debug"
	}
	return cfg.Merge(overrides), nil
}

// validateStyle rejects highlighting styles chroma does not know. An empty
// style selects output.DefaultStyle.
func validateStyle(style string) error {
	if style == "" || slices.Contains(output.Styles(), style) {
		return nil
	}
	return fmt.Errorf("unknown style %q (available: %s)", style, strings.Join(output.Styles(), ", "))
}

func newClient(cfg *config.Config) (*http.Client, error) {
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, err
	}

	opts := []http.ClientOption{
		http.WithTimeout(timeout),
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithValidateSSL(cfg.GetValidateSSL()),
		http.WithDefaultHeaders(cfg.Headers),
	}
	if cfg.MaxRedirects > 0 {
		opts = append(opts, http.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		opts = append(opts, http.WithProxy(cfg.Proxy))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(cfg.UserAgent))
	}
	return http.NewClient(opts...), nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return &ExitError{Code: ExitUsageError, Err: err}
	}

	cfg, err := loadSettings()
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}
	if err := validateStyle(cfg.Style); err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	logger, closer := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Writer: cmd.ErrOrStderr(),
	})
	defer closer.Close()
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	vars, err := env.Load(envFileFlag)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	client, err := newClient(cfg)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	renderer := output.NewRenderer(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithRaw(rawFlag),
		output.WithNoColor(cfg.GetNoColor()),
		output.WithStyle(cfg.Style),
	)

	r, err := runner.NewRunner(&runner.Config{
		Vars:           vars,
		Engine:         cfg.Engine,
		FilterOverride: filterFlag,
		ShowHeaders:    headersFlag,
		BodyOnly:       bodyOnlyFlag,
		DryRun:         dryRunFlag,
	},
		runner.WithHTTPClient(client),
		runner.WithRenderer(renderer),
		runner.WithSaver(classify.NewSaver(cfg.AttachmentDir)),
		runner.WithLogger(logger),
	)
	if err != nil {
		code := exitCodeFor(err)
		if code == ExitFailure {
			code = ExitConfigError
		}
		return &ExitError{Code: code, Err: err}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runAll := func() error {
		return runFiles(ctx, r, files, cmd.ErrOrStderr(), logger)
	}

	if !watchFlag {
		return runAll()
	}

	_ = runAll()
	return watchFiles(ctx, cmd.OutOrStdout(), files, runAll, logger)
}

// runFiles runs each file in order. Failures are reported as they happen and
// the run continues unless --bail is set. The returned error carries the exit
// code of the first failure.
func runFiles(ctx context.Context, r *runner.Runner, files []string, errOut io.Writer, logger *slog.Logger) error {
	firstCode := ExitSuccess
	failed := 0

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}

		result, err := r.RunFile(ctx, file)
		if err != nil {
			fmt.Fprintf(errOut, "Error in %s: %v\n", file, err)
			failed++
			if firstCode == ExitSuccess {
				firstCode = exitCodeFor(err)
			}
			if bailFlag {
				break
			}
			continue
		}
		logger.Debug("file done", "file", file, "duration", result.Duration)
	}

	if failed > 0 {
		logger.Debug("run finished with failures", "failed", failed, "total", len(files))
		return &ExitError{Code: firstCode}
	}
	return nil
}

// collectFiles expands the arguments into request files. Files are used as
// given; directories contribute every request file beneath them.
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isRequestFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no request files found")
	}
	return files, nil
}

func isRequestFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".req" || ext == ".barbouse"
}
