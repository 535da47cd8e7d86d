package main

import (
	"io"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/williampepple1/redirlookup/internal/config"
	urlio "github.com/williampepple1/redirlookup/internal/io"
	"github.com/williampepple1/redirlookup/internal/lookup"
	"github.com/williampepple1/redirlookup/internal/tracer"
)

type options struct {
	configFile   string
	file         string
	output       string
	workers      int
	timeout      time.Duration
	maxRedirects int
	proxies      []string
	browser      bool
	metaRefresh  bool
	refang       bool
	verbose      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "redirlookup [flags] [URL...]",
		Short: "Follow URL redirects and display results as JSON.",
		Long: "Follow URL redirects and display results as JSON.\n\n" +
			"URLs given as arguments are looked up as they are. With -f, the file is\n" +
			"read as one URL per line and only well-formed URLs are looked up.",
		Example: "  redirlookup http://wikipedia.org http://example.org\n" +
			"  redirlookup -f urls.txt",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		newLogger(stderr).WithError(err).Error("invalid arguments")
		return err
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "Text file with one URL per line")
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to configuration file (YAML)")
	flags.StringVarP(&opts.output, "output", "o", "", "Write results to this file instead of stdout")
	flags.IntVarP(&opts.workers, "workers", "w", config.DefaultWorkers, "Number of URLs traced concurrently")
	flags.DurationVarP(&opts.timeout, "timeout", "t", config.DefaultTimeout, "Timeout of one lookup, redirects included")
	flags.IntVar(&opts.maxRedirects, "max-redirects", config.DefaultMaxRedirects, "Maximum number of redirects to follow")
	flags.StringSliceVar(&opts.proxies, "proxy", nil, "Proxy URL, repeat to rotate between several")
	flags.BoolVar(&opts.browser, "browser", false, "Trace in a headless browser to catch client-side redirects")
	flags.BoolVar(&opts.metaRefresh, "meta-refresh", false, "Follow <meta http-equiv=\"refresh\"> redirects")
	flags.BoolVar(&opts.refang, "refang", false, "Request hxxp(s) and fxp URLs with their real scheme")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print debug diagnostics")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string, stdout, stderr io.Writer) error {
	fileMode := cmd.Flags().Changed("file")
	if !fileMode && len(args) == 0 {
		return cmd.Help()
	}

	logger := newLogger(stderr)

	appConfig, err := loadConfig(cmd, opts)
	if err != nil {
		logger.WithError(err).Error("cannot load configuration")
		return err
	}
	level, err := log.ParseLevel(appConfig.Log.Level)
	if err != nil {
		logger.WithError(err).Error("invalid log level")
		return err
	}
	logger.Level = level

	if fileMode {
		if opts.file == "" {
			logger.Error("please provide a file name, for example: redirlookup -f urls.txt")
			return urlio.ErrNoFileName
		}
		if len(args) > 0 {
			logger.Warnf("ignoring %d URL arguments, reading URLs from %s", len(args), opts.file)
		}
		appConfig.IO.InputFile = opts.file
	}

	candidates, fromFreeText, err := urlio.NewURLReader(&appConfig.IO).GetURLs(args)
	if err != nil {
		logger.WithError(err).Error("cannot read URLs")
		return err
	}

	results := lookup.New(tracer.New(appConfig), appConfig.Tracer.Workers, logger).
		Run(cmd.Context(), candidates, fromFreeText)

	if err := urlio.NewResultWriter(&appConfig.IO, stdout).Write(results); err != nil {
		logger.WithError(err).Error("cannot write results")
		return err
	}
	if appConfig.IO.OutputFile != "" {
		logger.Infof("results saved to %s", appConfig.IO.OutputFile)
	}
	return nil
}

func newLogger(w io.Writer) *log.Logger {
	return &log.Logger{Handler: cli.New(w), Level: log.InfoLevel}
}

// loadConfig builds the configuration from the config file, then the
// environment, then the flags set on the command line.
func loadConfig(cmd *cobra.Command, opts *options) (*config.AppConfig, error) {
	appConfig := config.CreateDefault("", "")
	if opts.configFile != "" {
		var err error
		if appConfig, err = config.Load(opts.configFile); err != nil {
			return nil, err
		}
	}
	if err := config.LoadEnv(appConfig, ".env"); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		appConfig.Tracer.Workers = opts.workers
	}
	if flags.Changed("timeout") {
		appConfig.Tracer.Timeout = opts.timeout
	}
	if flags.Changed("max-redirects") {
		appConfig.Tracer.MaxRedirects = opts.maxRedirects
	}
	if flags.Changed("output") {
		appConfig.IO.OutputFile = opts.output
	}
	if flags.Changed("proxy") {
		appConfig.Proxies.List = opts.proxies
		appConfig.Proxies.Enabled = len(opts.proxies) > 0
	}
	if flags.Changed("browser") {
		appConfig.Browser.Enabled = opts.browser
	}
	if flags.Changed("meta-refresh") {
		appConfig.Tracer.FollowMetaRefresh = opts.metaRefresh
	}
	if flags.Changed("refang") {
		appConfig.Tracer.Refang = opts.refang
	}
	if opts.verbose {
		appConfig.Log.Level = "debug"
	}

	return appConfig, nil
}
