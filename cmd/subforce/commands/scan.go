package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bl4ck0w1/subforce/internal/engine"
	"github.com/bl4ck0w1/subforce/internal/report"
	"github.com/bl4ck0w1/subforce/internal/resolver"
	"github.com/bl4ck0w1/subforce/pkg/models"
	"github.com/bl4ck0w1/subforce/pkg/utils"
)

func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [domain]",
		Short: "Brute-force subdomains of a target domain",
		Long: `Resolve <word>.<domain> for every word of the wordlist using a bounded
pool of workers and print the names that resolve. Ctrl+C stops the run and
prints the partial results.`,
		Example: `  subforce scan example.com -w subdomains.txt -t 20
  subforce scan -u https://www.example.com:8443/login --timeout 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().StringP("url", "u", "", "Target URL; the domain is extracted from it")
	cmd.Flags().StringP("wordlist", "w", models.DefaultWordlist, "Path to subdomain wordlist file")
	cmd.Flags().IntP("threads", "t", models.DefaultThreads, fmt.Sprintf("Number of workers (max %d)", models.MaxThreads))
	cmd.Flags().Int("timeout", int(models.DefaultTimeout/time.Second), "DNS query timeout in seconds")
	cmd.Flags().StringSliceP("resolvers", "r", nil, "Nameservers to query (host[:port]); defaults to /etc/resolv.conf")
	cmd.Flags().String("metrics-addr", "", "Expose Prometheus metrics on this address during the run (e.g. :9090)")
	cmd.Flags().Bool("no-color", false, "Disable coloured output")
	cmd.Flags().StringP("profile", "p", "", "Configuration profile name or YAML file (see 'subforce configure')")

	_ = viper.BindPFlag("scan.url", cmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("scan.wordlist", cmd.Flags().Lookup("wordlist"))
	_ = viper.BindPFlag("scan.threads", cmd.Flags().Lookup("threads"))
	_ = viper.BindPFlag("scan.timeout", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("scan.resolvers", cmd.Flags().Lookup("resolvers"))
	_ = viper.BindPFlag("scan.metrics_addr", cmd.Flags().Lookup("metrics-addr"))
	_ = viper.BindPFlag("scan.no_color", cmd.Flags().Lookup("no-color"))
	_ = viper.BindPFlag("scan.profile", cmd.Flags().Lookup("profile"))

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(args)
	if err != nil {
		return err
	}
	if utils.IsPublicSuffix(cfg.Domain) {
		logrus.Warnf("%s is a public suffix, results are unlikely to be meaningful", cfg.Domain)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.StandardLogger()
	printer := report.NewPrinter(cmd.OutOrStdout(), cfg.NoColor)
	if !viper.GetBool("quiet") {
		printer.Banner(cfg)
	}

	var metrics *utils.ScanMetrics
	if cfg.MetricsAddr != "" {
		metrics = utils.NewScanMetrics(cfg.Domain, true)
		metricsCtx, cancelMetrics := context.WithCancel(context.Background())
		defer cancelMetrics()
		go func() {
			if err := metrics.Serve(metricsCtx, cfg.MetricsAddr); err != nil {
				logrus.Warnf("Metrics endpoint stopped: %v", err)
			}
		}()
		logrus.Infof("Serving metrics on %s/metrics", cfg.MetricsAddr)
	}

	dnsResolver := resolver.NewDNSResolver(cfg.Resolvers, cfg.Timeout, logger)
	logrus.Infof("Resolving against %v", dnsResolver.Servers())

	coordinator := engine.NewCoordinator(*cfg, dnsResolver, printer, logger, metrics)
	if _, err := coordinator.Run(ctx); err != nil {
		return err
	}
	return nil
}

// buildRunConfig layers defaults, an optional profile, then config file,
// environment and flags.
func buildRunConfig(args []string) (*models.RunConfig, error) {
	cfg := models.DefaultRunConfig()

	if profile := viper.GetString("scan.profile"); profile != "" {
		path, err := profilePath(profile)
		if err != nil {
			return nil, err
		}
		if err := cfg.Load(path); err != nil {
			return nil, fmt.Errorf("load profile %s: %w", profile, err)
		}
	}

	if viper.IsSet("scan.wordlist") {
		cfg.Wordlist = viper.GetString("scan.wordlist")
	}
	if viper.IsSet("scan.threads") {
		cfg.Threads = viper.GetInt("scan.threads")
	}
	if viper.IsSet("scan.timeout") {
		cfg.Timeout = time.Duration(viper.GetInt("scan.timeout")) * time.Second
	}
	if viper.IsSet("scan.resolvers") {
		cfg.Resolvers = viper.GetStringSlice("scan.resolvers")
	}
	if viper.IsSet("scan.metrics_addr") {
		cfg.MetricsAddr = viper.GetString("scan.metrics_addr")
	}
	if viper.IsSet("scan.no_color") {
		cfg.NoColor = viper.GetBool("scan.no_color")
	}

	domain, err := targetDomain(args, viper.GetString("scan.url"))
	if err != nil {
		return nil, &engine.ConfigurationError{Err: err}
	}
	cfg.Domain = domain
	cfg.Clamp()

	if err := cfg.Validate(); err != nil {
		return nil, &engine.ConfigurationError{Err: err}
	}
	return cfg, nil
}

func targetDomain(args []string, rawURL string) (string, error) {
	var raw string
	switch {
	case rawURL != "":
		d, err := utils.DomainFromURL(rawURL)
		if err != nil {
			return "", fmt.Errorf("invalid url: %w", err)
		}
		raw = d
	case len(args) == 1:
		raw = args[0]
	default:
		return "", fmt.Errorf("please provide either a domain or a URL using -u/--url")
	}
	return utils.NormalizeDomain(raw)
}
