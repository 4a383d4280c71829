package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brogergvhs/scansdl/internal/chapters"
	"github.com/brogergvhs/scansdl/internal/config"
	"github.com/brogergvhs/scansdl/internal/downloader"
	"github.com/brogergvhs/scansdl/internal/notify"
	"github.com/brogergvhs/scansdl/internal/sites"
	"github.com/brogergvhs/scansdl/internal/transport"
	"github.com/brogergvhs/scansdl/internal/ui"
	"github.com/brogergvhs/scansdl/internal/util"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var ErrSelection = errors.New("give either a chapter range or --routine, not both")

var (
	// selection
	flagLang    string
	flagRoutine bool
	flagSite    string

	// runtime
	flagOutput  string
	flagThreads int
	flagCBZ     bool
	flagDryRun  bool
	flagNotify  bool
	flagWebhook string

	// transport
	flagTimeout    time.Duration
	flagRateLimit  float64
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
	flagCloudflare bool
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <manga> [chapters]",
		Short: "Download chapters (e.g. \"1-10,12.5\") or, with --routine, every chapter released since the last one on disk",
		Example: `  scansdl download "one piece" 1000-1005,1007 -l FR -t 8
  scansdl download "one piece" --routine`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runDownload,
	}

	f := downloadCmd.Flags()

	// selection
	f.StringVarP(&flagLang, "lang", "l", "", "scans language (FR, EN, DE, ITA)")
	f.BoolVarP(&flagRoutine, "routine", "r", false, "fetch chapters after the highest one already downloaded")
	f.StringVar(&flagSite, "site", "", "use a mirror host for the language's site")

	// runtime
	f.StringVarP(&flagOutput, "out-dir", "o", "", "base folder for the scans")
	f.IntVarP(&flagThreads, "threads", "t", 0, "parallel chapter downloads")
	f.BoolVar(&flagCBZ, "cbz", false, "also pack every finished chapter into a CBZ")
	f.BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don't download")
	f.BoolVar(&flagNotify, "notify", false, "desktop notification when --routine finds new chapters")
	f.StringVar(&flagWebhook, "webhook", "", "POST new chapters found by --routine to this URL")

	// transport
	f.DurationVar(&flagTimeout, "timeout", 0, "per request timeout (e.g. 30s)")
	f.Float64Var(&flagRateLimit, "rate-limit", 0, "max requests per second, 0 for no limit")
	f.StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	f.StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	f.StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	f.BoolVar(&flagCloudflare, "cloudflare-bypass", false, "mimic a browser TLS handshake for Cloudflare protected sites")

	rootCmd.AddCommand(downloadCmd)
}

// selection splits the positional args into the manga name and the
// chapter range, which is empty in routine mode.
func selection(args []string, routine bool) (manga, expr string, err error) {
	switch {
	case len(args) == 0:
		return "", "", fmt.Errorf("%w: missing manga name", ErrSelection)
	case len(args) > 2:
		return "", "", fmt.Errorf("%w: too many arguments", ErrSelection)
	case routine && len(args) == 2:
		return "", "", ErrSelection
	case !routine && len(args) == 1:
		return "", "", fmt.Errorf("%w: no chapters given", ErrSelection)
	}

	if len(args) == 2 {
		expr = args[1]
	}
	return args[0], expr, nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	mangaArg, expr, err := selection(args, flagRoutine)
	if err != nil {
		return err
	}

	cfg, usedPath, err := store().LoadMerged(config.Options{
		IgnoreConfig:     flagIgnoreConfig,
		Debug:            flagDebug,
		Output:           flagOutput,
		Lang:             flagLang,
		Threads:          flagThreads,
		Site:             flagSite,
		Timeout:          flagTimeout,
		RateLimit:        flagRateLimit,
		UserAgent:        flagUserAgent,
		Cookie:           flagCookie,
		CookieFile:       flagCookieFile,
		CloudflareBypass: flagCloudflare,
		CBZ:              flagCBZ,
		Notify:           flagNotify,
		WebhookURL:       flagWebhook,
	})
	if err != nil {
		return err
	}

	// everything that can be rejected offline is checked before the first request
	var ids []chapters.ID
	if !flagRoutine {
		if ids, err = chapters.ParseRange(expr); err != nil {
			return err
		}
	}

	lang, err := sites.ParseLang(cfg.Lang)
	if err != nil {
		return err
	}
	variant, err := sites.Lookup(lang)
	if err != nil {
		return err
	}
	if cfg.Site != "" {
		variant = variant.WithSite(cfg.Site)
	}

	out := cmd.OutOrStdout()
	runID := uuid.NewString()[:8]
	log := ui.NewLogger(cfg.Debug, out).With("run", runID)

	log.Debugf("Config file: %s", usedPath)
	if cfg.Debug {
		cfg.Print(out)
	}

	client, err := transport.New(transport.Options{
		Timeout:          cfg.Timeout,
		UserAgent:        transport.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		RateLimit:        cfg.RateLimit,
		RateBurst:        cfg.RateBurst,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      log,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	manga := chapters.Title(mangaArg)

	slug, err := sites.Resolve(ctx, client, variant, manga)
	if err != nil {
		return err
	}
	log.Debugf("Resolved %q to %s", manga, variant.MangaURL(slug))

	layout := chapters.NewLayout(cfg.Output, manga, string(lang))

	if flagDryRun {
		return dryRun(out, variant, slug, layout, ids)
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}
	util.SetupInterruptHandler(layout.Root)

	pm := ui.NewProgressManager(out, manga)
	defer pm.Close()

	// log lines go above the bars while they render
	log.Redirect(pm)
	defer log.Redirect(out)

	fetcher := downloader.NewFetcher(downloader.FetcherOptions{
		Getter:  client,
		Variant: variant,
		Slug:    slug,
		Layout:  layout,
		Archive: cfg.CBZ,
		Logger:  log,
	})

	start := time.Now()
	var results []downloader.Result

	if flagRoutine {
		n := notify.New(manga, string(lang), layout, notifySenders(cfg, log, runID)...)
		outcome, err := downloader.NewAdvancer(fetcher, pm, n, layout.Root, log).Run(ctx)
		if err != nil {
			return err
		}
		if outcome.NothingToDo {
			pm.Close()
			fmt.Fprintf(out, "Nothing to do: no chapters in %s yet. Download some first.\n", layout.Root)
			return nil
		}
		// the final attempt failing is how the routine knows it is caught up
		results = outcome.Downloaded()
	} else {
		results = downloader.NewDistributor(fetcher, pm, cfg.Threads, log).Run(ctx, ids)
	}
	pm.Close()

	stats := &ui.Stats{}
	stats.Collect(results...)
	stats.Print(out, time.Since(start))

	if len(stats.Failed) > 0 {
		return fmt.Errorf("%d of %d chapters failed", len(stats.Failed), len(results))
	}
	return nil
}

func notifySenders(cfg *config.Config, log *ui.Logger, runID string) []notify.Sender {
	senders := []notify.Sender{notify.Log{L: log}}
	if cfg.Notify.Desktop {
		senders = append(senders, notify.NewDesktop(cfg.Notify.IconsDir))
	}
	if cfg.Notify.WebhookURL != "" {
		senders = append(senders, notify.NewWebhook(cfg.Notify.WebhookURL, runID))
	}
	return senders
}

func dryRun(w io.Writer, v sites.Variant, slug string, layout chapters.Layout, ids []chapters.ID) error {
	if ids == nil {
		last, ok, err := downloader.LastChapter(layout.Root)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(w, "Dry-run: nothing to do, no chapters in %s yet.\n", layout.Root)
			return nil
		}
		next := last.Next()
		fmt.Fprintf(w, "Dry-run: last chapter on disk is %s, would try %s onwards.\n\n", last, next)
		ids = []chapters.ID{next}
	} else {
		fmt.Fprintf(w, "Dry-run: %d chapters selected.\n\n", len(ids))
	}

	for i, id := range ids {
		fmt.Fprintf(w, "%3d) Chapter %s\n    %s\n    -> %s\n", i+1, id, v.ChapterURL(slug, id), layout.ChapterDir(id))
	}
	return nil
}
