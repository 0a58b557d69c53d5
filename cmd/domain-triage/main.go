package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/WangYihang/domain-triage/pkg/common"
	"github.com/WangYihang/domain-triage/pkg/config"
	"github.com/WangYihang/domain-triage/pkg/domain/entity"
	"github.com/WangYihang/domain-triage/pkg/infrastructure/metrics"
	"github.com/WangYihang/domain-triage/pkg/interface/cli"
	"github.com/WangYihang/domain-triage/pkg/interface/presenter"
	"github.com/WangYihang/domain-triage/pkg/interface/web"
	"github.com/WangYihang/domain-triage/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command line flags
	opts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(common.PV.String())
		return
	}

	log, err := logger.New(opts.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.RedirectStandardLog(log)

	cfg, err := opts.RuntimeConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Cancel on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch opts.Command {
	case cli.CommandClassify:
		err = runClassify(ctx, opts, cfg, log)
	case cli.CommandServe:
		err = runServe(ctx, opts, cfg, log)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runClassify(ctx context.Context, opts *cli.Config, cfg *config.Config, log zerolog.Logger) error {
	useCase, err := cli.NewAssembler(cfg, log, nil).AssembleUseCase()
	if err != nil {
		return err
	}
	domain := opts.Classify.Args.Domain

	var verdict *entity.Verdict
	if !opts.Classify.JSON && common.IsInteractive() {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		spinner := presenter.NewSpinner(domain, func() *entity.Verdict {
			return useCase.Classify(runCtx, domain)
		}, cancel)
		if _, err := tea.NewProgram(spinner).Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		verdict = spinner.Verdict()
		if verdict == nil {
			fmt.Fprintln(os.Stderr, "Interrupted")
			return nil
		}
	} else {
		verdict = useCase.Classify(ctx, domain)
	}

	if opts.Classify.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(verdict)
	}
	fmt.Println(presenter.RenderVerdict(verdict, common.TerminalWidth()))
	return nil
}

func runServe(ctx context.Context, opts *cli.Config, cfg *config.Config, log zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	useCase, err := cli.NewAssembler(cfg, log, registry).AssembleUseCase()
	if err != nil {
		return err
	}

	servers := []*http.Server{{
		Addr:              opts.Serve.Listen,
		Handler:           web.NewRouter(web.New(useCase, log)),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if opts.Serve.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(registry))
		servers = append(servers, &http.Server{
			Addr:              opts.Serve.MetricsListen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Info().Str("addr", srv.Addr).Str("profile", cfg.Profile.Name).Msg("Listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
