// Command ricochet is the link-checker CLI: it resolves a set of
// inputs into requests, checks each one, and reports the outcome with
// an exit code reflecting whether anything failed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"ricochet/internal/adapters/archive"
	"ricochet/internal/adapters/chain"
	"ricochet/internal/adapters/filecheck"
	"ricochet/internal/adapters/github"
	"ricochet/internal/adapters/hostpool"
	"ricochet/internal/adapters/mailcheck"
	"ricochet/internal/adapters/website"
	"ricochet/internal/collector"
	"ricochet/internal/core/cache"
	"ricochet/internal/core/filter"
	"ricochet/internal/core/remap"
	"ricochet/internal/core/source"
	"ricochet/internal/core/status"
	"ricochet/internal/extract"
	perr "ricochet/internal/platform/errors"
	"ricochet/internal/platform/logger"
	"ricochet/internal/request"
	"ricochet/internal/runner"
	"ricochet/internal/stats"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 3
	}

	cfg, err := buildConfig(flags)
	if err != nil {
		return reportFailure(err)
	}

	runID := uuid.NewString()
	ctx := logger.WithRequest(context.Background(), "", runID)
	log := logger.C(ctx)

	inputs := classifyInputs(positional)
	if len(inputs) == 0 {
		log.Warn().Msg("no inputs given")
	}

	if cfg.DumpInputs {
		return dumpInputs(inputs)
	}

	baseURI, err := resolveBase(cfg.Base)
	if err != nil {
		return reportFailure(configError("parse --base: %w", err))
	}

	builder := request.New(request.Options{ExplicitBase: baseURI, IncludeFragments: cfg.IncludeFragments})

	f, err := filter.New(filter.Config{
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		IPExcludes:  cfg.IPExcludes,
		ExcludeMail: cfg.ExcludeMail,
		Schemes:     cfg.Schemes,
	})
	if err != nil {
		return reportFailure(configError("build filter: %w", err))
	}

	col := collector.New(collector.Options{
		Concurrency: cfg.MaxConcurrency,
		ExtractOpts: extract.Options{IncludeMail: true},
		Builder:     builder,
		Filter:      f,
		UserAgent:   cfg.UserAgent,
	})

	items := col.Stream(ctx, inputs)

	if cfg.Dump {
		return dumpRequests(items)
	}

	rm, err := remap.New(cfg.Remaps)
	if err != nil {
		return reportFailure(configError("build remap table: %w", err))
	}

	var c *cache.Cache
	if cfg.UseCache {
		c, err = cache.Load(cfg.CachePath, cfg.CacheMaxAge, time.Now())
		if err != nil {
			log.Warn().Err(err).Msg("failed to load cache, starting empty")
			c = cache.New()
		}
	}

	pool := hostpool.New(func(string) hostpool.Config {
		return hostpool.Config{
			Concurrency:        cfg.MaxConcurrency,
			MaxRedirects:       cfg.MaxRedirects,
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: cfg.Insecure,
			MinTLSVersion:      cfg.MinTLSVersion,
		}
	}, cfg.Headers)

	ghClient := github.NewClient(github.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Token:     cfg.GitHubToken,
	})

	websiteHandler := website.NewHandler(website.Config{
		Accept:       cfg.Accept,
		MaxRetries:   cfg.MaxRetries,
		RetryWait:    cfg.RetryWaitTime,
		GitHubProbe:  github.NewProbe(ghClient),
		HasGitHubTok: cfg.GitHubToken != "",
	})
	handlerChain := chain.New(chain.NewQuirksHandler(), websiteHandler)

	checkers := runner.Checkers{
		Mail:    mailcheck.New(mailcheck.Config{Enabled: cfg.MailEnabled, Timeout: cfg.Timeout}),
		File:    filecheck.New(filecheck.Config{FallbackExtensions: cfg.FallbackExtensions, IncludeFragments: cfg.IncludeFragments}),
		Pool:    pool,
		Chain:   handlerChain,
		Method:  cfg.Method,
		Archive: archive.NewProbe(archive.Config{Enabled: cfg.ArchiveEnabled, UserAgent: cfg.UserAgent, Timeout: cfg.Timeout}),
	}

	rn := runner.New(runner.Options{
		Concurrency:        cfg.MaxConcurrency,
		Remapper:           rm,
		Filter:             f,
		Cache:              c,
		Checkers:           checkers,
		CacheExcludeStatus: cfg.CacheExcludeStatus,
	})

	agg := stats.New()
	requests := requestsOnly(items, agg)
	responses := rn.Run(ctx, requests)
	agg.Drain(responses)

	if cfg.UseCache && c != nil {
		if err := c.Persist(cfg.CachePath); err != nil {
			log.Warn().Err(err).Msg("failed to persist cache")
		}
	}

	summary := agg.Finalize(pool)

	out := os.Stdout
	if cfg.Output != "" {
		outFile, err := os.Create(cfg.Output)
		if err != nil {
			return reportFailure(fmt.Errorf("open --output %q: %w", cfg.Output, err))
		}
		defer outFile.Close()
		out = outFile
	}
	stats.WritePlainText(out, summary)

	if summary.FailedAny {
		return 2
	}
	return 0
}

// requestsOnly adapts the collector's Item stream into the plain
// Request stream the runner consumes, surfacing collection failures as
// synthetic RequestError responses (recorded directly into agg under
// the "error:" URI) instead of silently dropping them
func requestsOnly(items <-chan collector.Item, agg *stats.Aggregator) <-chan request.Request {
	out := make(chan request.Request)
	go func() {
		defer close(out)
		for it := range items {
			if it.Err != nil {
				logger.Get().Error().Err(it.Err).Str("source", it.Source.String()).Msg("input resolution failed")
				agg.Add(status.Response{
					URI:    "error:",
					Status: status.RequestErrorf(perr.CodeOf(it.Err), it.Err.Error()),
					Source: it.Source,
				})
				continue
			}
			out <- it.Request
		}
	}()
	return out
}

// dumpInputs implements --dump-inputs: expand every input (globs
// included) and print the resolved list without reading any content
func dumpInputs(inputs []source.InputSource) int {
	resolved, err := collector.ResolveInputs(inputs)
	if err != nil {
		return reportFailure(err)
	}
	for _, r := range resolved {
		fmt.Println(r.String())
	}
	return 0
}

// dumpRequests implements --dump: drain the collector's stream and
// print each resolved request's URI without checking any of them
func dumpRequests(items <-chan collector.Item) int {
	failed := false
	for it := range items {
		if it.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", it.Source.String(), it.Err)
			failed = true
			continue
		}
		fmt.Println(it.Request.URI.String())
	}
	if failed {
		return 1
	}
	return 0
}

func reportFailure(err error) int {
	var ec *exitCode
	if errors.As(err, &ec) {
		fmt.Fprintln(os.Stderr, ec.err)
		return ec.code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}
