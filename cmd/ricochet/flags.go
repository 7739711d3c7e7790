package main

import (
	flag "github.com/spf13/pflag"
)

// cliFlags mirrors the surface named in spec.md §6. Defaults live here;
// buildConfig turns the parsed values into a validated Config.
type cliFlags struct {
	include            []string
	exclude            []string
	excludeAllPrivate  bool
	excludePrivate     bool
	excludeLinkLocal   bool
	excludeLoopback    bool
	excludeMail        bool
	schemes            []string
	method             string
	timeout            int
	maxRedirects       int
	maxRetries         int
	retryWaitTime      int
	maxConcurrency     int
	base               string
	remaps             []string
	headers            []string
	userAgent          string
	insecure           bool
	minTLS             string
	githubToken        string
	accept             string
	cache              bool
	noCache            bool
	cacheExcludeStatus []string
	cacheMaxAge        int
	cachePath          string
	includeFragments   bool
	fallbackExtensions []string
	offline            bool
	dump               bool
	dumpInputs         bool
	format             string
	output             string
	archive            bool
	mailCheck          bool
}

func parseFlags(args []string) (cliFlags, []string, error) {
	fs := flag.NewFlagSet("ricochet", flag.ContinueOnError)

	var f cliFlags
	fs.StringArrayVar(&f.include, "include", nil, "only check references matching this regex (repeatable)")
	fs.StringArrayVar(&f.exclude, "exclude", nil, "skip references matching this regex (repeatable)")
	fs.BoolVar(&f.excludeAllPrivate, "exclude-all-private", false, "exclude all private/loopback/link-local IP literals")
	fs.BoolVar(&f.excludePrivate, "exclude-private", false, "exclude private IP literals")
	fs.BoolVar(&f.excludeLinkLocal, "exclude-link-local", false, "exclude link-local IP literals")
	fs.BoolVar(&f.excludeLoopback, "exclude-loopback", false, "exclude loopback IP literals")
	fs.BoolVar(&f.excludeMail, "exclude-mail", false, "exclude mailto: references")
	fs.StringArrayVar(&f.schemes, "scheme", nil, "restrict checking to these schemes (repeatable)")
	fs.StringVar(&f.method, "method", "GET", "HTTP method used for website checks")
	fs.IntVar(&f.timeout, "timeout", 20, "per-request timeout in seconds")
	fs.IntVar(&f.maxRedirects, "max-redirects", 10, "maximum redirects to follow")
	fs.IntVar(&f.maxRetries, "max-retries", 3, "maximum retry attempts on a transient failure")
	fs.IntVar(&f.retryWaitTime, "retry-wait-time", 1, "initial retry backoff in seconds")
	fs.IntVar(&f.maxConcurrency, "max-concurrency", 8, "maximum concurrent checks")
	fs.StringVar(&f.base, "base", "", "base URL or directory for resolving relative references")
	fs.StringArrayVar(&f.remaps, "remap", nil, `rewrite rule as "regex target-url" (repeatable)`)
	fs.StringArrayVar(&f.headers, "header", nil, "extra request header as name=value (repeatable)")
	fs.StringVar(&f.userAgent, "user-agent", "ricochet-linkcheck", "User-Agent sent with every request")
	fs.BoolVar(&f.insecure, "insecure", false, "skip TLS certificate verification")
	fs.StringVar(&f.minTLS, "min-tls", "1.2", "minimum TLS version (1.0, 1.1, 1.2, 1.3)")
	fs.StringVar(&f.githubToken, "github-token", "", "GitHub token for the REST fallback (env GITHUB_TOKEN)")
	fs.StringVar(&f.accept, "accept", "", `accepted status-code ranges, e.g. "200..=204,429"`)
	fs.BoolVar(&f.cache, "cache", true, "persist and reuse a result cache across runs")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the result cache for this run")
	fs.StringArrayVar(&f.cacheExcludeStatus, "cache-exclude-status", nil, "status codes never written to the cache")
	fs.IntVar(&f.cacheMaxAge, "cache-max-age", 86400, "cache entry lifetime in seconds")
	fs.StringVar(&f.cachePath, "cache-file", ".ricochet.cache.csv", "path to the cache file")
	fs.BoolVar(&f.includeFragments, "include-fragments", false, "verify that fragment identifiers resolve to an anchor or heading")
	fs.StringArrayVar(&f.fallbackExtensions, "fallback-extensions", nil, "extensions tried when a bare file reference doesn't resolve")
	fs.BoolVar(&f.offline, "offline", false, "equivalent to --scheme file")
	fs.BoolVar(&f.dump, "dump", false, "print resolved requests without checking them")
	fs.BoolVar(&f.dumpInputs, "dump-inputs", false, "print resolved input sources without reading them")
	fs.StringVar(&f.format, "format", "plain", "report format (only plain is implemented)")
	fs.StringVar(&f.output, "output", "", "write the report here instead of stdout")
	fs.BoolVar(&f.archive, "archive", false, "fall back to the Wayback Machine for otherwise-broken links")
	fs.BoolVar(&f.mailCheck, "mail-check", false, "probe mailto: addresses over SMTP instead of excluding them")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, nil, err
	}
	return f, fs.Args(), nil
}
