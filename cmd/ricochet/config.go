package main

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ricochet/internal/core/filter"
	"ricochet/internal/core/remap"
)

// config is the fully resolved, validated run configuration built from
// cliFlags plus the environment
type config struct {
	Include []string `validate:"dive,required"`
	Exclude []string `validate:"dive,required"`

	IPExcludes  filter.IPPredicates
	ExcludeMail bool
	Schemes     []string

	Method         string        `validate:"required"`
	Timeout        time.Duration `validate:"gte=0"`
	MaxRedirects   int           `validate:"gte=0"`
	MaxRetries     int           `validate:"gte=0"`
	RetryWaitTime  time.Duration `validate:"gte=0"`
	MaxConcurrency int           `validate:"gt=0"`

	Base string

	Remaps  []remap.Rule
	Headers map[string]string

	UserAgent string `validate:"required"`

	Insecure      bool
	MinTLSVersion uint16

	GitHubToken string

	Accept func(code int) bool

	UseCache           bool
	CacheExcludeStatus map[int]bool
	CacheMaxAge        time.Duration `validate:"gte=0"`
	CachePath          string

	IncludeFragments   bool
	FallbackExtensions []string

	Dump       bool
	DumpInputs bool
	Format     string
	Output     string

	ArchiveEnabled bool
	MailEnabled    bool
}

// exitCode is a sentinel error carrying the process exit status a
// config/runtime failure should produce, so main can propagate it
// without re-deriving the classification
type exitCode struct {
	code int
	err  error
}

func (e *exitCode) Error() string { return e.err.Error() }
func (e *exitCode) Unwrap() error { return e.err }

// configError wraps a failure discovered while building config from
// flags — always exit code 3 per spec.md §6 ("configuration-file parse
// error")
func configError(format string, args ...any) error {
	return &exitCode{code: 3, err: fmt.Errorf(format, args...)}
}

func buildConfig(f cliFlags) (config, error) {
	remaps, err := parseRemaps(f.remaps)
	if err != nil {
		return config{}, configError("parse --remap: %w", err)
	}
	if _, err := remap.New(remaps); err != nil {
		return config{}, configError("invalid remap rule: %w", err)
	}

	headers, err := parseHeaders(f.headers)
	if err != nil {
		return config{}, configError("parse --header: %w", err)
	}

	schemes := f.schemes
	if f.offline {
		schemes = []string{"file"}
	}

	accept, err := parseAcceptSpec(f.accept)
	if err != nil {
		return config{}, configError("parse --accept: %w", err)
	}

	minTLS, err := parseTLSVersion(f.minTLS)
	if err != nil {
		return config{}, configError("parse --min-tls: %w", err)
	}

	excludeStatus, err := parseStatusSet(f.cacheExcludeStatus)
	if err != nil {
		return config{}, configError("parse --cache-exclude-status: %w", err)
	}

	token := f.githubToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	cfg := config{
		Include:            f.include,
		Exclude:            f.exclude,
		IPExcludes:         filter.IPPredicates{AllPrivate: f.excludeAllPrivate, Private: f.excludePrivate, LinkLocal: f.excludeLinkLocal, Loopback: f.excludeLoopback},
		ExcludeMail:        f.excludeMail,
		Schemes:            schemes,
		Method:             f.method,
		Timeout:            time.Duration(f.timeout) * time.Second,
		MaxRedirects:       f.maxRedirects,
		MaxRetries:         f.maxRetries,
		RetryWaitTime:      time.Duration(f.retryWaitTime) * time.Second,
		MaxConcurrency:     f.maxConcurrency,
		Base:               f.base,
		Remaps:             remaps,
		Headers:            headers,
		UserAgent:          f.userAgent,
		Insecure:           f.insecure,
		MinTLSVersion:      minTLS,
		GitHubToken:        token,
		Accept:             accept,
		UseCache:           f.cache && !f.noCache,
		CacheExcludeStatus: excludeStatus,
		CacheMaxAge:        time.Duration(f.cacheMaxAge) * time.Second,
		CachePath:          f.cachePath,
		IncludeFragments:   f.includeFragments,
		FallbackExtensions: f.fallbackExtensions,
		Dump:               f.dump,
		DumpInputs:         f.dumpInputs,
		Format:             f.format,
		Output:             f.output,
		ArchiveEnabled:     f.archive,
		MailEnabled:        f.mailCheck,
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return config{}, configError("invalid configuration: %w", err)
	}
	if cfg.Format != "plain" {
		return config{}, configError("unsupported --format %q (only \"plain\" is implemented)", cfg.Format)
	}

	return cfg, nil
}

func parseRemaps(raw []string) ([]remap.Rule, error) {
	rules := make([]remap.Rule, 0, len(raw))
	for _, r := range raw {
		parts := strings.SplitN(strings.TrimSpace(r), " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected \"regex target-url\", got %q", r)
		}
		rules = append(rules, remap.Rule{Pattern: parts[0], Target: parts[1]})
	}
	return rules, nil
}

func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		k, v, ok := strings.Cut(h, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", h)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}

func parseStatusSet(raw []string) (map[int]bool, error) {
	out := make(map[int]bool, len(raw))
	for _, entry := range raw {
		for _, s := range strings.Split(entry, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			code, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid status code %q", s)
			}
			out[code] = true
		}
	}
	return out, nil
}

func parseTLSVersion(v string) (uint16, error) {
	switch strings.TrimSpace(v) {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.0":
		return tls.VersionTLS10, nil
	case "1.1":
		return tls.VersionTLS11, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unrecognized TLS version %q", v)
	}
}
