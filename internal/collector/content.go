package collector

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"ricochet/internal/core/source"
	perr "ricochet/internal/platform/errors"
)

// fetchOptions configures how remote documents are read during
// collection — distinct from the link-checking HTTP client, which is
// the host pool's concern, not the collector's
type fetchOptions struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

func defaultFetchOptions() fetchOptions {
	return fetchOptions{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: "ricochet-linkcheck",
	}
}

// readContent loads the raw bytes behind a resolved input source and
// validates them as UTF-8, per spec: non-UTF-8 inputs fail early and
// abort only the one input, not the whole run
func readContent(ctx context.Context, src source.ResolvedInputSource, opts fetchOptions, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch src.Kind {
	case source.KindRemoteURL:
		data, err = fetchRemote(ctx, src.RemoteURL, opts)
	case source.KindFSPath:
		data, err = os.ReadFile(src.FSPath)
	case source.KindStdin:
		data, err = io.ReadAll(stdin)
	case source.KindString:
		data = []byte(src.Inline)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "read %s", src.String())
	}

	if !utf8.Valid(data) {
		return nil, perr.Newf(perr.ErrorCodeUTF8, "non-UTF-8 content from %s", src.String())
	}
	return data, nil
}

func fetchRemote(ctx context.Context, url string, opts fetchOptions) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(io.LimitReader(resp.Body, 64<<20))
}
