package stats

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"ricochet/internal/core/status"
)

// kindOrder is the fixed display order for the by-kind count table,
// successes first so a quick glance shows the healthy total up top
var kindOrder = []status.Kind{
	status.KindOk,
	status.KindRedirected,
	status.KindCached,
	status.KindExcluded,
	status.KindUnsupported,
	status.KindUnknownStatusCode,
	status.KindTimeout,
	status.KindError,
	status.KindRequestError,
}

// WritePlainText renders the summary as an aligned text table: overall
// counts by status kind, then one block per input source listing its
// failures, matching how spec.md frames the only required formatter
func WritePlainText(w io.Writer, s Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "TOTAL\t%d\n", s.Total)
	for _, k := range kindOrder {
		if n := s.ByKind[k]; n > 0 {
			fmt.Fprintf(tw, "%s\t%d\n", k.String(), n)
		}
	}
	tw.Flush()

	sources := s.SortedSources()
	if len(sources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "FAILURES")
		for _, src := range sources {
			fmt.Fprintf(w, "  %s\n", src)
			ftw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			for _, f := range s.Failures[src] {
				fmt.Fprintf(ftw, "    %s\t%s\t%s\n", f.Status.CodeAsString(), f.URI, f.Status.Reason)
			}
			ftw.Flush()
		}
	}

	if len(s.HostStats) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "HOSTS")
		htw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(htw, "  host\ttotal\tsuccess\t4xx\t5xx\trate-limited\tavg latency")
		for _, host := range sortedHostKeys(s.HostStats) {
			hs := s.HostStats[host]
			fmt.Fprintf(htw, "  %s\t%d\t%d\t%d\t%d\t%d\t%s\n",
				host, hs.Total, hs.Success, hs.Client4xx, hs.Server5xx, hs.RateLimited, hs.AvgLatency)
		}
		htw.Flush()
	}
}

func sortedHostKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
