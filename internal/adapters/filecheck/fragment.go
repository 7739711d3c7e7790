package filecheck

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ricochet/internal/core/status"
	perr "ricochet/internal/platform/errors"
	"ricochet/internal/platform/logger"
)

func decodePath(p string) (string, error) {
	return url.PathUnescape(p)
}

// checkFragment parses the target at path as HTML or Markdown and
// reports whether frag is a known anchor. Parse errors are logged and
// treated as "fragment present" per §4.8: a file we can't inspect is
// never the reason a link gets reported broken.
func checkFragment(path, frag string) status.Status {
	f, err := os.Open(path)
	if err != nil {
		logger.Get().Warn().Err(err).Str("path", path).Msg("cannot open fragment target, treating fragment as present")
		return status.Ok(200)
	}
	defer f.Close()

	var anchors map[string]struct{}
	if isMarkdown(path) {
		anchors, err = markdownAnchors(f)
	} else {
		anchors, err = htmlAnchors(f)
	}
	if err != nil {
		logger.Get().Warn().Err(err).Str("path", path).Msg("cannot parse fragment target, treating fragment as present")
		return status.Ok(200)
	}

	if _, ok := anchors[frag]; ok {
		return status.Ok(200)
	}
	return status.Errorf(perr.ErrorCodeInvalidFragment, "no matching anchor for #"+frag)
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	default:
		return false
	}
}

func htmlAnchors(f *os.File) (map[string]struct{}, error) {
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}
	anchors := map[string]struct{}{}
	doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			anchors[id] = struct{}{}
		}
	})
	doc.Find("a[name]").Each(func(_ int, s *goquery.Selection) {
		if name, ok := s.Attr("name"); ok && name != "" {
			anchors[name] = struct{}{}
		}
	})
	return anchors, nil
}

var headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// markdownAnchors computes GitHub-style heading slugs: lowercase,
// strip everything except letters and digits (of any script), spaces,
// '_' and '-', spaces to hyphens, and a
// numeric suffix (-1, -2, ...) for each repeat of the same slug
func markdownAnchors(f *os.File) (map[string]struct{}, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	anchors := map[string]struct{}{}
	seen := map[string]int{}
	inFence := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		m := headingRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		slug := slugify(m[2])
		if n, ok := seen[slug]; ok {
			seen[slug] = n + 1
			slug = slug + "-" + strconv.Itoa(n+1)
		} else {
			seen[slug] = 0
		}
		anchors[slug] = struct{}{}
	}
	return anchors, nil
}

var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_ -]`)

func slugify(heading string) string {
	h := strings.ToLower(strings.TrimSpace(heading))
	h = slugStrip.ReplaceAllString(h, "")
	h = strings.ReplaceAll(h, " ", "-")
	return h
}

