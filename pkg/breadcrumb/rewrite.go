package breadcrumb

import (
	"net/url"
	"strings"

	"github.com/matzehuels/crumbtrail/pkg/errors"
)

// Rewrite returns a copy of chain in which every relative path has been
// resolved against urlPrefix. Absolute paths are left alone.
//
// A blank urlPrefix returns chain itself. A urlPrefix that does not parse
// as a URL fails the whole call with INVALID_URL_PREFIX before any node is
// rewritten.
func Rewrite[PK comparable](chain Chain[PK], urlPrefix string) (Chain[PK], error) {
	if strings.TrimSpace(urlPrefix) == "" {
		return chain, nil
	}

	base, err := url.Parse(urlPrefix)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURLPrefix, err, "parse url prefix %q", urlPrefix)
	}

	out := chain.Clone()
	for i := range out {
		if IsAbsolutePath(out[i].Path) {
			continue
		}
		joined, err := UnionURL(base, out[i].Path)
		if err != nil {
			return nil, err
		}
		out[i].Path = joined
	}
	return out, nil
}

// IsAbsolutePath reports whether p needs no prefix: it either carries a
// scheme ("https://x.test/a", "mailto:a@x.test") or is protocol-relative
// ("//cdn.x.test/a"). Strings that do not parse as URL references are not
// absolute.
func IsAbsolutePath(p string) bool {
	if strings.HasPrefix(p, "//") {
		return true
	}
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// UnionURL resolves the reference p against base following RFC 3986.
//
//	base "http://x.test/base/", p "a/b"  ->  "http://x.test/base/a/b"
//	base "http://x.test/base",  p "a/b"  ->  "http://x.test/a/b"
//	base "http://x.test/base/", p "/a"   ->  "http://x.test/a"
func UnionURL(base *url.URL, p string) (string, error) {
	ref, err := url.Parse(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "parse path %q", p)
	}
	return base.ResolveReference(ref).String(), nil
}
