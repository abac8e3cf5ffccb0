package mail

import (
	_ "embed"
	"strings"
)

// disposable_domains.txt is the list published by github.com/disposable/disposable,
// one domain per line. It is embedded so the check works from any directory.
//
//go:embed disposable_domains.txt
var disposableList string

var disposableDomains = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, line := range strings.Split(disposableList, "\n") {
		if d := strings.ToLower(strings.TrimSpace(line)); d != "" && !strings.HasPrefix(d, "#") {
			m[d] = struct{}{}
		}
	}
	return m
}()

// isDisposable reports whether domain or any parent domain is a known
// throwaway mail provider.
func isDisposable(domain string) bool {
	domain = strings.TrimSuffix(strings.ToLower(domain), ".")
	for domain != "" {
		if _, ok := disposableDomains[domain]; ok {
			return true
		}
		dot := strings.IndexByte(domain, '.')
		if dot < 0 {
			return false
		}
		domain = domain[dot+1:]
	}
	return false
}
