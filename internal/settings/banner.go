// internal/settings/banner.go
//
// Startup banner derived from resolved settings.

package settings

import (
	"fmt"
	"net/url"
)

// Banner returns a one-line summary of the listening address and database
// scheme for startup logging.  Advisory output only: an unparsable
// database_url degrades to a placeholder instead of failing, so the
// banner can never block startup reporting.
func (s *Settings) Banner() string {
	scheme := "<invalid db>"
	if u, err := url.Parse(s.DatabaseURL); err == nil && u.Scheme != "" {
		scheme = u.Scheme
	}
	return fmt.Sprintf("http://%s:%d (%s)", s.Host, s.Port, scheme)
}
