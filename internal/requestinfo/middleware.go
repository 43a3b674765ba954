// internal/requestinfo/middleware.go
//
// HTTP middleware that attaches a *RequestInfo to every request.
//
/*
Context
--------
server.NewRouter installs Enrich after chi's RealIP, Logger, and the alias
rewrite, so by the time it runs:

  • r.RemoteAddr already holds the client address taken from
    True-Client-IP, X-Real-IP, or X-Forwarded-For.
  • r.URL.Path is the canonical path, not the alias the browser asked for.

Enrich parses the User-Agent and Accept-Language headers once, resolves
the address against the optional GeoLite2 database, and stores the result
under an unexported context key.  The registration component reads the
bot flag; the debug page and the template helpers read the rest.

Notes
-----
  • Crawlers skip the Geo lookup.  Nothing downstream shows a bot its
    location.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package requestinfo

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/jkkniu-techhub/techhub/internal/logger"
)

// Enrich wraps next and stores a *RequestInfo in the request context.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := build(r, time.Now().UTC())

		if log := logger.FromContext(r.Context()); log.Level().Enabled(zapcore.DebugLevel) {
			log.Debugw("request info",
				"ip", info.Geo.IP,
				"country", info.Geo.CountryISO,
				"browser", info.UA.Browser,
				"device", info.UA.Device,
				"bot", info.UA.IsBot,
				"lang", info.UA.PrimaryLang)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, info)))
	})
}

// build assembles the RequestInfo for r.
func build(r *http.Request, now time.Time) *RequestInfo {
	ua := parseUA(r.UserAgent(), r.Header.Get("Accept-Language"))
	ip := remoteIP(r.RemoteAddr)

	geo := Geo{IP: ip}
	if !ua.IsBot {
		geo = lookupGeo(ip)
	}
	return &RequestInfo{UA: ua, Geo: geo, URL: r.URL, Timestamp: now}
}

// remoteIP parses "ip:port" or a bare address as left by chi's RealIP.
func remoteIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return net.ParseIP(addr)
}
