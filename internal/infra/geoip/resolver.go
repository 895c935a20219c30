// Package geoip resolves client countries for access log enrichment.
package geoip

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Resolver answers country lookups from a MaxMind GeoLite2/GeoIP2
// country database file.
type Resolver struct{ db *geoip2.Reader }

// Open loads the database at path. An empty path means the deployment
// carries no GeoIP database; that is not an error, the caller just gets
// no resolver.
func Open(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: %w", err)
	}
	return &Resolver{db: db}, nil
}

// CountryCode returns the ISO 3166-1 code for addr, or "" when the
// database has no country for it.
func (r *Resolver) CountryCode(addr string) (string, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return "", fmt.Errorf("geoip: %q is not an ip address", addr)
	}
	country, err := r.db.Country(ip)
	if err != nil {
		return "", fmt.Errorf("geoip: %w", err)
	}
	return country.Country.IsoCode, nil
}

func (r *Resolver) Close() error { return r.db.Close() }
