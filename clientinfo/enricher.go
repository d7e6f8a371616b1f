package clientinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/popudev/server-ecommerce/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultGeoIPBaseURL = "https://geolite.info/geoip/v2.1/city"

// Enricher turns the raw request facts (user agent, remote address) into the
// session metadata recorded at login time. A failed or unconfigured geo lookup
// never blocks a login; the location simply stays empty.
type Enricher struct {
	accountID  string
	licenseKey string

	// BaseURL is the GeoLite city endpoint. Can be overridden for testing.
	BaseURL string

	// HTTPClient is used for lookups. Defaults to a short-timeout client so a
	// slow geo service cannot stall logins.
	HTTPClient *http.Client
}

func NewEnricher(accountID, licenseKey string) *Enricher {
	return &Enricher{
		accountID:  accountID,
		licenseKey: licenseKey,
		BaseURL:    defaultGeoIPBaseURL,
		HTTPClient: &http.Client{Timeout: 3 * time.Second},
	}
}

// FromRequest builds session metadata for an incoming HTTP request.
func (e *Enricher) FromRequest(ctx context.Context, r *http.Request) sessions.Metadata {
	agent, os, device := ClassifyUserAgent(r.UserAgent())
	meta := sessions.Metadata{
		Agent:  agent,
		OS:     os,
		Device: device,
	}

	ip := clientIP(r)
	if ip == "" {
		return meta
	}

	location, err := e.lookupCity(ctx, ip)
	if err != nil {
		log.Debug().Err(err).Str("ip", ip).Msg("geo lookup failed")
		return meta
	}
	meta.Location = location

	return meta
}

func (e *Enricher) lookupCity(ctx context.Context, ip string) (string, error) {
	if e.accountID == "" || e.licenseKey == "" {
		return "", errors.New("[Enricher.lookupCity] geoip credentials not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.BaseURL+"/"+ip, nil)
	if err != nil {
		return "", errors.Wrap(err, "[Enricher.lookupCity] NewRequest")
	}
	req.SetBasicAuth(e.accountID, e.licenseKey)

	response, err := e.HTTPClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[Enricher.lookupCity] Do")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", errors.Errorf("[Enricher.lookupCity] geoip status %d", response.StatusCode)
	}

	var city struct {
		City struct {
			Names map[string]string `json:"names"`
		} `json:"city"`
		Country struct {
			Names map[string]string `json:"names"`
		} `json:"country"`
	}
	if err := json.NewDecoder(response.Body).Decode(&city); err != nil {
		return "", errors.Wrap(err, "[Enricher.lookupCity] decode")
	}

	cityName := city.City.Names["en"]
	countryName := city.Country.Names["en"]
	switch {
	case cityName != "" && countryName != "":
		return fmt.Sprintf("%s, %s", cityName, countryName), nil
	case countryName != "":
		return countryName, nil
	default:
		return "", errors.New("[Enricher.lookupCity] empty geoip record")
	}
}

// clientIP picks the originating address, honoring X-Forwarded-For when the
// request came through a proxy. Loopback addresses yield "" since the geo
// service cannot resolve them.
func clientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	} else {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}

	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsUnspecified() {
		return ""
	}
	return ip
}
