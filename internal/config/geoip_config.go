package config

type GeoIPConfig interface {
	GetGeoIPAccountID() string
	GetGeoIPLicenseKey() string
}

type GeoIP struct{}

var _ GeoIPConfig = GeoIP{}

func (GeoIP) GetGeoIPAccountID() string {
	return GetEnv("GEOIP2_ACCOUNT_ID", "")
}

func (GeoIP) GetGeoIPLicenseKey() string {
	return GetEnv("GEOIP2_LICENSE_KEY", "")
}
