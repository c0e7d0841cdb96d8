// filename: internal/normalizer/parsers/mapping.go
package parsers

import (
	"net/netip"
	"strings"

	"github.com/novasec/honeydash/internal/models"
)

// Фиксированные аннотации MITRE
var (
	mitreBruteForce     = models.Mitre{Tactic: "Credential Access", Technique: "Brute Force", ID: "T1110"}
	mitreSessionDefault = models.Mitre{Tactic: "Execution", Technique: "Command and Control"}
)

// mapGeo переводит гео-блок записи в фасет события; пустой блок дает nil // v1.0
func mapGeo(ctx *Context, g *models.RawGeo) *models.Geo {
	if g == nil {
		return nil
	}

	var loc *models.Location
	switch {
	case g.Location != nil && g.Location.Lat.Valid && g.Location.Lon.Valid:
		loc = &models.Location{Lat: g.Location.Lat.Value, Lon: g.Location.Lon.Value}
	case g.Lat.Valid && g.Lon.Valid:
		loc = &models.Location{Lat: g.Lat.Value, Lon: g.Lon.Value}
	}

	if g.Country == "" && g.CountryISOCode == "" && g.City == "" && g.CityName == "" &&
		loc == nil && g.ASN == "" && g.ASNOrg == "" {
		return nil
	}

	iso := ctx.Geo.NormalizeISO2(g.CountryISOCode, g.Country)
	if iso == "" {
		iso = g.Country
	}

	return &models.Geo{
		CountryISOCode: iso,
		CityName:       firstNonEmpty(g.CityName, g.City),
		Location:       loc,
		ASN:            g.ASN,
		ASNOrg:         g.ASNOrg,
	}
}

// composeURL собирает URL из хоста и пути; хост со схемой используется как есть // v1.0
func composeURL(scheme, host, path string) string {
	if host == "" {
		return ""
	}
	base := host
	if !strings.HasPrefix(host, "http") {
		base = scheme + "://" + host
	}
	return base + path
}

// schemeFor выбирает https для протокола https или порта 443 // v1.0
func schemeFor(protocol string, port int) string {
	if strings.EqualFold(protocol, "https") || port == 443 {
		return "https"
	}
	return "http"
}

// mapHTTP строит HTTP фасет записи одиночной пробы // v1.0
func mapHTTP(rec *models.RawRecord) *models.HTTP {
	var direct, host, path string
	if rec.HTTP != nil {
		direct = rec.HTTP.URL
		host = rec.HTTP.Hostname
		path = rec.HTTP.Path
	}
	host = firstNonEmpty(host, rec.RawString("dst_host"), rec.RawString("logdata", "HOSTNAME"))
	path = firstNonEmpty(path, rec.RawString("logdata", "PATH"))

	rawPort, _ := rec.RawNumber("dst_port")
	url := firstNonEmpty(direct, composeURL(schemeFor(rec.Protocol, int(rawPort)), host, path))
	if url == "" {
		return nil
	}
	return &models.HTTP{URL: url}
}

// mapAbuse извлекает оценку AbuseIPDB // v1.0
func mapAbuse(rec *models.RawRecord) *models.AbuseIPDB {
	if rec.AbuseIPDB == nil || !rec.AbuseIPDB.AbuseConfidenceScore.Valid {
		return nil
	}
	return &models.AbuseIPDB{Score: rec.AbuseIPDB.AbuseConfidenceScore.Int()}
}

// mapThreatIntel строит TI фасет одиночной пробы // v1.0
func mapThreatIntel(rec *models.RawRecord) *models.ThreatIntel {
	abuse := mapAbuse(rec)
	if abuse == nil {
		return nil
	}
	return &models.ThreatIntel{AbuseIPDB: abuse}
}

// credentials возвращает фасет, если задано имя или пароль // v1.0
func credentials(username, password string) *models.Credentials {
	if username == "" && password == "" {
		return nil
	}
	return &models.Credentials{Username: username, Password: password}
}

// copyCredentials копирует фасет записи // v1.0
func copyCredentials(c *models.Credentials) *models.Credentials {
	if c == nil {
		return nil
	}
	return &models.Credentials{Username: c.Username, Password: c.Password}
}

// isPrivateIP проверяет адрес на RFC1918 и ULA диапазоны // v1.0
func isPrivateIP(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	return addr.IsPrivate()
}

// rawStrings читает строковый массив из passthrough блока // v1.0
func rawStrings(raw map[string]any, key string) []string {
	items, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// portNumber возвращает неотрицательный номер порта // v1.0
func portNumber(n models.FlexNumber) int {
	if v := n.Int(); v > 0 {
		return v
	}
	return 0
}

// orDefault возвращает значение или запасное // v1.0
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
