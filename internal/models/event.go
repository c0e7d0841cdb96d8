// internal/models/event.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Известные типы сенсоров; поле SensorType остается свободной строкой
const (
	SensorCowrie     = "cowrie"
	SensorDionaea    = "dionaea"
	SensorOpenCanary = "opencanary"
)

// Метки типов событий, которые порождает развертывание записей
const (
	EventSSHBruteforce   = "ssh_bruteforce"
	EventSSHLoginAttempt = "ssh_login_attempt"
	EventSSHLoginSuccess = "ssh_login_success"
	EventSSHCommand      = "ssh_command"
	EventFileDownload    = "file_download"
)

// Метки атак и прочие константы домена
const (
	AttackSSHBruteforce  = "ssh bruteforce"
	AttackSSHInteractive = "ssh interactive session"
	AuthResultSuccess    = "success"
	UnknownValue         = "unknown"

	// MaliciousAbuseScore порог AbuseIPDB, начиная с которого IP считается вредоносным
	MaliciousAbuseScore = 70
)

// Event представляет каноническое событие honeypot: одно наблюдаемое действие атакующего.
// События неизменяемы после построения.
type Event struct {
	ID                 string         `json:"id"`
	OriginalID         string         `json:"original_id,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
	TimestampEstimated bool           `json:"timestamp_estimated,omitempty"`
	Sensor             string         `json:"sensor"`
	SensorType         string         `json:"sensor_type"`
	SrcIP              string         `json:"src_ip"`
	PrivateSource      bool           `json:"private_source,omitempty"`
	DstPort            int            `json:"dst_port"`
	Protocol           string         `json:"protocol"`
	EventType          string         `json:"event_type"`
	GeoIP              *Geo           `json:"geoip,omitempty"`
	SSH                *Credentials   `json:"ssh,omitempty"`
	HTTP               *HTTP          `json:"http,omitempty"`
	Auth               *Auth          `json:"auth,omitempty"`
	Command            *Command       `json:"command,omitempty"`
	Attack             string         `json:"attack,omitempty"`
	AttackTypes        []string       `json:"attack_types,omitempty"`
	TI                 *ThreatIntel   `json:"ti,omitempty"`
	Raw                map[string]any `json:"raw,omitempty"`
}

// Geo представляет геолокацию источника
type Geo struct {
	CountryISOCode string    `json:"country_iso_code,omitempty"`
	CityName       string    `json:"city_name,omitempty"`
	Location       *Location `json:"location,omitempty"`
	ASN            string    `json:"asn,omitempty"`
	ASNOrg         string    `json:"asn_org,omitempty"`
}

// Location представляет координаты
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Credentials представляет учетные данные SSH попытки
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Auth представляет учетные данные не-SSH протоколов и результат входа
type Auth struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Result   string `json:"result,omitempty"`
}

// HTTP представляет HTTP контекст
type HTTP struct {
	URL string `json:"url,omitempty"`
}

// Command представляет введенную команду
type Command struct {
	Raw      string `json:"raw"`
	Category string `json:"category,omitempty"`
}

// ThreatIntel представляет данные threat intelligence
type ThreatIntel struct {
	AbuseIPDB     *AbuseIPDB     `json:"abuseipdb,omitempty"`
	VirusTotal    *VirusTotal    `json:"virustotal,omitempty"`
	MalwareBazaar *MalwareBazaar `json:"malwarebazaar,omitempty"`
	Mitre         []Mitre        `json:"mitre,omitempty"`
}

// AbuseIPDB оценка репутации IP
type AbuseIPDB struct {
	Score int `json:"score"`
}

// VirusTotal результат проверки файла
type VirusTotal struct {
	Reputation int `json:"reputation"`
	Detections int `json:"detections"`
}

// MalwareBazaar атрибуция семейства вредоноса
type MalwareBazaar struct {
	Family   string `json:"family,omitempty"`
	Hash     string `json:"hash,omitempty"`
	LastSeen string `json:"last_seen,omitempty"`
}

// Mitre тактика/техника MITRE ATT&CK
type Mitre struct {
	Tactic    string `json:"tactic"`
	Technique string `json:"technique"`
	ID        string `json:"id,omitempty"`
}

// CountryCode возвращает ISO код страны события или пустую строку // v1.0
func (e *Event) CountryCode() string {
	if e.GeoIP == nil {
		return ""
	}
	return e.GeoIP.CountryISOCode
}

// SSHUsername возвращает имя пользователя SSH попытки // v1.0
func (e *Event) SSHUsername() string {
	if e.SSH == nil {
		return ""
	}
	return e.SSH.Username
}

// SSHPassword возвращает пароль SSH попытки // v1.0
func (e *Event) SSHPassword() string {
	if e.SSH == nil {
		return ""
	}
	return e.SSH.Password
}

// Usernames возвращает имена пользователей из SSH и общего auth фасетов // v1.0
func (e *Event) Usernames() []string {
	var out []string
	if e.SSH != nil && e.SSH.Username != "" {
		out = append(out, e.SSH.Username)
	}
	if e.Auth != nil && e.Auth.Username != "" {
		out = append(out, e.Auth.Username)
	}
	return out
}

// Passwords возвращает пароли из SSH и общего auth фасетов // v1.0
func (e *Event) Passwords() []string {
	var out []string
	if e.SSH != nil && e.SSH.Password != "" {
		out = append(out, e.SSH.Password)
	}
	if e.Auth != nil && e.Auth.Password != "" {
		out = append(out, e.Auth.Password)
	}
	return out
}

// URL возвращает URL HTTP фасета // v1.0
func (e *Event) URL() string {
	if e.HTTP == nil {
		return ""
	}
	return e.HTTP.URL
}

// AbuseScore возвращает оценку AbuseIPDB и признак ее наличия // v1.0
func (e *Event) AbuseScore() (int, bool) {
	if e.TI == nil || e.TI.AbuseIPDB == nil {
		return 0, false
	}
	return e.TI.AbuseIPDB.Score, true
}

// VTDetections возвращает число детектов VirusTotal и признак их наличия // v1.0
func (e *Event) VTDetections() (int, bool) {
	if e.TI == nil || e.TI.VirusTotal == nil {
		return 0, false
	}
	return e.TI.VirusTotal.Detections, true
}

// MalwareFamily возвращает семейство вредоноса из MalwareBazaar // v1.0
func (e *Event) MalwareFamily() string {
	if e.TI == nil || e.TI.MalwareBazaar == nil {
		return ""
	}
	return e.TI.MalwareBazaar.Family
}

// SearchText возвращает склейку наиболее идентифицирующих полей в нижнем регистре // v1.0
func (e *Event) SearchText() string {
	fields := []string{
		e.SrcIP,
		e.SSHUsername(),
		e.SSHPassword(),
		e.URL(),
		e.EventType,
		e.Protocol,
		e.SensorType,
		strconv.Itoa(e.DstPort),
		e.CountryCode(),
		e.Attack,
	}

	parts := fields[:0]
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// MarshalJSON сериализует timestamp в каноническом ISO формате с миллисекундами // v1.0
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return json.Marshal(struct {
		alias
		Timestamp string `json:"timestamp"`
	}{
		alias:     alias(e),
		Timestamp: FormatISO(e.Timestamp),
	})
}

// FormatISO форматирует момент времени как UTC ISO-8601 с миллисекундами // v1.0
func FormatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
