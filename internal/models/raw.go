// internal/models/raw.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Маркеры формы записи cowrie
const (
	DocTypeBruteforceCampaign = "bruteforce_campaign"
	DocTypeSession            = "session"
	CampaignIDPrefix          = "bf-"
	SessionIDPrefix           = "sess-"

	CowrieLoginSuccess  = "cowrie.login.success"
	CowrieCommandInput  = "cowrie.command.input"
	CowrieFileDownload  = "cowrie.session.file_download"
	CowrieSessionClosed = "cowrie.session.closed"
)

// RecordKind дискриминатор формы сырой записи сенсора
type RecordKind int

const (
	// KindProbe одиночная проба: одна запись, одно событие
	KindProbe RecordKind = iota
	// KindCampaign сводка брутфорс-кампании cowrie
	KindCampaign
	// KindSession интерактивная сессия cowrie с вложенными raw_events
	KindSession
	// KindAttemptList запись с массивом attempts (dionaea, opencanary)
	KindAttemptList
)

// String возвращает имя формы записи // v1.0
func (k RecordKind) String() string {
	switch k {
	case KindProbe:
		return "probe"
	case KindCampaign:
		return "campaign"
	case KindSession:
		return "session"
	case KindAttemptList:
		return "attempt_list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FlexNumber число, которое в выгрузках встречается и как JSON number, и как строка
type FlexNumber struct {
	Value float64
	Valid bool
}

// UnmarshalJSON принимает число, числовую строку или null // v1.0
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = FlexNumber{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = parseFlexString(s)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		// bool, объект или массив вместо числа: значение отсутствует
		*n = FlexNumber{}
		return nil
	}
	*n = FlexNumber{Value: v, Valid: true}
	return nil
}

// parseFlexString читает число из строки; нечисловая строка трактуется как отсутствие значения
func parseFlexString(s string) FlexNumber {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return FlexNumber{}
	}
	return FlexNumber{Value: v, Valid: true}
}

// MarshalJSON сериализует число или null // v1.0
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Int возвращает целую часть значения или 0, если значения нет // v1.0
func (n FlexNumber) Int() int {
	if !n.Valid {
		return 0
	}
	return int(n.Value)
}

// Num создает валидное FlexNumber
func Num(v float64) FlexNumber {
	return FlexNumber{Value: v, Valid: true}
}

// RawRecord представляет недоверенную запись из NDJSON выгрузки сенсора.
// Схема носит рекомендательный характер: любое поле может отсутствовать.
type RawRecord struct {
	ID                 string         `json:"id,omitempty"`
	AttackID           string         `json:"attack_id,omitempty"`
	DocType            string         `json:"doc_type,omitempty"`
	Timestamp          string         `json:"timestamp,omitempty"`
	StartTime          string         `json:"start_time,omitempty"`
	EndTime            string         `json:"end_time,omitempty"`
	Sensor             string         `json:"sensor,omitempty"`
	SensorType         string         `json:"sensor_type,omitempty"`
	SrcIP              string         `json:"src_ip,omitempty"`
	DstPort            FlexNumber     `json:"dst_port"`
	Protocol           string         `json:"protocol,omitempty"`
	EventType          string         `json:"event_type,omitempty"`
	SessionID          string         `json:"session_id,omitempty"`
	TotalAttempts      FlexNumber     `json:"total_attempts"`
	TotalLoginAttempts FlexNumber     `json:"total_login_attempts"`
	TotalCommands      FlexNumber     `json:"total_commands"`
	AttackTypes        []string       `json:"attack_types,omitempty"`
	Mitre              *RawMitre      `json:"mitre,omitempty"`
	Events             []SubEvent     `json:"events,omitempty"`
	RawEvents          []SubEvent     `json:"raw_events,omitempty"`
	Downloads          []Download     `json:"downloads,omitempty"`
	GeoIP              *RawGeo        `json:"geoip,omitempty"`
	Attempts           []Attempt      `json:"attempts,omitempty"`
	SSH                *Credentials   `json:"ssh,omitempty"`
	HTTP               *RawHTTP       `json:"http,omitempty"`
	AbuseIPDB          *RawAbuseIPDB  `json:"abuseipdb,omitempty"`
	Auth               *Auth          `json:"auth,omitempty"`
	Command            *Command       `json:"command,omitempty"`
	Attack             string         `json:"attack,omitempty"`
	Raw                map[string]any `json:"raw,omitempty"`
}

// UnmarshalJSON разбирает запись без отказа на полях неожиданного типа:
// идентификаторы-числа становятся строками, блоки не того вида считаются отсутствующими. // v1.0
func (r *RawRecord) UnmarshalJSON(data []byte) error {
	var rec RawRecord
	if err := decodeLenient(data, &rec); err != nil {
		return err
	}
	*r = rec
	return nil
}

// RawMitre идентификаторы и имена техник, объявленные сессией
type RawMitre struct {
	IDs   []string `json:"ids,omitempty"`
	Names []string `json:"names,omitempty"`
}

// SubEvent вложенное действие кампании или сессии cowrie.
// Исходный JSON объект сохраняется в Raw для детального просмотра.
type SubEvent struct {
	Timestamp   string   `json:"timestamp,omitempty"`
	EventID     string   `json:"eventid"`
	Username    string   `json:"username,omitempty"`
	Password    string   `json:"password,omitempty"`
	SessionID   string   `json:"session_id,omitempty"`
	Command     string   `json:"command,omitempty"`
	Input       string   `json:"input,omitempty"`
	URL         string   `json:"url,omitempty"`
	ShaSum      string   `json:"shasum,omitempty"`
	SHA256      string   `json:"sha256,omitempty"`
	AttackTypes []string `json:"attack_types,omitempty"`

	Raw map[string]any `json:"-"`
}

// UnmarshalJSON разбирает поля и сохраняет исходный объект // v1.0
func (s *SubEvent) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	*s = newSubEvent(raw)
	return nil
}

// Download метаданные загруженного в сессии файла
type Download struct {
	URL        string         `json:"url,omitempty"`
	ShaSum     string         `json:"shasum,omitempty"`
	SHA256     string         `json:"sha256,omitempty"`
	VirusTotal *RawVirusTotal `json:"virustotal,omitempty"`
	VT         *RawVirusTotal `json:"vt,omitempty"`
}

// Scan возвращает результат VirusTotal из любого из двух полей // v1.0
func (d *Download) Scan() *RawVirusTotal {
	if d.VirusTotal != nil {
		return d.VirusTotal
	}
	return d.VT
}

// RawVirusTotal сводка анализа VirusTotal
type RawVirusTotal struct {
	Malicious  FlexNumber `json:"malicious"`
	Suspicious FlexNumber `json:"suspicious"`
	Undetected FlexNumber `json:"undetected"`
	Harmless   FlexNumber `json:"harmless"`
	Timeout    FlexNumber `json:"timeout"`
}

// Detections возвращает malicious + suspicious // v1.0
func (v *RawVirusTotal) Detections() int {
	return v.Malicious.Int() + v.Suspicious.Int()
}

// RawGeo гео-блок записи в любом из встречающихся вариантов
type RawGeo struct {
	Country        string     `json:"country,omitempty"`
	CountryISOCode string     `json:"country_iso_code,omitempty"`
	City           string     `json:"city,omitempty"`
	CityName       string     `json:"city_name,omitempty"`
	Location       *RawPoint  `json:"location,omitempty"`
	Lat            FlexNumber `json:"lat"`
	Lon            FlexNumber `json:"lon"`
	ASN            string     `json:"asn,omitempty"`
	ASNOrg         string     `json:"asn_org,omitempty"`
}

// RawPoint координаты, любая из которых может отсутствовать
type RawPoint struct {
	Lat FlexNumber `json:"lat"`
	Lon FlexNumber `json:"lon"`
}

// Attempt отдельная попытка из записи dionaea/opencanary
type Attempt struct {
	Timestamp string `json:"timestamp,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	Path      string `json:"path,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
	UserAgent string `json:"useragent,omitempty"`
}

// RawHTTP HTTP блок записи
type RawHTTP struct {
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
	UserAgent string `json:"useragent,omitempty"`
}

// RawAbuseIPDB блок AbuseIPDB
type RawAbuseIPDB struct {
	AbuseConfidenceScore FlexNumber `json:"abuseConfidenceScore"`
}

// IsCampaign проверяет маркеры брутфорс-кампании // v1.0
func (r *RawRecord) IsCampaign() bool {
	return r.DocType == DocTypeBruteforceCampaign || strings.HasPrefix(r.AttackID, CampaignIDPrefix)
}

// IsSession проверяет маркеры интерактивной сессии // v1.0
func (r *RawRecord) IsSession() bool {
	return r.DocType == DocTypeSession || strings.HasPrefix(r.AttackID, SessionIDPrefix)
}

// Kind классифицирует запись. Сессия без raw_events и запись без attempts
// обрабатываются как одиночная проба. // v1.0
func (r *RawRecord) Kind() RecordKind {
	switch {
	case r.IsCampaign():
		return KindCampaign
	case r.IsSession() && len(r.RawEvents) > 0:
		return KindSession
	case len(r.Attempts) > 0:
		return KindAttemptList
	default:
		return KindProbe
	}
}

// GroupID возвращает идентификатор группы: attack_id, затем id // v1.0
func (r *RawRecord) GroupID() string {
	if r.AttackID != "" {
		return r.AttackID
	}
	return r.ID
}

// RawString возвращает строковое значение из passthrough блока raw по пути ключей // v1.0
func (r *RawRecord) RawString(path ...string) string {
	v, ok := r.rawValue(path...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// RawNumber возвращает числовое значение из блока raw по пути ключей // v1.0
func (r *RawRecord) RawNumber(path ...string) (float64, bool) {
	v, ok := r.rawValue(path...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (r *RawRecord) rawValue(path ...string) (any, bool) {
	var cur any = r.Raw
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}
