// filename: internal/generator/generator.go
package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/novasec/honeydash/internal/models"
)

// DefaultCount размер синтетического набора по умолчанию
const DefaultCount = 250

// window глубина синтетической истории
const window = 30 * 24 * time.Hour

type sensorProfile struct {
	name string
	kind string
}

type countryProfile struct {
	code string
	city string
	lat  float64
	lon  float64
}

var (
	sensors = []sensorProfile{
		{"cowrie-1", models.SensorCowrie},
		{"dionaea-1", models.SensorDionaea},
		{"canary-1", models.SensorOpenCanary},
	}

	protocolEvents = map[string]string{
		"ssh":  models.EventSSHLoginAttempt,
		"http": "http_probe",
		"ftp":  "ftp_connection",
		"smb":  "malware_download",
	}
	protocols = []string{"ssh", "http", "ftp", "smb"}
	ports     = []int{22, 80, 21, 445, 443, 3389, 3306, 5432}

	countries = []countryProfile{
		{"US", "San Francisco", 37.77, -122.42},
		{"DE", "Berlin", 52.52, 13.4},
		{"CN", "Beijing", 39.9, 116.4},
		{"GB", "London", 51.5, -0.12},
		{"RU", "Moscow", 55.75, 37.61},
		{"BR", "Sao Paulo", -23.55, -46.63},
		{"FR", "Paris", 48.85, 2.35},
		{"IN", "New Delhi", 28.61, 77.2},
		{"JP", "Tokyo", 35.68, 139.76},
		{"KR", "Seoul", 37.56, 126.97},
		{"NL", "Amsterdam", 52.37, 4.89},
		{"OM", "Muscat", 23.5880, 58.3829},
	}

	usernames = []string{"root", "admin", "user", "test", "ubuntu", "pi", "oracle", "postgres"}
	passwords = []string{"123456", "password", "admin123", "root", "12345678", "qwerty", "raspberry"}
	paths     = []string{"/login", "/admin", "/api", "/wp-admin", "/phpmyadmin"}

	malwareFamilies = []string{"Mirai", "Emotet", "TrickBot", "Qakbot", "Zeus", "Dridex", "Cobalt Strike"}
	mitreCatalog    = []models.Mitre{
		{Tactic: "Initial Access", Technique: "Exploit Public-Facing Application", ID: "T1190"},
		{Tactic: "Credential Access", Technique: "Brute Force", ID: "T1110"},
		{Tactic: "Discovery", Technique: "Network Service Discovery", ID: "T1046"},
		{Tactic: "Command and Control", Technique: "Application Layer Protocol", ID: "T1071"},
		{Tactic: "Execution", Technique: "Command and Scripting Interpreter", ID: "T1059"},
		{Tactic: "Persistence", Technique: "Boot or Logon Autostart Execution", ID: "T1547"},
	}
)

// Generator строит синтетические события для пустой выгрузки
type Generator struct {
	faker *gofakeit.Faker
}

// New создает генератор. seed 0 дает случайную последовательность. // v1.0
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Events возвращает count событий, равномерно распределенных по 30 дням до now // v1.0
func (g *Generator) Events(count int, now time.Time) []models.Event {
	if count <= 0 {
		return nil
	}

	now = now.UTC()
	f := g.faker
	events := make([]models.Event, 0, count)

	for i := 0; i < count; i++ {
		sensor := sensors[f.Number(0, len(sensors)-1)]
		protocol := f.RandomString(protocols)
		country := countries[f.Number(0, len(countries)-1)]

		event := models.Event{
			ID:         fmt.Sprintf("evt-%04d", i+1),
			Timestamp:  f.DateRange(now.Add(-window), now).UTC().Truncate(time.Millisecond),
			Sensor:     sensor.name,
			SensorType: sensor.kind,
			SrcIP:      f.IPv4Address(),
			DstPort:    f.RandomInt(ports),
			Protocol:   protocol,
			EventType:  protocolEvents[protocol],
			GeoIP: &models.Geo{
				CountryISOCode: country.code,
				CityName:       country.city,
				Location:       &models.Location{Lat: country.lat, Lon: country.lon},
			},
		}

		if protocol == "ssh" && f.Float64() > 0.3 {
			event.SSH = &models.Credentials{
				Username: f.RandomString(usernames),
				Password: f.RandomString(passwords),
			}
		}

		if protocol == "http" && f.Float64() > 0.3 {
			event.HTTP = &models.HTTP{URL: "http://" + f.DomainName() + f.RandomString(paths)}
		}

		if f.Float64() > 0.3 {
			event.TI = g.threatIntel(now)
		}

		events = append(events, event)
	}

	return events
}

// threatIntel строит случайный TI фасет // v1.0
func (g *Generator) threatIntel(now time.Time) *models.ThreatIntel {
	f := g.faker
	detections := f.Number(0, 69)
	reputation := -detections + f.Number(0, 19)
	if reputation < -100 {
		reputation = -100
	}

	ti := &models.ThreatIntel{
		AbuseIPDB:  &models.AbuseIPDB{Score: f.Number(0, 99)},
		VirusTotal: &models.VirusTotal{Reputation: reputation, Detections: detections},
	}

	if f.Float64() > 0.7 {
		ti.MalwareBazaar = &models.MalwareBazaar{
			Family:   f.RandomString(malwareFamilies),
			Hash:     strings.ReplaceAll(f.UUID(), "-", ""),
			LastSeen: models.FormatISO(f.DateRange(now.Add(-7*24*time.Hour), now)),
		}
	}

	if f.Float64() > 0.5 {
		n := f.Number(1, 3)
		for i := 0; i < n; i++ {
			ti.Mitre = append(ti.Mitre, mitreCatalog[f.Number(0, len(mitreCatalog)-1)])
		}
	}

	return ti
}

// Events строит синтетический набор случайным генератором // v1.0
func Events(count int, now time.Time) []models.Event {
	return New(0).Events(count, now)
}
