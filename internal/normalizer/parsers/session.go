// filename: internal/normalizer/parsers/session.go
package parsers

import (
	"strconv"
	"strings"

	"github.com/novasec/honeydash/internal/models"
)

// SessionExpander интерактивная сессия cowrie: событие на каждое действие // v1.0
type SessionExpander struct {
	name string
}

// NewSessionExpander создает развертыватель сессий // v1.0
func NewSessionExpander() Expander {
	return &SessionExpander{name: models.KindSession.String()}
}

// GetName возвращает имя развертывателя // v1.0
func (s *SessionExpander) GetName() string {
	return s.name
}

// GetPriority возвращает приоритет развертывателя // v1.0
func (s *SessionExpander) GetPriority() int {
	return 90
}

// CanExpand проверяет маркеры сессии и наличие raw_events // v1.0
func (s *SessionExpander) CanExpand(rec *models.RawRecord) bool {
	return rec.Kind() == models.KindSession
}

// Expand классифицирует каждое вложенное событие по eventid cowrie // v1.0
func (s *SessionExpander) Expand(rec *models.RawRecord, index int, ctx *Context) []models.Event {
	idx := strconv.Itoa(index)
	attackID := rec.GroupID()
	if attackID == "" {
		attackID = models.SessionIDPrefix + idx
	}

	ctx.Attempts.Record(attackID, rec.TotalLoginAttempts.Int()+rec.TotalCommands.Int())

	downloads := indexDownloads(rec.Downloads)
	mitre := sessionMitre(rec.Mitre)
	attack := models.AttackSSHInteractive
	if len(rec.AttackTypes) > 0 {
		attack = strings.Join(rec.AttackTypes, ", ")
	}

	srcIP := orDefault(rec.SrcIP, models.UnknownValue)
	geoFacet := mapGeo(ctx, rec.GeoIP)
	abuse := mapAbuse(rec)

	events := make([]models.Event, 0, len(rec.RawEvents))
	i := 0
	for _, sub := range rec.RawEvents {
		if sub.EventID == models.CowrieSessionClosed {
			continue
		}

		ts, estimated := ctx.Timestamp(sub.Timestamp, rec.StartTime, rec.Timestamp)
		event := models.Event{
			ID:                 attackID + "-" + idx + "-" + strconv.Itoa(i),
			OriginalID:         attackID,
			Timestamp:          ts,
			TimestampEstimated: estimated,
			Sensor:             orDefault(rec.Sensor, models.SensorCowrie),
			SensorType:         models.SensorCowrie,
			SrcIP:              srcIP,
			PrivateSource:      isPrivateIP(srcIP),
			DstPort:            sshPort,
			Protocol:           "ssh",
			EventType:          models.EventSSHCommand,
			GeoIP:              geoFacet,
			Attack:             attack,
			AttackTypes:        sub.AttackTypes,
			TI:                 &models.ThreatIntel{AbuseIPDB: abuse, Mitre: mitre},
			Raw:                sub.Raw,
		}
		i++

		switch sub.EventID {
		case models.CowrieLoginSuccess:
			event.EventType = models.EventSSHLoginSuccess
			event.SSH = &models.Credentials{Username: sub.Username, Password: sub.Password}
			event.Auth = &models.Auth{Username: sub.Username, Password: sub.Password, Result: models.AuthResultSuccess}

		case models.CowrieCommandInput:
			if len(sub.AttackTypes) > 0 && sub.AttackTypes[0] != "" {
				event.EventType = sub.AttackTypes[0]
			}
			event.Command = &models.Command{Raw: firstNonEmpty(sub.Input, sub.Command), Category: "ssh"}

		case models.CowrieFileDownload:
			event.EventType = models.EventFileDownload
			if sub.URL != "" {
				event.HTTP = &models.HTTP{URL: sub.URL}
			}
			key := firstNonEmpty(sub.SHA256, sub.ShaSum, sub.URL)
			if d, ok := downloads[key]; ok && key != "" {
				if scan := d.Scan(); scan != nil {
					event.TI.VirusTotal = &models.VirusTotal{Detections: scan.Detections()}
				}
			}
		}

		events = append(events, event)
	}

	return events
}

// indexDownloads индексирует загрузки сессии по sha256, shasum и url // v1.0
func indexDownloads(downloads []models.Download) map[string]*models.Download {
	index := make(map[string]*models.Download, len(downloads)*2)
	for i := range downloads {
		d := &downloads[i]
		for _, key := range []string{d.SHA256, d.ShaSum, d.URL} {
			if key != "" {
				index[key] = d
			}
		}
	}
	return index
}

// sessionMitre строит список тактик из имен вида "Tactic: Technique" // v1.0
func sessionMitre(m *models.RawMitre) []models.Mitre {
	if m == nil || len(m.Names) == 0 {
		return []models.Mitre{mitreSessionDefault}
	}

	out := make([]models.Mitre, 0, len(m.Names))
	for i, name := range m.Names {
		tactic, _, _ := strings.Cut(name, ":")
		tactic = strings.TrimSpace(tactic)
		if tactic == "" {
			tactic = name
		}
		entry := models.Mitre{Tactic: tactic, Technique: name}
		if i < len(m.IDs) {
			entry.ID = m.IDs[i]
		}
		out = append(out, entry)
	}
	return out
}
