// filename: internal/normalizer/parsers/campaign.go
package parsers

import (
	"strconv"

	"github.com/novasec/honeydash/internal/models"
)

// sshPort порт cowrie для кампаний и сессий
const sshPort = 22

// CampaignExpander сводка брутфорс-кампании cowrie: событие на каждую попытку входа // v1.0
type CampaignExpander struct {
	name string
}

// NewCampaignExpander создает развертыватель кампаний // v1.0
func NewCampaignExpander() Expander {
	return &CampaignExpander{name: models.KindCampaign.String()}
}

// GetName возвращает имя развертывателя // v1.0
func (c *CampaignExpander) GetName() string {
	return c.name
}

// GetPriority возвращает приоритет развертывателя // v1.0
func (c *CampaignExpander) GetPriority() int {
	return 100 // Маркер кампании важнее любых других полей записи
}

// CanExpand проверяет маркеры кампании // v1.0
func (c *CampaignExpander) CanExpand(rec *models.RawRecord) bool {
	return rec.Kind() == models.KindCampaign
}

// Expand разворачивает events и raw_events кампании без маркеров закрытия сессии.
// Кампания без вложенных событий дает одно событие ssh_login_attempt. // v1.0
func (c *CampaignExpander) Expand(rec *models.RawRecord, index int, ctx *Context) []models.Event {
	idx := strconv.Itoa(index)
	attackID := rec.GroupID()
	if attackID == "" {
		attackID = models.CampaignIDPrefix + idx
	}

	subs := make([]models.SubEvent, 0, len(rec.Events)+len(rec.RawEvents))
	for _, group := range [][]models.SubEvent{rec.Events, rec.RawEvents} {
		for _, sub := range group {
			if sub.EventID == models.CowrieSessionClosed {
				continue
			}
			subs = append(subs, sub)
		}
	}

	base := c.base(rec, attackID, ctx)

	if len(subs) == 0 {
		ctx.Attempts.Record(attackID, rec.TotalLoginAttempts.Int())

		event := base
		event.ID = attackID + "-" + idx
		event.EventType = models.EventSSHLoginAttempt
		event.Timestamp, event.TimestampEstimated = ctx.Timestamp(rec.StartTime, rec.Timestamp)
		event.TI = c.threatIntel(rec)
		return []models.Event{event}
	}

	attempts := rec.TotalLoginAttempts.Int()
	if attempts <= 0 {
		attempts = len(subs)
	}
	ctx.Attempts.Record(attackID, attempts)

	events := make([]models.Event, 0, len(subs))
	for i, sub := range subs {
		event := base
		event.ID = attackID + "-" + idx + "-" + strconv.Itoa(i)
		event.EventType = models.EventSSHBruteforce
		event.Timestamp, event.TimestampEstimated = ctx.Timestamp(sub.Timestamp, rec.StartTime, rec.Timestamp)
		event.SSH = credentials(sub.Username, sub.Password)
		event.TI = c.threatIntel(rec)
		if sub.Command != "" {
			event.Command = &models.Command{Raw: sub.Command, Category: "ssh"}
		}
		events = append(events, event)
	}

	return events
}

// base заполняет поля, общие для всех событий кампании // v1.0
func (c *CampaignExpander) base(rec *models.RawRecord, attackID string, ctx *Context) models.Event {
	srcIP := orDefault(rec.SrcIP, models.UnknownValue)
	return models.Event{
		OriginalID:    attackID,
		Sensor:        orDefault(rec.Sensor, models.SensorCowrie),
		SensorType:    models.SensorCowrie,
		SrcIP:         srcIP,
		PrivateSource: isPrivateIP(srcIP),
		DstPort:       sshPort,
		Protocol:      "ssh",
		GeoIP:         mapGeo(ctx, rec.GeoIP),
		Attack:        models.AttackSSHBruteforce,
		AttackTypes:   rawStrings(rec.Raw, "attack_types"),
		Raw:           rec.Raw,
	}
}

// threatIntel собирает TI фасет кампании; у каждого события свой экземпляр // v1.0
func (c *CampaignExpander) threatIntel(rec *models.RawRecord) *models.ThreatIntel {
	return &models.ThreatIntel{
		AbuseIPDB: mapAbuse(rec),
		Mitre:     []models.Mitre{mitreBruteForce},
	}
}
