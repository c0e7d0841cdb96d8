// filename: internal/normalizer/parsers/probe.go
package parsers

import (
	"strconv"
	"strings"

	"github.com/novasec/honeydash/internal/models"
)

// ProbeExpander одиночная проба: одна запись, одно событие // v1.0
type ProbeExpander struct {
	name string
}

// NewProbeExpander создает развертыватель одиночной пробы // v1.0
func NewProbeExpander() Expander {
	return &ProbeExpander{name: models.KindProbe.String()}
}

// GetName возвращает имя развертывателя // v1.0
func (p *ProbeExpander) GetName() string {
	return p.name
}

// GetPriority возвращает приоритет развертывателя // v1.0
func (p *ProbeExpander) GetPriority() int {
	return 0 // Запасной вариант для записей без маркеров
}

// CanExpand принимает любую запись без маркеров кампании, сессии и попыток // v1.0
func (p *ProbeExpander) CanExpand(rec *models.RawRecord) bool {
	return rec.Kind() == models.KindProbe
}

// Expand строит одно событие из записи // v1.0
func (p *ProbeExpander) Expand(rec *models.RawRecord, index int, ctx *Context) []models.Event {
	idx := strconv.Itoa(index)
	baseID := rec.ID
	if baseID == "" {
		baseID = "evt-" + idx
	}

	ts, estimated := ctx.Timestamp(rec.Timestamp)
	srcIP := orDefault(rec.SrcIP, models.UnknownValue)
	protocol := orDefault(strings.ToLower(rec.Protocol), models.UnknownValue)

	event := models.Event{
		ID:                 baseID + "-" + idx,
		OriginalID:         rec.ID,
		Timestamp:          ts,
		TimestampEstimated: estimated,
		Sensor:             orDefault(rec.Sensor, models.UnknownValue),
		SensorType:         orDefault(rec.SensorType, models.UnknownValue),
		SrcIP:              srcIP,
		PrivateSource:      isPrivateIP(srcIP),
		DstPort:            portNumber(rec.DstPort),
		Protocol:           protocol,
		EventType:          firstNonEmpty(rec.EventType, rec.RawString("eventid"), models.UnknownValue),
		GeoIP:              mapGeo(ctx, rec.GeoIP),
		SSH:                copyCredentials(rec.SSH),
		HTTP:               mapHTTP(rec),
		Auth:               rec.Auth,
		Command:            rec.Command,
		Attack:             rec.Attack,
		AttackTypes:        rawStrings(rec.Raw, "attack_types"),
		TI:                 mapThreatIntel(rec),
		Raw:                rec.Raw,
	}

	return []models.Event{event}
}
