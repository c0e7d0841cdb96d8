// filename: internal/normalizer/parsers/attempts.go
package parsers

import (
	"strconv"
	"strings"

	"github.com/novasec/honeydash/internal/models"
)

// AttemptListExpander запись с массивом attempts от dionaea и opencanary // v1.0
type AttemptListExpander struct {
	name string
}

// NewAttemptListExpander создает развертыватель списков попыток // v1.0
func NewAttemptListExpander() Expander {
	return &AttemptListExpander{name: models.KindAttemptList.String()}
}

// GetName возвращает имя развертывателя // v1.0
func (a *AttemptListExpander) GetName() string {
	return a.name
}

// GetPriority возвращает приоритет развертывателя // v1.0
func (a *AttemptListExpander) GetPriority() int {
	return 50
}

// CanExpand проверяет наличие непустого attempts // v1.0
func (a *AttemptListExpander) CanExpand(rec *models.RawRecord) bool {
	return rec.Kind() == models.KindAttemptList
}

// Expand строит событие на каждую попытку. Учетные данные попадают в ssh
// для протокола ssh и в auth для остальных. // v1.0
func (a *AttemptListExpander) Expand(rec *models.RawRecord, index int, ctx *Context) []models.Event {
	idx := strconv.Itoa(index)
	groupID := rec.GroupID()
	idPrefix := orDefault(groupID, "evt")

	total := rec.TotalAttempts.Int()
	if total <= 0 {
		total = len(rec.Attempts)
	}
	ctx.Attempts.Record(groupID, total)

	protocol := orDefault(strings.ToLower(rec.Protocol), models.UnknownValue)
	dstPort := portNumber(rec.DstPort)
	scheme := schemeFor(protocol, dstPort)
	srcIP := orDefault(rec.SrcIP, models.UnknownValue)
	geoFacet := mapGeo(ctx, rec.GeoIP)
	attackTypes := rawStrings(rec.Raw, "attack_types")

	events := make([]models.Event, 0, len(rec.Attempts))
	for i, att := range rec.Attempts {
		ts, estimated := ctx.Timestamp(att.Timestamp)

		host := firstNonEmpty(att.Hostname, rec.RawString("dst_host"), rec.RawString("logdata", "HOSTNAME"))
		path := firstNonEmpty(att.Path, rec.RawString("logdata", "PATH"))

		event := models.Event{
			ID:                 idPrefix + "-" + idx + "-" + strconv.Itoa(i),
			OriginalID:         groupID,
			Timestamp:          ts,
			TimestampEstimated: estimated,
			Sensor:             orDefault(rec.Sensor, models.UnknownValue),
			SensorType:         orDefault(rec.SensorType, models.UnknownValue),
			SrcIP:              srcIP,
			PrivateSource:      isPrivateIP(srcIP),
			DstPort:            dstPort,
			Protocol:           protocol,
			EventType:          firstNonEmpty(att.EventType, rec.RawString("eventid"), models.UnknownValue),
			GeoIP:              geoFacet,
			Command:            rec.Command,
			Attack:             rec.Attack,
			AttackTypes:        attackTypes,
			TI:                 mapThreatIntel(rec),
			Raw:                rec.Raw,
		}

		if url := composeURL(scheme, host, path); url != "" {
			event.HTTP = &models.HTTP{URL: url}
		}

		if protocol == "ssh" {
			event.SSH = credentials(att.Username, att.Password)
			if event.SSH == nil {
				event.SSH = copyCredentials(rec.SSH)
			}
		} else {
			event.SSH = copyCredentials(rec.SSH)
			if att.Username != "" || att.Password != "" {
				event.Auth = &models.Auth{Username: att.Username, Password: att.Password}
			}
		}

		events = append(events, event)
	}

	return events
}
