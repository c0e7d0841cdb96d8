// filename: internal/query/aggregate.go
package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/novasec/honeydash/internal/geo"
	"github.com/novasec/honeydash/internal/models"
)

// Лимиты рейтингов
const (
	TopPortsLimit       = 10
	TopIPsLimit         = 10
	TopCountriesLimit   = 15
	TopUsernamesLimit   = 10
	TopPasswordsLimit   = 10
	TopFamiliesLimit    = 5
	TopMaliciousIPLimit = 10
	TopUploadsLimit     = 10
)

// mapPrecision число знаков при дедупликации координат
const mapPrecision = 1e4

// Summary считает KPI по отфильтрованным событиям. Попытки берутся из таблицы
// попыток для различных original_id, а при ее пустоте равны числу событий. // v1.0
func Summary(events []models.Event, attempts models.AttemptTable) models.KPISummary {
	ips := make(map[string]struct{})
	sensors := make(map[string]struct{})
	countries := make(map[string]struct{})
	ids := make(map[string]struct{})

	aggAttempts := 0
	for i := range events {
		e := &events[i]
		ips[e.SrcIP] = struct{}{}
		sensors[e.Sensor] = struct{}{}
		if c := geo.NormalizeISO2(e.CountryCode(), ""); c != "" {
			countries[c] = struct{}{}
		}
		if e.OriginalID == "" {
			continue
		}
		if _, seen := ids[e.OriginalID]; !seen {
			ids[e.OriginalID] = struct{}{}
			if n, ok := attempts.Get(e.OriginalID); ok {
				aggAttempts += n
			}
		}
	}

	totalAttempts := len(events)
	if aggAttempts > 0 {
		totalAttempts = aggAttempts
	}
	totalAttacks := len(ids)
	if totalAttacks == 0 {
		totalAttacks = totalAttempts
	}

	return models.KPISummary{
		TotalAttacks:    totalAttacks,
		TotalAttempts:   totalAttempts,
		UniqueIPs:       len(ips),
		UniqueSensors:   len(sensors),
		UniqueCountries: len(countries),
	}
}

// BucketWidth выбирает ширину корзины по длине окна // v1.0
func BucketWidth(span time.Duration) time.Duration {
	switch {
	case span <= time.Hour:
		return 5 * time.Minute
	case span <= 24*time.Hour:
		return time.Hour
	case span <= 7*24*time.Hour:
		return 6 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// TimeSeries раскладывает события окна по корзинам. Если окно пусто, повторяет
// выборку за все время, ширина корзины при этом остается от исходного окна. // v1.0
func TimeSeries(all []models.Event, rng models.TimeRange, f models.Filters, now time.Time) []models.TimeSeriesPoint {
	filtered := Apply(all, rng, f)
	if len(filtered) == 0 {
		filtered = Apply(all, models.AllTime(now), f)
	}
	return Bucketize(filtered, BucketWidth(rng.Span()))
}

// Bucketize считает события по корзинам заданной ширины, выровненным от эпохи Unix // v1.0
func Bucketize(events []models.Event, width time.Duration) []models.TimeSeriesPoint {
	widthMs := width.Milliseconds()
	if widthMs <= 0 {
		widthMs = 1
	}

	index := make(map[int64]int)
	var points []models.TimeSeriesPoint

	for i := range events {
		ms := events[i].Timestamp.UnixMilli()
		bucket := floorDiv(ms, widthMs) * widthMs

		pos, ok := index[bucket]
		if !ok {
			pos = len(points)
			index[bucket] = pos
			points = append(points, models.TimeSeriesPoint{
				TS:       time.UnixMilli(bucket).UTC(),
				BySensor: make(map[string]int),
			})
		}
		points[pos].Count++
		points[pos].BySensor[events[i].Sensor]++
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].TS.Before(points[j].TS)
	})
	return points
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// TopPorts рейтинг портов назначения // v1.0
func TopPorts(events []models.Event) []models.TopItem {
	c := newCounter()
	for i := range events {
		c.add(strconv.Itoa(events[i].DstPort))
	}
	return c.top(TopPortsLimit)
}

// TopIPs рейтинг адресов источника // v1.0
func TopIPs(events []models.Event) []models.TopItem {
	c := newCounter()
	for i := range events {
		c.add(events[i].SrcIP)
	}
	return c.top(TopIPsLimit)
}

// TopCountries рейтинг стран по ISO2 // v1.0
func TopCountries(events []models.Event) []models.TopItem {
	c := newCounter()
	for i := range events {
		if iso := geo.NormalizeISO2(events[i].CountryCode(), ""); iso != "" {
			c.add(iso)
		}
	}
	return c.top(TopCountriesLimit)
}

// EventTypes рейтинг типов атак без усечения. Многозначные метки атак
// раскладываются, структурная метка интерактивной сессии исключается. // v1.0
func EventTypes(events []models.Event) []models.TopItem {
	c := newCounter()
	add := func(label string) {
		label = strings.TrimSpace(label)
		if label == "" || strings.EqualFold(label, models.AttackSSHInteractive) {
			return
		}
		c.add(label)
	}

	for i := range events {
		e := &events[i]
		switch {
		case len(e.AttackTypes) > 0:
			for _, t := range e.AttackTypes {
				add(t)
			}
		case strings.Contains(e.Attack, ","):
			for _, t := range strings.Split(e.Attack, ",") {
				add(t)
			}
		case e.EventType == models.EventFileDownload:
			add(models.EventFileDownload)
		default:
			add(firstNonEmpty(e.Attack, e.EventType))
		}
	}
	return c.top(0)
}

// TopSSHUsernames рейтинг имен пользователей SSH // v1.0
func TopSSHUsernames(events []models.Event) []models.TopItem {
	c := newCounter()
	for i := range events {
		if u := events[i].SSHUsername(); u != "" {
			c.add(u)
		}
	}
	return c.top(TopUsernamesLimit)
}

// TopSSHPasswords рейтинг паролей SSH // v1.0
func TopSSHPasswords(events []models.Event) []models.TopItem {
	c := newCounter()
	for i := range events {
		if p := events[i].SSHPassword(); p != "" {
			c.add(p)
		}
	}
	return c.top(TopPasswordsLimit)
}

// Paginate возвращает страницу уже отсортированных событий // v1.0
func Paginate(events []models.Event, page models.Page) models.PaginatedResponse[models.Event] {
	// номер страницы сравнивается до умножения, иначе огромный page переполняет int
	start := len(events)
	if page.PageSize > 0 && page.Page >= 0 && page.Page <= len(events)/page.PageSize {
		start = page.Page * page.PageSize
	}
	end := len(events)
	if page.PageSize > 0 && page.PageSize < end-start {
		end = start + page.PageSize
	}

	rows := make([]models.Event, end-start)
	copy(rows, events[start:end])

	return models.PaginatedResponse[models.Event]{
		Rows:     rows,
		Total:    len(events),
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}

// MapPoints строит точки карты. При пустом окне и отсутствии пользовательских
// фильтров берется все время. Если фильтр явно включает страну с закрепленной
// точкой, а точки нет, она добавляется со счетчиком за все время. // v1.0
func MapPoints(all []models.Event, rng models.TimeRange, f models.Filters) []models.MapPoint {
	filtered := Apply(all, rng, f)
	noUserFilters := len(f.Countries) == 0 && len(f.Sensors) == 0 && len(f.Protocols) == 0 && f.Query == ""
	if len(filtered) == 0 && noUserFilters {
		filtered = all
	}

	index := make(map[[2]float64]int)
	var points []models.MapPoint

	for i := range filtered {
		e := &filtered[i]
		iso := geo.NormalizeISO2(e.CountryCode(), "")

		var loc *models.Location
		if e.GeoIP != nil {
			loc = e.GeoIP.Location
		}
		p, ok := geo.ResolvePoint(iso, loc)
		if !ok {
			continue
		}

		key := mapKey(p)
		pos, seen := index[key]
		if !seen {
			pos = len(points)
			index[key] = pos
			points = append(points, models.MapPoint{Lat: p.Lat, Lon: p.Lon, Country: iso})
		}
		points[pos].Count++
	}

	for _, c := range f.Countries {
		iso := geo.NormalizeFilterCountry(c)
		pin, ok := geo.Pinned(iso)
		if !ok {
			continue
		}
		key := mapKey(pin)
		if _, seen := index[key]; seen {
			continue
		}

		total := 0
		for i := range all {
			if geo.NormalizeISO2(all[i].CountryCode(), "") == iso {
				total++
			}
		}
		index[key] = len(points)
		points = append(points, models.MapPoint{Lat: pin.Lat, Lon: pin.Lon, Count: total, Country: iso})
	}

	return points
}

func mapKey(p models.Location) [2]float64 {
	return [2]float64{
		math.Round(p.Lat*mapPrecision) / mapPrecision,
		math.Round(p.Lon*mapPrecision) / mapPrecision,
	}
}

// ipIntel накопленный TI контекст одного адреса
type ipIntel struct {
	count    int
	abuse    int
	hasAbuse bool
	vt       *int
	family   string
	tactics  []string
	seen     map[string]struct{}
}

// TISummary сводка threat intelligence по отфильтрованным событиям.
// События ожидаются в порядке убывания timestamp. // v1.0
func TISummary(events []models.Event) models.TISummary {
	malicious := make(map[string]struct{})
	families := newCounter()
	var vtSum, vtN int

	ipIndex := make(map[string]*ipIntel)
	var ipOrder []string

	uploadIndex := make(map[string]int)
	uploads := make([]models.UploadSummary, 0)

	for i := range events {
		e := &events[i]

		score, hasScore := e.AbuseScore()
		if hasScore && score >= models.MaliciousAbuseScore {
			malicious[e.SrcIP] = struct{}{}
		}

		det, hasVT := e.VTDetections()
		if hasVT {
			vtSum += det
			vtN++
		}

		family := e.MalwareFamily()
		if family != "" {
			families.add(family)
		}

		entry, ok := ipIndex[e.SrcIP]
		if !ok {
			entry = &ipIntel{seen: make(map[string]struct{})}
			ipIndex[e.SrcIP] = entry
			ipOrder = append(ipOrder, e.SrcIP)
		}
		entry.count++
		if hasScore && (!entry.hasAbuse || score > entry.abuse) {
			entry.abuse = score
			entry.hasAbuse = true
		}
		if hasVT && (entry.vt == nil || det > *entry.vt) {
			d := det
			entry.vt = &d
		}
		// события идут от новых к старым: первое найденное семейство самое свежее
		if family != "" && entry.family == "" {
			entry.family = family
		}
		if e.TI != nil {
			for _, m := range e.TI.Mitre {
				if _, dup := entry.seen[m.Tactic]; !dup && m.Tactic != "" {
					entry.seen[m.Tactic] = struct{}{}
					entry.tactics = append(entry.tactics, m.Tactic)
				}
			}
		}

		if e.EventType != models.EventFileDownload {
			continue
		}
		hash := firstNonEmpty(rawString(e.Raw, "sha256"), rawString(e.Raw, "shasum"))
		if hash == "" {
			continue
		}
		pos, ok := uploadIndex[hash]
		if !ok {
			pos = len(uploads)
			uploadIndex[hash] = pos
			uploads = append(uploads, models.UploadSummary{Hash: hash})
		}
		up := &uploads[pos]
		up.Count++
		if u := e.URL(); u != "" {
			up.URL = u
		}
		if hasVT && (up.Detections == nil || det > *up.Detections) {
			d := det
			up.Detections = &d
		}
	}

	avg := 0.0
	if vtN > 0 {
		avg = math.Round(float64(vtSum)/float64(vtN)*10) / 10
	}

	topIPs := make([]models.MaliciousIP, 0)
	for _, ip := range ipOrder {
		entry := ipIndex[ip]
		if !entry.hasAbuse || entry.abuse < models.MaliciousAbuseScore {
			continue
		}
		tactics := entry.tactics
		if tactics == nil {
			tactics = []string{}
		}
		topIPs = append(topIPs, models.MaliciousIP{
			IP:            ip,
			Count:         entry.count,
			AbuseScore:    entry.abuse,
			VTDetections:  entry.vt,
			MalwareFamily: entry.family,
			MitreTactics:  tactics,
		})
	}
	sort.SliceStable(topIPs, func(i, j int) bool { return topIPs[i].Count > topIPs[j].Count })
	if len(topIPs) > TopMaliciousIPLimit {
		topIPs = topIPs[:TopMaliciousIPLimit]
	}

	sort.SliceStable(uploads, func(i, j int) bool {
		di, dj := derefOrZero(uploads[i].Detections), derefOrZero(uploads[j].Detections)
		if di != dj {
			return di > dj
		}
		return uploads[i].Count > uploads[j].Count
	})
	if len(uploads) > TopUploadsLimit {
		uploads = uploads[:TopUploadsLimit]
	}

	topFamilies := make([]models.FamilyCount, 0)
	for _, item := range families.top(TopFamiliesLimit) {
		topFamilies = append(topFamilies, models.FamilyCount{Family: item.Label, Count: item.Count})
	}

	return models.TISummary{
		MaliciousIPs:       len(malicious),
		AvgVTDetections:    avg,
		TopMalwareFamilies: topFamilies,
		TopMaliciousIPs:    topIPs,
		TopUploads:         uploads,
	}
}

func derefOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func rawString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
