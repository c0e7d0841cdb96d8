// internal/models/aggregate.go
package models

import "time"

// KPISummary скалярные показатели панели
type KPISummary struct {
	TotalAttacks    int `json:"totalAttacks"`
	TotalAttempts   int `json:"totalAttempts"`
	UniqueIPs       int `json:"uniqueIps"`
	UniqueSensors   int `json:"uniqueSensors"`
	UniqueCountries int `json:"uniqueCountries"`
}

// TimeSeriesPoint количество событий в корзине времени
type TimeSeriesPoint struct {
	TS       time.Time      `json:"ts"`
	Count    int            `json:"count"`
	BySensor map[string]int `json:"bySensor,omitempty"`
}

// TopItem элемент рейтинга
type TopItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MapPoint точка карты, дедуплицированная по округленным координатам
type MapPoint struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Count   int     `json:"count"`
	Country string  `json:"country,omitempty"`
}

// PaginatedResponse страница событий
type PaginatedResponse[T any] struct {
	Rows     []T `json:"rows"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// TISummary сводка threat intelligence
type TISummary struct {
	MaliciousIPs       int             `json:"maliciousIps"`
	AvgVTDetections    float64         `json:"avgVTDetections"`
	TopMalwareFamilies []FamilyCount   `json:"topMalwareFamilies"`
	TopMaliciousIPs    []MaliciousIP   `json:"topMaliciousIps"`
	TopUploads         []UploadSummary `json:"topUploads,omitempty"`
}

// FamilyCount частота семейства вредоноса
type FamilyCount struct {
	Family string `json:"family"`
	Count  int    `json:"count"`
}

// MaliciousIP IP с AbuseIPDB >= порога и собранным TI контекстом
type MaliciousIP struct {
	IP            string   `json:"ip"`
	Count         int      `json:"count"`
	AbuseScore    int      `json:"abuseScore,omitempty"`
	VTDetections  *int     `json:"vtDetections,omitempty"`
	MalwareFamily string   `json:"malwareFamily,omitempty"`
	MitreTactics  []string `json:"mitreTactics"`
}

// UploadSummary загруженный в сессиях файл
type UploadSummary struct {
	Hash       string `json:"hash"`
	URL        string `json:"url,omitempty"`
	Detections *int   `json:"detections,omitempty"`
	Count      int    `json:"count"`
}
