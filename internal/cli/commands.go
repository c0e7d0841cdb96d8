// filename: internal/cli/commands.go
package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/novasec/honeydash/internal/models"
	"github.com/spf13/cobra"
)

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show KPI counters for the window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session, p *printer) error {
				kpi, err := s.adapter.Summary(ctx, s.rng, s.filters)
				if err != nil {
					return err
				}
				if p.isJSON() {
					return p.JSON(kpi)
				}

				p.Title("Summary %s .. %s", models.FormatISO(s.rng.From), models.FormatISO(s.rng.To))
				t := newTable("METRIC", "VALUE")
				t.AddRow("attacks", strconv.Itoa(kpi.TotalAttacks))
				t.AddRow("attempts", strconv.Itoa(kpi.TotalAttempts))
				t.AddRow("unique ips", strconv.Itoa(kpi.UniqueIPs))
				t.AddRow("sensors", strconv.Itoa(kpi.UniqueSensors))
				t.AddRow("countries", strconv.Itoa(kpi.UniqueCountries))
				t.Render(p.w)
				return nil
			})
		},
	}
}

func newTimelineCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show attack counts per time bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session, p *printer) error {
				points, err := s.adapter.AttacksOverTime(ctx, s.rng, s.filters)
				if err != nil {
					return err
				}
				if p.isJSON() {
					return p.JSON(points)
				}

				t := newTable("BUCKET", "COUNT", "BY SENSOR")
				for _, pt := range points {
					t.AddRow(models.FormatISO(pt.TS), strconv.Itoa(pt.Count), formatBreakdown(pt.BySensor))
				}
				t.Render(p.w)
				return nil
			})
		},
	}
}

// topKinds допустимые аргументы команды top
var topKinds = []string{"ports", "ips", "countries", "event-types", "usernames", "passwords"}

func newTopCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "top <" + strings.Join(topKinds, "|") + ">",
		Short:     "Show a ranked top list",
		Example:   "  honeyctl top ports --preset 24h\n  honeyctl top usernames --sensor cowrie -o json",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: topKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			return opts.run(cmd, func(ctx context.Context, s *session, p *printer) error {
				items, err := s.top(ctx, kind)
				if err != nil {
					return err
				}
				if p.isJSON() {
					return p.JSON(items)
				}

				t := newTable(strings.ToUpper(kind), "COUNT")
				for _, it := range items {
					t.AddRow(it.Label, strconv.Itoa(it.Count))
				}
				t.Render(p.w)
				return nil
			})
		},
	}
}

// top выбирает агрегат по имени // v1.0
func (s *session) top(ctx context.Context, kind string) ([]models.TopItem, error) {
	switch kind {
	case "ports":
		return s.adapter.TopPorts(ctx, s.rng, s.filters)
	case "ips":
		return s.adapter.TopIPs(ctx, s.rng, s.filters)
	case "countries":
		return s.adapter.TopCountries(ctx, s.rng, s.filters)
	case "event-types":
		return s.adapter.EventTypes(ctx, s.rng, s.filters)
	case "usernames":
		return s.adapter.TopSSHUsernames(ctx, s.rng, s.filters)
	case "passwords":
		return s.adapter.TopSSHPasswords(ctx, s.rng, s.filters)
	default:
		return nil, fmt.Errorf("unknown top list %q", kind)
	}
}

func newEventsCommand(opts *options) *cobra.Command {
	page := models.Page{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List matching events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session, p *printer) error {
				res, err := s.adapter.RecentEvents(ctx, s.rng, s.filters, page)
				if err != nil {
					return err
				}
				if p.isJSON() {
					return p.JSON(res)
				}

				t := newTable("TIME", "SENSOR", "SOURCE", "PORT", "PROTOCOL", "TYPE", "COUNTRY")
				for i := range res.Rows {
					e := &res.Rows[i]
					t.AddRow(models.FormatISO(e.Timestamp), e.Sensor, e.SrcIP, strconv.Itoa(e.DstPort),
						e.Protocol, e.EventType, e.CountryCode())
				}
				t.Render(p.w)
				p.Title("page %d, %d of %d events", res.Page, len(res.Rows), res.Total)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page.Page, "page", 0, "page number, zero-based")
	cmd.Flags().IntVar(&page.PageSize, "page-size", 25, "rows per page (1..500)")
	return cmd
}

func newMapCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Show aggregated map points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session, p *printer) error {
				points, err := s.adapter.MapPoints(ctx, s.rng, s.filters)
				if err != nil {
					return err
				}
				if p.isJSON() {
					return p.JSON(points)
				}

				t := newTable("COUNTRY", "LAT", "LON", "COUNT")
				for _, pt := range points {
					t.AddRow(pt.Country, strconv.FormatFloat(pt.Lat, 'f', 4, 64),
						strconv.FormatFloat(pt.Lon, 'f', 4, 64), strconv.Itoa(pt.Count))
				}
				t.Render(p.w)
				return nil
			})
		},
	}
}

func newTICommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "ti",
		Aliases: []string{"threat-intel"},
		Short:   "Show threat intelligence summary",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session, p *printer) error {
				ti, err := s.adapter.TISummary(ctx, s.rng, s.filters)
				if err != nil {
					return err
				}
				if p.isJSON() {
					return p.JSON(ti)
				}

				p.Title("Malicious IPs: %d  avg VT detections: %.1f", ti.MaliciousIPs, ti.AvgVTDetections)

				ips := newTable("IP", "EVENTS", "ABUSE", "VT", "FAMILY", "TACTICS")
				ips.highlight = func(row []string) bool {
					score, _ := strconv.Atoi(row[2])
					return score >= 90
				}
				for _, ip := range ti.TopMaliciousIPs {
					ips.AddRow(ip.IP, strconv.Itoa(ip.Count), strconv.Itoa(ip.AbuseScore),
						optionalInt(ip.VTDetections), ip.MalwareFamily, strings.Join(ip.MitreTactics, ", "))
				}
				ips.Render(p.w)

				families := newTable("FAMILY", "COUNT")
				for _, f := range ti.TopMalwareFamilies {
					families.AddRow(f.Family, strconv.Itoa(f.Count))
				}
				families.Render(p.w)

				if len(ti.TopUploads) > 0 {
					uploads := newTable("HASH", "DETECTIONS", "COUNT", "URL")
					for _, u := range ti.TopUploads {
						uploads.AddRow(u.Hash, optionalInt(u.Detections), strconv.Itoa(u.Count), u.URL)
					}
					uploads.Render(p.w)
				}
				return nil
			})
		},
	}
}

func newDatasetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dataset",
		Short: "Load exports and print the per-source load report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session, p *printer) error {
				ds, err := s.service.Store().Dataset(ctx)
				if err != nil {
					return err
				}
				if p.isJSON() {
					return p.JSON(ds)
				}

				t := newTable("SOURCE", "LINES", "EMPTY", "PARSED", "DROPPED")
				t.highlight = func(row []string) bool { return row[4] != "0" }
				for _, src := range ds.Report.Sources {
					t.AddRow(src.Source, strconv.Itoa(src.Lines), strconv.Itoa(src.Empty),
						strconv.Itoa(src.Parsed), strconv.Itoa(src.Dropped))
				}
				t.Render(p.w)

				p.Title("%d records, %d events, %d estimated timestamps in %s",
					ds.Report.Records, ds.Report.Events, ds.Report.EstimatedTimestamps, ds.Report.Duration)
				if ds.Synthetic {
					p.Warn("no exports found, showing synthetic demo data")
				}
				return nil
			})
		},
	}
}

func formatBreakdown(m map[string]int) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
