// filename: internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/novasec/honeydash/internal/adapter"
	"github.com/novasec/honeydash/internal/common/config"
	"github.com/novasec/honeydash/internal/common/logging"
	"github.com/novasec/honeydash/internal/models"
	"github.com/novasec/honeydash/internal/normalizer"
	"github.com/novasec/honeydash/internal/query"
	"github.com/spf13/cobra"
)

// Форматы вывода
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// options общие флаги всех команд
type options struct {
	configPath string
	dataDir    string
	verbose    bool
	noColor    bool
	output     string

	preset string
	from   string
	to     string

	sensors    []string
	protocols  []string
	countries  []string
	eventTypes []string
	ip         string
	username   string
	password   string
	search     string

	now func() time.Time
}

// NewRootCommand собирает дерево команд honeyctl // v1.0
func NewRootCommand() *cobra.Command {
	opts := &options{now: time.Now}

	root := &cobra.Command{
		Use:   "honeyctl",
		Short: "Honeypot dashboard from the command line",
		Long: `honeyctl loads honeypot NDJSON exports from a directory and prints
the same aggregates the dashboard API serves: KPIs, timelines, top lists,
recent events, map points and threat intelligence.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			switch opts.output {
			case OutputTable, OutputJSON:
				return nil
			default:
				return fmt.Errorf("unknown output format %q: use table or json", opts.output)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: built-in defaults and HONEYDASH_* env)")
	flags.StringVar(&opts.dataDir, "data", "", "directory with honeypot NDJSON exports (overrides data.dir)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline progress to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVarP(&opts.output, "output", "o", OutputTable, "output format: table, json")

	flags.StringVar(&opts.preset, "preset", string(query.DefaultPreset), "time preset: all, 15m, 1h, 24h, 7d, 14d, 30d")
	flags.StringVar(&opts.from, "from", "", "window start, RFC3339")
	flags.StringVar(&opts.to, "to", "", "window end, RFC3339")

	flags.StringSliceVar(&opts.sensors, "sensor", nil, "sensor name or type (repeatable)")
	flags.StringSliceVar(&opts.protocols, "protocol", nil, "protocol (repeatable)")
	flags.StringSliceVar(&opts.countries, "country", nil, "country code or name (repeatable)")
	flags.StringSliceVar(&opts.eventTypes, "event-type", nil, "event type substring (repeatable)")
	flags.StringVar(&opts.ip, "ip", "", "source IP substring")
	flags.StringVar(&opts.username, "username", "", "username substring")
	flags.StringVar(&opts.password, "password", "", "password substring")
	flags.StringVarP(&opts.search, "query", "q", "", "free text search")

	root.AddCommand(
		newSummaryCommand(opts),
		newTimelineCommand(opts),
		newTopCommand(opts),
		newEventsCommand(opts),
		newMapCommand(opts),
		newTICommand(opts),
		newDatasetCommand(opts),
	)

	return root
}

// session загруженный источник данных для одной команды
type session struct {
	service *normalizer.Service
	adapter *adapter.LocalAdapter
	rng     models.TimeRange
	filters models.Filters
}

// open читает конфигурацию, строит окно и фильтры и готовит локальный адаптер // v1.0
func (o *options) open() (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.NewNop()
	if o.verbose {
		logger, err = logging.NewLogger(logging.Config{Level: "debug", Format: "text", Output: "stderr"})
		if err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
	}

	rng, err := query.ResolveTimeRange(o.preset, o.from, o.to, o.now())
	if err != nil {
		return nil, err
	}

	service := normalizer.NewService(cfg, logger)
	return &session{
		service: service,
		adapter: adapter.NewLocalAdapter(service.Store(), logger),
		rng:     rng,
		filters: o.filters(),
	}, nil
}

func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}
	return cfg, nil
}

func (o *options) filters() models.Filters {
	return models.Filters{
		Sensors:    o.sensors,
		Protocols:  o.protocols,
		Countries:  o.countries,
		EventTypes: o.eventTypes,
		IPAddress:  strings.TrimSpace(o.ip),
		Username:   o.username,
		Password:   o.password,
		Query:      strings.TrimSpace(o.search),
	}
}

// run открывает сессию и вызывает команду с контекстом cobra // v1.0
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, s *session, p *printer) error) error {
	s, err := o.open()
	if err != nil {
		return err
	}
	return fn(cmd.Context(), s, newPrinter(cmd.OutOrStdout(), o.output))
}
