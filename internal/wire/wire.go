// Package wire provides dependency injection for wealthdesk.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/rs/zerolog"

	cliadapter "github.com/example/wealthdesk/internal/adapters/cli"
	"github.com/example/wealthdesk/internal/adapters/prefs"
	"github.com/example/wealthdesk/internal/adapters/sqlite"
	"github.com/example/wealthdesk/internal/app"
	"github.com/example/wealthdesk/internal/config"
	"github.com/example/wealthdesk/internal/db"
	"github.com/example/wealthdesk/internal/events"
	"github.com/example/wealthdesk/internal/logging"
	"github.com/example/wealthdesk/internal/ports/primary"
)

var (
	cfg               *config.Config
	logger            zerolog.Logger
	bus               *events.Bus
	themeService      primary.ThemeService
	checklistService  primary.ChecklistService
	overviewService   primary.OverviewService
	allocationService primary.AllocationService
	once              sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the root logger.
func Logger() zerolog.Logger {
	once.Do(initServices)
	return logger
}

// ThemeService returns the singleton ThemeService instance.
func ThemeService() primary.ThemeService {
	once.Do(initServices)
	return themeService
}

// ChecklistService returns the singleton ChecklistService instance.
func ChecklistService() primary.ChecklistService {
	once.Do(initServices)
	return checklistService
}

// OverviewService returns the singleton OverviewService instance.
func OverviewService() primary.OverviewService {
	once.Do(initServices)
	return overviewService
}

// AllocationService returns the singleton AllocationService instance.
func AllocationService() primary.AllocationService {
	once.Do(initServices)
	return allocationService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger = logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	db.SetLogger(logger)

	cal, err := cfg.Calendar()
	if err != nil {
		log.Fatalf("invalid calendar settings: %v", err)
	}
	prefsPath, err := config.PreferencesPath()
	if err != nil {
		log.Fatalf("failed to resolve preferences path: %v", err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters with the injected connection
	themeRepo := sqlite.NewThemeRepository(database)
	checklistRepo := sqlite.NewChecklistRepository(database, logger)
	allocRepo := sqlite.NewAllocationRepository(database, logger)
	positionRepo := sqlite.NewPositionRepository(database)
	rateRepo := sqlite.NewExchangeRateRepository(database)
	modeStore := prefs.NewYAMLStore(prefsPath)

	bus = events.NewBus(logger)
	valuations := app.NewPositionValuationProvider(positionRepo, rateRepo, cfg.Currency(), logger)

	// Services (primary ports implementation)
	themeService = app.NewThemeService(themeRepo, bus, logger)
	checklistService = app.NewChecklistService(themeRepo, checklistRepo, bus, cal, logger)
	overviewService = app.NewOverviewService(themeRepo, checklistRepo, valuations, bus, cal, cfg.ReminderSchedule, logger)
	allocationService = app.NewAllocationService(allocRepo, positionRepo, rateRepo, modeStore, bus, cfg.PortfolioID, cfg.Currency(), logger)
}

// ThemeAdapter returns a new ThemeAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ThemeAdapter() *cliadapter.ThemeAdapter {
	return ThemeAdapterWithOutput(os.Stdout)
}

// ThemeAdapterWithOutput returns a new ThemeAdapter writing to the given output.
func ThemeAdapterWithOutput(out io.Writer) *cliadapter.ThemeAdapter {
	once.Do(initServices)
	return cliadapter.NewThemeAdapter(themeService, out)
}

// ChecklistAdapter returns a new ChecklistAdapter writing to stdout.
func ChecklistAdapter() *cliadapter.ChecklistAdapter {
	return ChecklistAdapterWithOutput(os.Stdout)
}

// ChecklistAdapterWithOutput returns a new ChecklistAdapter writing to the given output.
func ChecklistAdapterWithOutput(out io.Writer) *cliadapter.ChecklistAdapter {
	once.Do(initServices)
	return cliadapter.NewChecklistAdapter(checklistService, themeService, overviewService, cfg.Currency(), out)
}

// AllocationAdapter returns a new AllocationAdapter writing to stdout.
func AllocationAdapter() *cliadapter.AllocationAdapter {
	return AllocationAdapterWithOutput(os.Stdout)
}

// AllocationAdapterWithOutput returns a new AllocationAdapter writing to the given output.
func AllocationAdapterWithOutput(out io.Writer) *cliadapter.AllocationAdapter {
	once.Do(initServices)
	return cliadapter.NewAllocationAdapter(allocationService, out)
}
