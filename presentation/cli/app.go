package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gridwatch/application/classifier"
	"gridwatch/application/monitor"
	"gridwatch/domain/entities"
	"gridwatch/domain/interfaces"
	"gridwatch/infrastructure/browser"
	"gridwatch/infrastructure/config"
	"gridwatch/infrastructure/storage"
	"gridwatch/infrastructure/webhook"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// App wires configuration, drivers and the monitor together.
type App struct {
	cfg     *config.Config
	monitor *monitor.Monitor
	logger  *logrus.Logger
	once    bool
}

// NewApp - parses flags, loads configuration and builds the monitor.
func NewApp(args []string) (*App, error) {
	flags := flag.NewFlagSet("gridwatch", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to config.json (default: ./config.json)")
	once := flags.Bool("once", false, "run a single capture cycle and exit")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Info("Configuration loaded successfully")

	store := storage.NewStatusFile(cfg.StatusFile)

	archive, err := storage.NewScreenshotArchive(cfg.Screenshot.Dir, cfg.Screenshot.KeepCount)
	if err != nil {
		return nil, err
	}

	cls := classifier.New(classifier.Thresholds{
		GreenPixels:   cfg.Alerts.GreenThreshold,
		RedPixels:     cfg.Alerts.RedThreshold,
		MinBrightness: cfg.Alerts.MinBrightness,
	})

	mon := monitor.New(
		browserFactory(cfg, logger),
		cls,
		buildNotifier(cfg, logger),
		store,
		archive,
		monitor.Config{
			Credentials: entities.Credentials{
				URL:      cfg.SolarAssistant.URL,
				Username: cfg.SolarAssistant.Username,
				Password: cfg.SolarAssistant.Password,
			},
			SettleWait: cfg.SettleWait(),
			Policy: monitor.AlertPolicy{
				Enabled:  cfg.Alerts.Enabled,
				Cooldown: cfg.Cooldown(),
			},
		},
		logger,
	)

	return &App{
		cfg:     cfg,
		monitor: mon,
		logger:  logger,
		once:    *once,
	}, nil
}

// Run executes either a single cycle or the scheduler loop until SIGINT or
// SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		a.logger.Infof("Received %s, shutting down", sig)
		cancel()
	}()

	if a.once {
		a.logger.Info("Running in single-cycle mode")
		return a.monitor.RunCycle(ctx)
	}

	if !a.cfg.Schedule.Enabled {
		a.logger.Info("Scheduler is disabled in configuration")
		return nil
	}

	return a.monitor.Run(ctx, a.cfg.Interval())
}

// browserFactory - picks the configured driver, one fresh session per cycle.
func browserFactory(cfg *config.Config, logger *logrus.Logger) interfaces.BrowserFactory {
	return func() (interfaces.Browser, error) {
		switch cfg.Browser.Driver {
		case config.DriverSelenium:
			return browser.NewSeleniumController(cfg.Browser.Headless, logger)
		default:
			return browser.NewPlaywrightController(cfg.Browser.Headless, logger)
		}
	}
}

func buildNotifier(cfg *config.Config, logger *logrus.Logger) interfaces.Notifier {
	switch cfg.Webhook.Format {
	case config.FormatDiscord:
		return webhook.NewDiscordNotifier(cfg.Webhook.URL, cfg.SolarAssistant.URL, cfg.WebhookTimeout(), logger)
	default:
		return webhook.NewGenericNotifier(cfg.Webhook.URL, cfg.SolarAssistant.URL, cfg.WebhookTimeout(), logger)
	}
}
