package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/estatedesk/internal/cli"
	"github.com/alexanderramin/estatedesk/internal/cms"
	"github.com/alexanderramin/estatedesk/internal/config"
	"github.com/alexanderramin/estatedesk/internal/db"
	"github.com/alexanderramin/estatedesk/internal/domain"
	"github.com/alexanderramin/estatedesk/internal/filterstore"
	"github.com/alexanderramin/estatedesk/internal/listview"
	"github.com/alexanderramin/estatedesk/internal/repository"
	"github.com/alexanderramin/estatedesk/internal/service"
	"github.com/alexanderramin/estatedesk/internal/storage"
)

func main() {
	if err := run(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	flags := config.FlagSet()
	cfg, err := config.LoadArgs(flags, os.Args[1:])
	if err != nil {
		return err
	}

	// Call and use-case logs go to log_file, or stderr with log_calls.
	var logw io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logw = f
	} else if cfg.LogCalls {
		logw = os.Stderr
	}
	var logger *slog.Logger
	if logw != nil {
		logger = slog.New(slog.NewTextHandler(logw, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	callObserver := cms.NewLogObserver(logw)
	useCases := service.NewLogUseCaseObserver(logw)

	// Open database
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Session token: a static token wins over the session endpoint.
	var tokens cms.TokenSource = cms.StaticToken(cfg.Token)
	if cfg.Token == "" && cfg.AuthURL != "" {
		tokens = &cms.SessionTokenSource{BaseURL: cfg.AuthURL}
	}
	client := cms.NewClient(cms.Config{BaseURL: cfg.CMSURL, Timeout: cfg.Timeout}, tokens, callObserver)
	storageClient := client
	if cfg.StorageURL != cfg.CMSURL {
		storageClient = cms.NewClient(cms.Config{BaseURL: cfg.StorageURL, Timeout: cfg.Timeout}, tokens, callObserver)
	}
	uploader := storage.NewUploader(storageClient, logger)

	// Wire repositories and services
	uow := db.NewSQLiteUnitOfWork(database)
	exportLog := service.NewExportLogService(repository.NewSQLiteExportLogRepo(database))
	notices := cli.NewNotices(os.Stderr)

	customers := service.NewRecordService(cms.NewResource[domain.Customer](client, domain.CustomersEntity), useCases)
	masters := service.NewRecordService(cms.NewResource[domain.MasterDevelopment](client, domain.MasterDevelopmentsEntity), useCases)
	subs := service.NewRecordService(cms.NewResource[domain.SubDevelopment](client, domain.SubDevelopmentsEntity), useCases)
	properties := service.NewRecordService(cms.NewResource[domain.Property](client, domain.PropertiesEntity), useCases)

	app := &cli.App{
		Customers: cli.NewCollection(customers,
			service.NewExportService(&listview.Exporter[domain.Customer]{
				Entity: domain.CustomersEntity.Name, Fetcher: customers, Schema: domain.CustomerFilters,
				Fields: domain.CustomerExportFields, Format: listview.FormatCSV, Dir: cfg.ExportDir, Notifier: notices,
			}, domain.CustomersEntity, exportLog, useCases),
			domain.CustomerFilters, domain.CustomerColumns, domain.CustomerPresets),
		MasterDevelopments: cli.NewCollection(masters,
			service.NewExportService(&listview.Exporter[domain.MasterDevelopment]{
				Entity: domain.MasterDevelopmentsEntity.Name, Fetcher: masters, Schema: domain.MasterDevelopmentFilters,
				Fields: domain.MasterDevelopmentExportFields, Format: listview.FormatCSV, Dir: cfg.ExportDir, Notifier: notices,
			}, domain.MasterDevelopmentsEntity, exportLog, useCases),
			domain.MasterDevelopmentFilters, domain.MasterDevelopmentColumns, domain.MasterDevelopmentPresets),
		SubDevelopments: cli.NewCollection(subs,
			service.NewExportService(&listview.Exporter[domain.SubDevelopment]{
				Entity: domain.SubDevelopmentsEntity.Name, Fetcher: subs, Schema: domain.SubDevelopmentFilters,
				Fields: domain.SubDevelopmentExportFields, Format: listview.FormatCSV, Dir: cfg.ExportDir, Notifier: notices,
			}, domain.SubDevelopmentsEntity, exportLog, useCases),
			domain.SubDevelopmentFilters, domain.SubDevelopmentColumns, domain.SubDevelopmentPresets),
		Properties: cli.NewCollection(properties,
			service.NewExportService(&listview.Exporter[domain.Property]{
				Entity: domain.PropertiesEntity.Name, Fetcher: properties, Schema: domain.PropertyFilters,
				Fields: domain.PropertyExportFields, Format: listview.FormatXLSX, Dir: cfg.ExportDir, Notifier: notices,
			}, domain.PropertiesEntity, exportLog, useCases),
			domain.PropertyFilters, domain.PropertyColumns, domain.PropertyPresets),

		SavedFilters:    service.NewSavedFilterService(repository.NewSQLiteSavedFilterRepo(database), uow, useCases),
		Exports:         exportLog,
		SubDevCustomers: service.NewSubDevelopmentCustomers(subs, useCases),

		Notices:     notices,
		PageSize:    cfg.PageSize,
		ExportCap:   cfg.ExportCap,
		GlobalFlags: flags,
	}

	// Picture slots and the location sidebars.
	app.Properties.Uploader = uploader
	app.MasterDevelopments.Store = filterstore.New(domain.MasterDevelopmentFilters)
	app.Properties.Store = filterstore.New(domain.PropertyFilters)

	// Detect interactive terminal for prompts and browse.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
