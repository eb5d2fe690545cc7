package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookdb/internal/config"
	"github.com/mrlokans/bookdb/internal/contract"
	"github.com/mrlokans/bookdb/internal/database"
	"github.com/mrlokans/bookdb/internal/exporters"
	http_controllers "github.com/mrlokans/bookdb/internal/http"
	"github.com/mrlokans/bookdb/internal/notify"
	"github.com/mrlokans/bookdb/internal/provider"
	"github.com/mrlokans/bookdb/internal/scheduler"
	"github.com/mrlokans/bookdb/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	// Event streams never finish on their own; cancelling the base context
	// on shutdown ends them.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the queue goes away
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting bookdb v%s", version)

	helper := database.NewHelper(cfg.Database.Path, database.Options{
		LogLevel: gormLogLevel(cfg.Database.LogLevel),
	})
	if err := helper.Open(context.Background()); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := helper.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	log.Printf("Catalogue database at %s", helper.Path())

	c := contract.New(cfg.Content.Authority)
	resolver := notify.NewResolver()
	booksProvider := provider.NewBooksProvider(helper, c, resolver)
	log.Printf("Serving content://%s", c.Authority())

	catalogExporter := exporters.NewCatalogExporter(booksProvider, exporters.NewMarkdownExporter(cfg.Export.Dir))
	exportScheduler := scheduler.NewExportScheduler(catalogExporter, cfg.Export)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		var err error
		taskClient, err = tasks.NewClient(helper.Path(), tasks.NewConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewNotifyChangeQueue(resolver.Deliver),
			tasks.NewExportCatalogQueue(tasks.CatalogRunnerFunc(exportScheduler.RunNow)),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var asyncDispatcher *notify.Async
	switch cfg.Notify.Mode {
	case config.NotifyModeAsync:
		asyncDispatcher = notify.NewAsync(resolver.Deliver, cfg.Notify.QueueSize)
		resolver.SetDispatcher(asyncDispatcher)
		log.Printf("Change notifications: async (buffer %d)", cfg.Notify.QueueSize)
	case config.NotifyModeQueue:
		if taskClient == nil {
			log.Printf("WARNING: NOTIFY_MODE=queue requires TASKS_ENABLED. Falling back to sync notifications.")
			break
		}
		resolver.SetDispatcher(tasks.NewNotifyDispatcher(taskClient))
		log.Printf("Change notifications: queued through %s", taskClient.Path())
	default:
		log.Printf("Change notifications: sync")
	}

	if cfg.Export.OnChange {
		if taskClient == nil || cfg.Export.Dir == "" {
			log.Printf("WARNING: EXPORT_ON_CHANGE requires TASKS_ENABLED and EXPORT_DIR. Export on change is disabled.")
		} else {
			resolver.RegisterObserver(c.CollectionURI(), true, tasks.ExportOnChange(taskClient))
			log.Printf("Catalogue export queued after every change")
		}
	}

	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	if err := exportScheduler.Start(schedulerCtx); err != nil {
		log.Printf("WARNING: Failed to start export scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Provider:   booksProvider,
		Store:      helper,
		Resolver:   resolver,
		TaskClient: taskClient,
		Version:    version,
	}
	if cfg.Export.Dir != "" {
		routerCfg.ExportScheduler = exportScheduler
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		exportScheduler.Stop()
		schedulerCancel()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		if asyncDispatcher != nil {
			if err := asyncDispatcher.Close(); err != nil {
				log.Printf("Error closing notification dispatcher: %v", err)
			}
		}
	}

	Serve(router, cfg, onShutdown)
}

// gormLogLevel maps DATABASE_LOG_LEVEL onto the gorm logger. Unknown values
// keep the logger silent.
func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return logger.Error
	case "warn", "warning":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}
