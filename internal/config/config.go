package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type NotifyMode string

const (
	NotifyModeSync  NotifyMode = "sync"  // Observers run before the write returns (default)
	NotifyModeAsync NotifyMode = "async" // In-process queue drained by one goroutine
	NotifyModeQueue NotifyMode = "queue" // Durable backlite queue, requires tasks
)

type (
	Config struct {
		HTTP
		Global
		Database
		Content
		Notify
		Export
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // silent, error, warn or info
	}
	Content struct {
		Authority string // Authority part of content:// addresses
	}
	Notify struct {
		Mode      NotifyMode
		QueueSize int // Buffer of the async dispatcher
	}
	Export struct {
		Dir      string // Directory that receives catalog.md
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
		OnChange bool   // Enqueue an export after every change to the collection
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

// parseNotifyMode falls back to sync for unknown values.
func parseNotifyMode(s string) NotifyMode {
	switch NotifyMode(strings.ToLower(strings.TrimSpace(s))) {
	case NotifyModeAsync:
		return NotifyModeAsync
	case NotifyModeQueue:
		return NotifyModeQueue
	default:
		return NotifyModeSync
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "silent")
	v.SetDefault("content_authority", DefaultAuthority)

	// Notification defaults
	v.SetDefault("notify_mode", string(NotifyModeSync))
	v.SetDefault("notify_queue_size", 64)

	// Catalogue export defaults
	v.SetDefault("export_dir", "./export")
	v.SetDefault("export_enabled", false)
	v.SetDefault("export_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("export_on_change", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Content: Content{
			Authority: v.GetString("CONTENT_AUTHORITY"),
		},
		Notify: Notify{
			Mode:      parseNotifyMode(v.GetString("NOTIFY_MODE")),
			QueueSize: v.GetInt("NOTIFY_QUEUE_SIZE"),
		},
		Export: Export{
			Dir:      v.GetString("EXPORT_DIR"),
			Enabled:  v.GetBool("EXPORT_ENABLED"),
			Schedule: v.GetString("EXPORT_SCHEDULE"),
			OnChange: v.GetBool("EXPORT_ON_CHANGE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
