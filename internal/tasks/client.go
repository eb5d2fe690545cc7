package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client is the durable queue that sits next to the catalogue. Queued
// change notifications and catalogue exports survive a restart because
// they live in their own SQLite file.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	path    string
	workers int

	mu      sync.Mutex
	running bool
}

// DatabasePath derives the queue file from the catalogue file:
// "data/books.db" becomes "data/books-tasks.db".
func DatabasePath(catalogPath string) string {
	ext := filepath.Ext(catalogPath)
	return strings.TrimSuffix(catalogPath, ext) + "-tasks" + ext
}

func NewClient(catalogPath string, cfg Config) (*Client, error) {
	path := DatabasePath(catalogPath)

	db, err := openQueueDB(path, cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create task queue: %w", err)
	}
	if err := queue.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install task queue schema in %s: %w", path, err)
	}

	return &Client{queue: queue, db: db, path: path, workers: cfg.Workers}, nil
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database %s: %w", path, err)
	}
	// one connection per busy worker plus headroom for Add and Status
	db.SetMaxOpenConns(workers + 4)
	db.SetMaxIdleConns(workers + 1)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func (c *Client) Path() string {
	return c.path
}

// Register adds queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers. A second call while running does nothing.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	log.Printf("[TASK] %d workers on %s", c.workers, c.path)
	c.queue.Start(ctx)
}

// Stop drains running tasks and reports whether they finished before ctx
// expired. Stopping an idle client returns true.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return true
	}
	c.running = false

	drained := c.queue.Stop(ctx)
	if !drained {
		log.Printf("[TASK] Stopped before all tasks finished")
	}
	return drained
}

// Close releases the queue file. Stop the workers first.
func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.queue.Add(tasks...)
}

func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// queueLogger routes backlite's logging to the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
