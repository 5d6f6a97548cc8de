// Package neo4jdb holds the optional graph-store connection used to mirror
// correlation networks.
package neo4jdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/vitality-backend/internal/platform/envutil"
	"github.com/yungbote/vitality-backend/internal/platform/logger"
)

type Config struct {
	URI      string
	User     string
	Password string
	Database string
	Timeout  time.Duration
	MaxPool  int
}

func ConfigFromEnv() Config {
	return Config{
		URI:      envutil.String("NEO4J_URI", ""),
		User:     envutil.String("NEO4J_USER", "neo4j"),
		Password: envutil.String("NEO4J_PASSWORD", ""),
		Database: envutil.String("NEO4J_DATABASE", ""),
		Timeout:  envutil.Seconds("NEO4J_TIMEOUT_SECONDS", 10*time.Second),
		MaxPool:  envutil.Int("NEO4J_MAX_POOL_SIZE", 20),
	}
}

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger

	schemaOnce sync.Once
}

// NewFromEnv returns nil, nil when NEO4J_URI is unset.
func NewFromEnv(log *logger.Logger) (*Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if cfg.URI == "" {
		return nil, nil
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPool
		c.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}
	return &Client{Driver: driver, Database: cfg.Database, log: log.With("client", "Neo4jDB")}, nil
}

// Write runs fn in a managed write transaction against the configured
// database. stmts are schema statements applied once per process before the
// first write; failures there are logged and do not block writes.
func (c *Client) Write(ctx context.Context, stmts []string, fn func(tx neo4j.ManagedTransaction) error) error {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.Database,
	})
	defer session.Close(ctx)

	c.schemaOnce.Do(func() {
		for _, stmt := range stmts {
			res, err := session.Run(ctx, stmt, nil)
			if err == nil {
				_, err = res.Consume(ctx)
			}
			if err != nil {
				c.log.Warn("neo4j schema statement failed (continuing)", "error", err)
			}
		}
	})

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(tx)
	})
	return err
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
