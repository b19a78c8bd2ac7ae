package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/bootstrap"
)

// infra is the set of connections handed to a command body. Redis is nil
// when it is disabled in config.
type infra struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
}

// withInfra connects postgres (and redis when wantRedis is set), bounds the
// work by the --timeout flag and SIGINT/SIGTERM, and closes everything after.
func (a *app) withInfra(ctx context.Context, wantRedis bool, f func(context.Context, infra) error) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	dbCfg := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: a.logger}
	db, err := bootstrap.ConnectDB(dbCfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	var client redis.UniversalClient
	if wantRedis {
		client, err = bootstrap.ConnectRedis(dbCfg)
		if err != nil {
			return errors.Join(fmt.Errorf("connect redis: %w", err), closeInfra(db, nil))
		}
	}

	runErr := f(ctx, infra{Config: cfg, DB: db, Redis: client})
	if closeErr := closeInfra(db, client); closeErr != nil {
		a.logger.Warn("close infrastructure failed", "error", closeErr)
	}
	return runErr
}

func closeInfra(db *sql.DB, redisClient redis.UniversalClient) error {
	var closeErr error
	if db != nil {
		if err := db.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}

// guardRemoteHost refuses to write to a non-local database unless allow is
// set and the operator types the host name back.
func (a *app) guardRemoteHost(allow bool, action string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	host := cfg.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return nil
	}
	if !allow {
		return fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}
	return a.requireRemoteHostConfirmation(action, host)
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func (a *app) requireRemoteHostConfirmation(action, host string) error {
	if _, err := fmt.Fprintf(a.errOut,
		"\nWARNING: database host %q does not look like a local address.\nThis operation will %s.\n"+
			"Type %q to continue or press enter to abort: ",
		host, action, host,
	); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	resp, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if strings.TrimSpace(resp) != host {
		return errors.New("aborted by user")
	}
	return nil
}
