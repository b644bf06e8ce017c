package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-cart/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const Version = "1.0.0"

type Endpoints struct {
	DB *sql.DB
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check:     databaseCheck(cfg, endpoints),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// The embedded store has no server to dial, so it is checked through the
// shared pool instead.
func databaseCheck(cfg *config.Config, endpoints *Endpoints) health.CheckFunc {
	if cfg.Database.Driver == config.DriverPostgres {
		return postgres.New(postgres.Config{DSN: cfg.Database.GetDSN()})
	}

	return func(ctx context.Context) error {
		if endpoints == nil || endpoints.DB == nil {
			return fmt.Errorf("database is not initialized")
		}
		if err := endpoints.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		return nil
	}
}
