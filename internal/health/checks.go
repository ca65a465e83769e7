package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/buyme/internal/config"
	"github.com/aaravmahajanofficial/buyme/internal/events"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const Version = "1.0.0"

type Endpoints struct {
	Events events.Publisher
}

// NewHealthHandler checks postgres and redis, and the event broker when one is configured.
func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:    "database",
			Timeout: 3 * time.Second,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		},
		{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	if endpoints != nil && endpoints.Events != nil {
		checks = append(checks, health.Config{
			Name:      "rabbitmq",
			Timeout:   2 * time.Second,
			SkipOnErr: true,
			Check:     brokerCheck(endpoints.Events),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "buyme",
			Version: Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func brokerCheck(publisher events.Publisher) health.CheckFunc {
	return func(context.Context) error {
		if err := publisher.Ready(); err != nil {
			return fmt.Errorf("event broker unavailable: %w", err)
		}

		return nil
	}
}
