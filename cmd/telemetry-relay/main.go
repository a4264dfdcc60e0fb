package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/techbluessolutions/n8n/pkg/cmd"
	"github.com/techbluessolutions/n8n/pkg/config"
	"github.com/techbluessolutions/n8n/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9092

func main() {
	command := &cli.Command{
		Name:                  "telemetry-relay",
		EnableShellCompletion: true,
		Usage:                 "Relay workflow execution outcomes to analytics and audit sinks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "event-bus",
				Usage:    "Event bus type (kafka, gochannel)",
				Required: true,
				Sources:  cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the relay YAML configuration file",
				Value:   "./relay.yaml",
				Sources: cli.EnvVars("RELAY_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the ingest API on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL for the sharing store",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "analytics-endpoint",
				Usage:   "Analytics backend base URL (empty disables analytics)",
				Sources: cli.EnvVars("ANALYTICS_ENDPOINT"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the shared outcome dedup guard",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "instance-id",
				Usage:   "Instance identifier reported with analytics (auto-generated if not provided)",
				Sources: cli.EnvVars("INSTANCE_ID"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("telemetry-relay")

			cfg := config.LoadRelayConfigOrDefault(command.String("config"))

			if endpoint := command.String("analytics-endpoint"); endpoint != "" {
				cfg.Analytics.Enabled = true
				cfg.Analytics.Endpoint = endpoint
			}

			if redisURL := command.String("redis-url"); redisURL != "" {
				cfg.Dedup.RedisURL = redisURL
			}

			instanceID := command.String("instance-id")
			if instanceID == "" {
				instanceID = cfg.InstanceID
			}

			if instanceID == "" {
				instanceID = "relay-" + uuid.New().String()[:8]
			}

			err := config.ValidateRelayConfig(cfg)
			if err != nil {
				return err
			}

			logger = logger.With("instance_id", instanceID)
			logger.InfoContext(ctx, "Initializing telemetry relay")

			eventBus := cmd.NewEventBus(command.String("event-bus"), cfg.Topics.Lifecycle, logger)
			auditSink := cmd.NewAuditSink(command.String("event-bus"), cfg.Topics.Audit, logger)
			analyticsClient := cmd.NewAnalyticsClient(cfg.Analytics.Endpoint, instanceID, logger)
			deduper := cmd.NewDeduper(cfg.Dedup.RedisURL, time.Duration(cfg.Dedup.TTLMinutes)*time.Minute, logger)

			lookup, closeLookup := cmd.NewRoleLookup(ctx, logger, command.String("database-url"))
			defer func() {
				err := closeLookup(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close sharing store", "error", err)
				}
			}()

			manager := NewRelayManager(
				instanceID,
				cfg,
				eventBus,
				auditSink,
				analyticsClient,
				deduper,
				lookup,
				logger,
			)

			err = manager.Start(ctx, command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start telemetry relay", "error", err)
			}

			return err
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
