// Package app opens the configured store and event publisher.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/polls/internal/adapters/event"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/redis"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type Stores struct {
	Questions ports.QuestionRepository
	Votes     ports.VoteStore
	Close     func()
}

func OpenStores(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.Postgres.ConnString())
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		if err := postgres.ApplyMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{
			Questions: postgres.NewQuestionRepository(db),
			Votes:     postgres.NewVoteStore(db),
			Close:     closer("postgres", db.Close),
		}, nil

	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		repo := sqlite.NewRepository(db)
		return &Stores{Questions: repo, Votes: repo, Close: closer("sqlite", db.Close)}, nil

	case config.StoreRedis:
		store, err := redis.NewStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return &Stores{Questions: store, Votes: store, Close: closer("redis", store.Close)}, nil

	case config.StoreMemory:
		store := memory.NewStore()
		return &Stores{Questions: store, Votes: store, Close: func() {}}, nil
	}

	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// OpenPublisher returns nil when no broker is configured.
func OpenPublisher(cfg config.Config) (ports.VoteEventPublisher, error) {
	switch cfg.Broker {
	case config.BrokerKafka:
		return event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil

	case config.BrokerRabbitMQ:
		conn, err := event.DialRabbitMQ(cfg.RabbitMQURL, 5, 5*time.Second)
		if err != nil {
			return nil, err
		}
		publisher, err := event.NewRabbitMQPublisher(conn, cfg.RabbitMQQueue)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return publisher, nil
	}

	return nil, nil
}

func closer(name string, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			slog.Error("failed to close store", "store", name, "error", err)
		}
	}
}
