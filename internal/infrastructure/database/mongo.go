package database

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds the MongoDB connection settings
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxRetries     int
}

// MongoDB manages the client lifecycle
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *MongoConfig
}

func NewMongoDB(config *MongoConfig) *MongoDB {
	return &MongoDB{Config: config}
}

// Connect dials the server and pings the primary, retrying with backoff
func (m *MongoDB) Connect(ctx context.Context) error {
	log.Info().Str("database", m.Config.Database).Msg("[MONGO] Connecting to MongoDB...")

	attempts := m.Config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var client *mongo.Client
	err := retry.Do(
		func() error {
			connectCtx, cancel := context.WithTimeout(ctx, m.Config.ConnectTimeout)
			defer cancel()

			c, err := mongo.Connect(connectCtx, options.Client().
				ApplyURI(m.Config.URI).
				SetConnectTimeout(m.Config.ConnectTimeout))
			if err != nil {
				return err
			}
			if err := c.Ping(connectCtx, readpref.Primary()); err != nil {
				_ = c.Disconnect(context.Background())
				return err
			}
			client = c
			return nil
		},
		retry.Attempts(uint(attempts)),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("[MONGO] Connection attempt failed, retrying")
		}),
	)
	if err != nil {
		return fmt.Errorf("mongo connection failed after %d attempts: %w", attempts, err)
	}

	m.Client = client
	m.Database = client.Database(m.Config.Database)

	log.Info().Msg("[MONGO] Connected successfully")
	return nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo client is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.Client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	err := m.Client.Disconnect(ctx)
	m.Client = nil
	m.Database = nil
	return err
}
