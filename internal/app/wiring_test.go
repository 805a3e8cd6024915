package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/polls/internal/config"
	"github.com/vncsmyrnk/polls/internal/core/domain"
)

func TestOpenStores(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []config.Config{
		{Store: config.StoreMemory},
		{Store: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "polls.db")},
	} {
		t.Run(cfg.Store, func(t *testing.T) {
			stores, err := OpenStores(ctx, cfg)
			require.NoError(t, err)
			defer stores.Close()

			q := &domain.Question{
				Text:    "Q",
				PubDate: time.Now(),
				Choices: []domain.Choice{{Text: "A"}, {Text: "B"}},
			}
			require.NoError(t, stores.Questions.Save(ctx, q))

			votes, err := stores.Votes.IncrementVote(ctx, q.Choices[0].ID)
			require.NoError(t, err)
			assert.EqualValues(t, 1, votes)
		})
	}
}

func TestOpenStoresUnknown(t *testing.T) {
	_, err := OpenStores(context.Background(), config.Config{Store: "mongo"})
	assert.Error(t, err)
}

func TestOpenPublisherNone(t *testing.T) {
	publisher, err := OpenPublisher(config.Config{Broker: config.BrokerNone})
	require.NoError(t, err)
	assert.Nil(t, publisher)
}

func TestOpenPublisherKafka(t *testing.T) {
	publisher, err := OpenPublisher(config.Config{
		Broker:       config.BrokerKafka,
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "votes",
	})
	require.NoError(t, err)
	require.NotNil(t, publisher)
	assert.NoError(t, publisher.Close())
}
