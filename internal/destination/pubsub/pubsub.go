// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/caarlos0/env/v11"
	"google.golang.org/api/option"

	"github.com/mia-platform/mlingest/internal/destination"
	"github.com/mia-platform/mlingest/internal/logger"
)

const (
	loggerName = "mlingest:destination:pubsub"
)

var (
	// ErrMissingEnvVariable reports missing mandatory environment variables.
	ErrMissingEnvVariable = errors.New("missing environment variable")
	// ErrPubSubDestination wraps errors emitted while publishing the artifacts.
	ErrPubSubDestination = errors.New("pubsub destination")
)

var _ destination.Sender = &Destination{}

type config struct {
	ProjectID string `env:"GOOGLE_CLOUD_PUBSUB_PROJECT"`
	TopicID   string `env:"GOOGLE_CLOUD_PUBSUB_TOPIC"`
}

// Destination publishes the artifacts of every ingestion run on a Pub/Sub topic.
type Destination struct {
	config  config
	options []option.ClientOption

	lock      sync.Mutex
	client    *gcppubsub.Client
	publisher *gcppubsub.Publisher
}

// NewDestination reads its configuration from the environment and returns a Destination.
// The Pub/Sub client is created on the first handoff.
func NewDestination() (*Destination, error) {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		return nil, err
	}

	return newDestination(cfg)
}

func newDestination(cfg config, options ...option.ClientOption) (*Destination, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	return &Destination{
		config:  cfg,
		options: options,
	}, nil
}

// checkConfig validates the required configuration for the Pub/Sub publisher.
func checkConfig(cfg config) error {
	missingEnvs := make([]string, 0)
	if cfg.ProjectID == "" {
		missingEnvs = append(missingEnvs, "GOOGLE_CLOUD_PUBSUB_PROJECT")
	}
	if cfg.TopicID == "" {
		missingEnvs = append(missingEnvs, "GOOGLE_CLOUD_PUBSUB_TOPIC")
	}

	if len(missingEnvs) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvVariable, strings.Join(missingEnvs, ", "))
	}

	return nil
}

// initPublisher initializes the Pub/Sub client and publisher once and reuses them afterwards.
func (d *Destination) initPublisher(ctx context.Context) (*gcppubsub.Publisher, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.publisher != nil {
		return d.publisher, nil
	}

	client, err := gcppubsub.NewClient(ctx, d.config.ProjectID, d.options...)
	if err != nil {
		return nil, err
	}

	d.client = client
	d.publisher = client.Publisher(d.config.TopicID)
	return d.publisher, nil
}

// SendArtifacts publishes data and waits for the server to acknowledge the message.
func (d *Destination) SendArtifacts(ctx context.Context, data *destination.Data) error {
	log := logger.FromContext(ctx).WithName(loggerName)

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPubSubDestination, err)
	}

	publisher, err := d.initPublisher(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPubSubDestination, err)
	}

	log.Debug("publishing artifacts", "topic", d.config.TopicID, "runId", data.RunID)
	result := publisher.Publish(ctx, &gcppubsub.Message{
		Data:       payload,
		Attributes: data.Attributes(),
	})

	messageID, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPubSubDestination, err)
	}

	log.Info("artifacts published", "topic", d.config.TopicID, "messageId", messageID)
	return nil
}

// Close flushes pending messages and releases the Pub/Sub client.
func (d *Destination) Close(ctx context.Context) error {
	log := logger.FromContext(ctx).WithName(loggerName)

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.client == nil {
		return nil
	}

	log.Debug("closing GCP pub/sub client")
	d.publisher.Stop()
	err := d.client.Close()
	d.client = nil
	d.publisher = nil
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPubSubDestination, err)
	}

	log.Trace("closed GCP pub/sub client")
	return nil
}
