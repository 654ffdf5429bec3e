// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/caarlos0/env/v11"

	"github.com/mia-platform/mlingest/internal/destination"
	"github.com/mia-platform/mlingest/internal/info"
	"github.com/mia-platform/mlingest/internal/logger"
)

const (
	loggerName = "mlingest:destination:webhook"

	defaultAuthPath = "/oauth/token"
)

var (
	errMultipleAuthMethods = errors.New("only one between TRANSFORMATION_TOKEN and TRANSFORMATION_CLIENT_ID can be set")
	errMissingClientSecret = errors.New("TRANSFORMATION_CLIENT_SECRET must be set with TRANSFORMATION_CLIENT_ID")
	errMissingClientID     = errors.New("TRANSFORMATION_CLIENT_ID must be set with TRANSFORMATION_CLIENT_SECRET")
)

var _ destination.Sender = &webhookDestination{}

type WebhookError struct {
	err error
}

func (e *WebhookError) Error() string {
	return "webhook: " + e.err.Error()
}

func (e *WebhookError) Unwrap() error {
	return e.err
}

func (e *WebhookError) Is(target error) bool {
	we, ok := target.(*WebhookError)
	if !ok {
		return false
	}

	return e.err.Error() == we.err.Error()
}

// webhookDestination implements destination.Sender posting the artifacts to the transformation
// stage endpoint.
type webhookDestination struct {
	Endpoint     string `env:"TRANSFORMATION_ENDPOINT,required"`
	Token        string `env:"TRANSFORMATION_TOKEN"`
	ClientID     string `env:"TRANSFORMATION_CLIENT_ID"`
	ClientSecret string `env:"TRANSFORMATION_CLIENT_SECRET"`
	AuthEndpoint string `env:"TRANSFORMATION_AUTH_ENDPOINT"`

	client *http.Client
}

// NewDestination returns a new destination.Sender configured to reach the transformation stage.
// Its configuration is read from environment variables.
func NewDestination(ctx context.Context) (destination.Sender, error) {
	destination := new(webhookDestination)
	if err := env.Parse(destination); err != nil {
		return nil, handleError(err)
	}

	if err := destination.validate(); err != nil {
		return nil, handleError(err)
	}

	destination.client = &http.Client{
		Transport: newTransport(ctx, destination.AuthEndpoint, destination.Token, destination.ClientID, destination.ClientSecret),
	}
	return destination, nil
}

// validate checks the authentication settings and fills the default auth endpoint.
func (d *webhookDestination) validate() error {
	endpoint, err := url.Parse(d.Endpoint)
	if err != nil {
		return err
	}

	switch {
	case d.Token != "" && d.ClientID != "":
		return errMultipleAuthMethods
	case d.ClientID != "" && d.ClientSecret == "":
		return errMissingClientSecret
	case d.ClientID == "" && d.ClientSecret != "":
		return errMissingClientID
	}

	if d.AuthEndpoint == "" {
		d.AuthEndpoint = (&url.URL{Scheme: endpoint.Scheme, Host: endpoint.Host, Path: defaultAuthPath}).String()
		return nil
	}

	if _, err := url.Parse(d.AuthEndpoint); err != nil {
		return err
	}

	return nil
}

// SendArtifacts implements destination.Sender.
func (d *webhookDestination) SendArtifacts(ctx context.Context, data *destination.Data) error {
	log := logger.FromContext(ctx).WithName(loggerName)

	body, err := json.Marshal(data)
	if err != nil {
		return handleError(err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return handleError(err)
	}

	request.Header.Set("User-Agent", info.UserAgent())
	request.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient().Do(request)
	if err != nil {
		return handleError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		decoder := json.NewDecoder(resp.Body)
		var respBody map[string]any
		if err := decoder.Decode(&respBody); err == nil {
			if message, ok := respBody["message"].(string); ok {
				return handleError(errors.New(message))
			}
		}

		return handleError(errors.New("unexpected error"))
	}

	log.Info("artifacts handed over", "endpoint", d.Endpoint, "runId", data.RunID, "statusCode", resp.StatusCode)
	return nil
}

func (d *webhookDestination) httpClient() *http.Client {
	if d.client != nil {
		return d.client
	}

	return http.DefaultClient
}

func handleError(err error) error {
	var parseErr env.AggregateError
	if errors.As(err, &parseErr) {
		err = parseErr.Errors[0]
	}

	return &WebhookError{
		err: err,
	}
}
