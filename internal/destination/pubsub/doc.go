// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package pubsub implements a destination that publishes the ingestion artifacts as a JSON
// message on a Google Cloud Pub/Sub topic, where the transformation stage is subscribed.
package pubsub
