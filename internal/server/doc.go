// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the HTTP server used by the serve command.
// It sets up the Fiber application, configures the request logging middleware, and defines the
// routes for health checks and for triggering new ingestion runs.
package server
