// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config holds the configuration of the ingestion stage.
// Values are read from environment variables, can be overridden by a YAML file and are finally
// validated before being handed to the ingestion component.
package config
