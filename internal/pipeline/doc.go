// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package pipeline chains the stages executed for every ingestion run.
// A pipeline is composed of an ingestion, an optional artifact uploader and a destination that
// receives the artifacts for the transformation stage.
package pipeline
