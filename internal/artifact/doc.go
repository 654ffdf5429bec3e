// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package artifact defines the contract used to mirror the files produced by an ingestion run to
// a remote storage.
package artifact
