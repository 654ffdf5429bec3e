// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package destination defines the contract used to hand the ingestion artifacts over to the
// downstream transformation stage.
package destination
