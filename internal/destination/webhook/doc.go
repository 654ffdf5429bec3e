// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package webhook implements a destination that posts the ingestion artifacts to the HTTP
// endpoint exposed by the transformation stage.
// Requests are authenticated with a static bearer token or with an OAuth2 client credentials flow.
package webhook
