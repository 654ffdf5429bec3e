// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package azblob implements an artifact uploader backed by an Azure Blob Storage container.
// Every run is stored under a virtual directory named after the run id.
package azblob
