// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package ingestion implements the first stage of the training pipeline: it reads the source
// dataset, stores an unmodified copy of it and writes the train and test partitions that the
// following stages consume.
package ingestion
