// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps the underlying logging stack behind a consistent interface.
// The entry point builds a single Logger, attaches the optional per-run log file and
// makes it available to every stage through the context helpers.
package logger
