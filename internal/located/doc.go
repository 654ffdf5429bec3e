// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package located attaches the source location where an error has been wrapped to the error
// itself. The resulting error is a plain value: logging it is left to the code that finally
// handles it.
package located
