// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package writer implements a destination that prints a summary of the received artifacts to
// the given io.Writer instance.
// It is the default destination when the transformation stage runs on the same machine.
package writer
