// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package dataset loads tabular data from CSV into memory, writes it back and partitions its
// rows into reproducible train and test subsets.
//
// Every column is kept as text so that a loaded dataset is written back with the same values
// it has been read with: no type inference and no missing value substitution is performed.
package dataset
