// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var (
	// ErrInvalidRatio is returned when the test ratio is not strictly between 0 and 1.
	ErrInvalidRatio = errors.New("test ratio must be greater than 0 and lower than 1")
	// ErrEmptyPartition is returned when the split would leave the train or the test set empty.
	ErrEmptyPartition = errors.New("split would produce an empty partition")
)

// TestSize returns how many of rows end up in the test partition for testRatio.
// The value is rounded up, so that the test partition is never smaller than requested.
func TestSize(rows int, testRatio float64) int {
	return int(math.Ceil(testRatio * float64(rows)))
}

// SplitIndexes shuffles the indexes [0, rows) with a generator seeded by seed and partitions them
// into train and test indexes. The same rows, testRatio and seed always return the same partitions.
func SplitIndexes(rows int, testRatio float64, seed uint64) (train, test []int, err error) {
	if testRatio <= 0 || testRatio >= 1 || math.IsNaN(testRatio) {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRatio, testRatio)
	}

	testSize := TestSize(rows, testRatio)
	trainSize := rows - testSize
	if testSize < 1 || trainSize < 1 {
		return nil, nil, fmt.Errorf("%w: %d rows with test ratio %v gives %d train and %d test rows",
			ErrEmptyPartition, rows, testRatio, max(trainSize, 0), testSize)
	}

	permutation := rand.New(rand.NewPCG(seed, seed)).Perm(rows)
	return permutation[testSize:], permutation[:testSize], nil
}

// Split partitions the rows of d into a train and a test Dataset.
func Split(d *Dataset, testRatio float64, seed uint64) (train, test *Dataset, err error) {
	trainIndexes, testIndexes, err := SplitIndexes(d.Rows(), testRatio, seed)
	if err != nil {
		return nil, nil, err
	}

	if train, err = d.Subset(trainIndexes); err != nil {
		return nil, nil, err
	}

	if test, err = d.Subset(testIndexes); err != nil {
		return nil, nil, err
	}

	return train, test, nil
}
