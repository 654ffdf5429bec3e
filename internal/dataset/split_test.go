// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package dataset

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestSize(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		rows     int
		ratio    float64
		expected int
	}{
		"ten rows":            {rows: 10, ratio: 0.2, expected: 2},
		"rounded up":          {rows: 11, ratio: 0.2, expected: 3},
		"single row":          {rows: 1, ratio: 0.2, expected: 1},
		"no rows":             {rows: 0, ratio: 0.2, expected: 0},
		"one thousand rows":   {rows: 1000, ratio: 0.2, expected: 200},
		"quarter of hundreds": {rows: 100, ratio: 0.25, expected: 25},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expected, TestSize(test.rows, test.ratio))
		})
	}
}

func TestSplitIndexes(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		rows              int
		ratio             float64
		expectedTrainSize int
		expectedTestSize  int
		expectedErr       error
	}{
		"ten rows": {
			rows:              10,
			ratio:             0.2,
			expectedTrainSize: 8,
			expectedTestSize:  2,
		},
		"odd number of rows": {
			rows:              17,
			ratio:             0.2,
			expectedTrainSize: 13,
			expectedTestSize:  4,
		},
		"two rows": {
			rows:              2,
			ratio:             0.2,
			expectedTrainSize: 1,
			expectedTestSize:  1,
		},
		"single row": {
			rows:        1,
			ratio:       0.2,
			expectedErr: ErrEmptyPartition,
		},
		"no rows": {
			rows:        0,
			ratio:       0.2,
			expectedErr: ErrEmptyPartition,
		},
		"zero ratio": {
			rows:        10,
			ratio:       0,
			expectedErr: ErrInvalidRatio,
		},
		"full ratio": {
			rows:        10,
			ratio:       1,
			expectedErr: ErrInvalidRatio,
		},
		"negative ratio": {
			rows:        10,
			ratio:       -0.2,
			expectedErr: ErrInvalidRatio,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			train, testIndexes, err := SplitIndexes(test.rows, test.ratio, 42)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				assert.Nil(t, train)
				assert.Nil(t, testIndexes)
				return
			}

			require.NoError(t, err)
			assert.Len(t, train, test.expectedTrainSize)
			assert.Len(t, testIndexes, test.expectedTestSize)

			all := slices.Concat(train, testIndexes)
			slices.Sort(all)
			expected := make([]int, test.rows)
			for i := range expected {
				expected[i] = i
			}
			assert.Equal(t, expected, all, "partitions must be disjoint and cover every row")
		})
	}
}

func TestSplitIndexesIsDeterministic(t *testing.T) {
	t.Parallel()

	firstTrain, firstTest, err := SplitIndexes(100, 0.2, 42)
	require.NoError(t, err)
	secondTrain, secondTest, err := SplitIndexes(100, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, firstTrain, secondTrain)
	assert.Equal(t, firstTest, secondTest)

	otherTrain, otherTest, err := SplitIndexes(100, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, slices.Concat(firstTest, firstTrain), slices.Concat(otherTest, otherTrain))
}

func TestSplit(t *testing.T) {
	t.Parallel()

	data, err := LoadFile(filepath.Join("testdata", studentsFixture))
	require.NoError(t, err)

	train, test, err := Split(data, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, 8, train.Rows())
	assert.Equal(t, 2, test.Rows())
	assert.Equal(t, data.Names(), train.Names())
	assert.Equal(t, data.Names(), test.Names())

	// the union of the partitions is the input multiset
	joinRows := func(records [][]string) []string {
		rows := make([]string, 0, len(records))
		for _, record := range records {
			rows = append(rows, strings.Join(record, ","))
		}
		slices.Sort(rows)
		return rows
	}
	assert.Equal(t, joinRows(data.Records()), joinRows(slices.Concat(train.Records(), test.Records())))

	again, againTest, err := Split(data, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train.Records(), again.Records())
	assert.Equal(t, test.Records(), againTest.Records())
}

func TestSplitTooSmall(t *testing.T) {
	t.Parallel()

	data, err := Load(strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)

	train, test, err := Split(data, 0.2, 42)
	assert.ErrorIs(t, err, ErrEmptyPartition)
	assert.ErrorContains(t, err, fmt.Sprintf("%d rows", 1))
	assert.Nil(t, train)
	assert.Nil(t, test)
}
