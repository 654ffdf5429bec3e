// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIngestion(t *testing.T) {
	testCases := map[string]struct {
		env            map[string]string
		path           string
		expectedConfig *Ingestion
		expectedErr    error
	}{
		"defaults without environment": {
			expectedConfig: func() *Ingestion {
				cfg := Default()
				return &cfg
			}(),
		},
		"values from environment": {
			env: map[string]string{
				"INGESTION_SOURCE_PATH": "/data/stud.csv",
				"INGESTION_OUTPUT_DIR":  "/tmp/artifacts",
				"INGESTION_TEST_RATIO":  "0.3",
				"INGESTION_SEED":        "1",
			},
			expectedConfig: &Ingestion{
				SourcePath: "/data/stud.csv",
				OutputDir:  "/tmp/artifacts",
				RawFile:    DefaultRawFile,
				TrainFile:  DefaultTrainFile,
				TestFile:   DefaultTestFile,
				TestRatio:  0.3,
				Seed:       1,
			},
		},
		"file overrides environment": {
			env: map[string]string{
				"INGESTION_SOURCE_PATH": "/data/other.csv",
				"INGESTION_TRAIN_FILE":  "fit.csv",
			},
			path: filepath.Join("testdata", "ingestion.yaml"),
			expectedConfig: &Ingestion{
				SourcePath: "data/stud.csv",
				OutputDir:  "out",
				RawFile:    DefaultRawFile,
				TrainFile:  "fit.csv",
				TestFile:   DefaultTestFile,
				TestRatio:  0.25,
				Seed:       7,
			},
		},
		"empty file keeps environment": {
			env: map[string]string{
				"INGESTION_SOURCE_PATH": "/data/stud.csv",
			},
			path: filepath.Join("testdata", "empty.yaml"),
			expectedConfig: func() *Ingestion {
				cfg := Default()
				cfg.SourcePath = "/data/stud.csv"
				return &cfg
			}(),
		},
		"invalid environment value": {
			env: map[string]string{
				"INGESTION_TEST_RATIO": "twenty percent",
			},
			expectedErr: ErrParsing,
		},
		"unknown field in file": {
			path:        filepath.Join("testdata", "unknown-field.yaml"),
			expectedErr: ErrParsing,
		},
		"invalid value in file": {
			path:        filepath.Join("testdata", "invalid.yaml"),
			expectedErr: ErrParsing,
		},
		"missing file": {
			path:        filepath.Join("testdata", "missing.yaml"),
			expectedErr: os.ErrNotExist,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			for key, value := range test.env {
				t.Setenv(key, value)
			}

			cfg, err := LoadIngestion(test.path)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedConfig, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	validConfig := func(modify func(*Ingestion)) Ingestion {
		cfg := Default()
		cfg.SourcePath = "data.csv"
		if modify != nil {
			modify(&cfg)
		}
		return cfg
	}

	testCases := map[string]struct {
		config          Ingestion
		expectedMessage string
	}{
		"valid configuration": {
			config: validConfig(nil),
		},
		"missing source path": {
			config:          Default(),
			expectedMessage: "invalid ingestion configuration: missing field 'sourcePath'",
		},
		"ratio out of range": {
			config: validConfig(func(cfg *Ingestion) {
				cfg.TestRatio = 1
			}),
			expectedMessage: "invalid ingestion configuration: field 'testRatio' must be greater than 0 and lower than 1",
		},
		"duplicated and empty file names": {
			config: validConfig(func(cfg *Ingestion) {
				cfg.OutputDir = ""
				cfg.RawFile = ""
				cfg.TestFile = cfg.TrainFile
			}),
			expectedMessage: "invalid ingestion configuration: missing field 'outputDir'; missing field 'rawFile'; fields 'trainFile' and 'testFile' point to the same file",
		},
		"file name with directories": {
			config: validConfig(func(cfg *Ingestion) {
				cfg.TrainFile = filepath.Join("nested", "train.csv")
			}),
			expectedMessage: "invalid ingestion configuration: field 'trainFile' must be a file name, not a path",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			err := test.config.Validate()
			if test.expectedMessage == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.EqualError(t, err, test.expectedMessage)
		})
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, filepath.Join("artifacts", "raw.csv"), cfg.RawPath())
	assert.Equal(t, filepath.Join("artifacts", "train.csv"), cfg.TrainPath())
	assert.Equal(t, filepath.Join("artifacts", "test.csv"), cfg.TestPath())
}
