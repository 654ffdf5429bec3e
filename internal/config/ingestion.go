// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultOutputDir is the directory receiving the ingestion artifacts.
	DefaultOutputDir = "artifacts"
	// DefaultRawFile is the file name of the unmodified copy of the source dataset.
	DefaultRawFile = "raw.csv"
	// DefaultTrainFile is the file name of the train partition.
	DefaultTrainFile = "train.csv"
	// DefaultTestFile is the file name of the test partition.
	DefaultTestFile = "test.csv"
	// DefaultTestRatio is the fraction of rows assigned to the test partition.
	DefaultTestRatio = 0.2
	// DefaultSeed seeds the row shuffling performed before the split.
	DefaultSeed uint64 = 42

	SourcePathField = "sourcePath"
	OutputDirField  = "outputDir"
	RawFileField    = "rawFile"
	TrainFileField  = "trainFile"
	TestFileField   = "testFile"
	TestRatioField  = "testRatio"
)

var (
	// ErrParsing reports failures that occur while decoding configuration sources.
	ErrParsing = errors.New("error parsing")
	// ErrInvalidConfig reports a configuration that cannot be used to run the ingestion.
	ErrInvalidConfig = errors.New("invalid ingestion configuration")
)

// Ingestion holds every parameter of an ingestion run.
type Ingestion struct {
	SourcePath string  `env:"INGESTION_SOURCE_PATH" yaml:"sourcePath"`
	OutputDir  string  `env:"INGESTION_OUTPUT_DIR" envDefault:"artifacts" yaml:"outputDir"`
	RawFile    string  `env:"INGESTION_RAW_FILE" envDefault:"raw.csv" yaml:"rawFile"`
	TrainFile  string  `env:"INGESTION_TRAIN_FILE" envDefault:"train.csv" yaml:"trainFile"`
	TestFile   string  `env:"INGESTION_TEST_FILE" envDefault:"test.csv" yaml:"testFile"`
	TestRatio  float64 `env:"INGESTION_TEST_RATIO" envDefault:"0.2" yaml:"testRatio"`
	Seed       uint64  `env:"INGESTION_SEED" envDefault:"42" yaml:"seed"`
}

// Default returns the configuration used when nothing is set, the source path excluded.
func Default() Ingestion {
	return Ingestion{
		OutputDir: DefaultOutputDir,
		RawFile:   DefaultRawFile,
		TrainFile: DefaultTrainFile,
		TestFile:  DefaultTestFile,
		TestRatio: DefaultTestRatio,
		Seed:      DefaultSeed,
	}
}

// LoadIngestion reads the configuration from the environment and then, if path is not empty,
// applies the values found in the YAML file at path on top of it.
// The returned configuration is not validated.
func LoadIngestion(path string) (*Ingestion, error) {
	cfg, err := env.ParseAs[Ingestion]()
	if err != nil {
		return nil, fmt.Errorf("%w environment: %w", ErrParsing, unwrapEnvError(err))
	}

	if path == "" {
		return &cfg, nil
	}

	if err := mergeFromFile(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeFromFile decodes the YAML file at path into cfg, leaving untouched the values not present.
func mergeFromFile(path string, cfg *Ingestion) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config file %q: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil {
		// An empty file is a valid file without overrides.
		if errors.Is(err, io.EOF) {
			return nil
		}

		return fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	return nil
}

// Validate reports every problem found in the configuration at once.
func (c Ingestion) Validate() error {
	errorsList := make([]string, 0)

	if strings.TrimSpace(c.SourcePath) == "" {
		errorsList = append(errorsList, fmt.Sprintf("missing field '%s'", SourcePathField))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errorsList = append(errorsList, fmt.Sprintf("missing field '%s'", OutputDirField))
	}

	if c.TestRatio <= 0 || c.TestRatio >= 1 || math.IsNaN(c.TestRatio) {
		errorsList = append(errorsList, fmt.Sprintf("field '%s' must be greater than 0 and lower than 1", TestRatioField))
	}

	fileNames := map[string]string{
		RawFileField:   c.RawFile,
		TrainFileField: c.TrainFile,
		TestFileField:  c.TestFile,
	}
	seen := make(map[string]string, len(fileNames))
	for _, field := range []string{RawFileField, TrainFileField, TestFileField} {
		name := fileNames[field]
		switch {
		case strings.TrimSpace(name) == "":
			errorsList = append(errorsList, fmt.Sprintf("missing field '%s'", field))
			continue
		case filepath.Base(name) != name:
			errorsList = append(errorsList, fmt.Sprintf("field '%s' must be a file name, not a path", field))
		}

		if other, ok := seen[name]; ok {
			errorsList = append(errorsList, fmt.Sprintf("fields '%s' and '%s' point to the same file", other, field))
		}
		seen[name] = field
	}

	if len(errorsList) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errorsList, "; "))
	}

	return nil
}

// RawPath returns the path of the raw data copy.
func (c Ingestion) RawPath() string {
	return filepath.Join(c.OutputDir, c.RawFile)
}

// TrainPath returns the path of the train partition.
func (c Ingestion) TrainPath() string {
	return filepath.Join(c.OutputDir, c.TrainFile)
}

// TestPath returns the path of the test partition.
func (c Ingestion) TestPath() string {
	return filepath.Join(c.OutputDir, c.TestFile)
}

// unwrapEnvError returns the first error of an aggregated env parsing error.
func unwrapEnvError(err error) error {
	var parseErr env.AggregateError
	if errors.As(err, &parseErr) && len(parseErr.Errors) > 0 {
		return parseErr.Errors[0]
	}

	return err
}
