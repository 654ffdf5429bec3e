// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/mlingest/internal/artifact"
	"github.com/mia-platform/mlingest/internal/artifact/azblob"
	"github.com/mia-platform/mlingest/internal/config"
	"github.com/mia-platform/mlingest/internal/destination"
	"github.com/mia-platform/mlingest/internal/destination/pubsub"
	"github.com/mia-platform/mlingest/internal/destination/webhook"
	"github.com/mia-platform/mlingest/internal/destination/writer"
	"github.com/mia-platform/mlingest/internal/server"
)

const (
	configPathFlagName  = "config"
	configPathFlagShort = "c"
	configPathFlagUsage = "Path to a YAML file containing the ingestion configuration"

	sourcePathFlagName  = "source"
	sourcePathFlagShort = "s"
	sourcePathFlagUsage = "Path of the CSV dataset to ingest"

	outputDirFlagName  = "output-dir"
	outputDirFlagShort = "o"
	outputDirFlagUsage = "Directory receiving the raw, train and test CSV files"

	testRatioFlagName  = "test-ratio"
	testRatioFlagUsage = "Fraction of the rows assigned to the test partition"

	seedFlagName  = "seed"
	seedFlagUsage = "Seed used to shuffle the rows before the split"

	handoffFlagName  = "handoff"
	handoffFlagUsage = "Destination notified with the artifacts (possible values: pubsub, webhook)"
	handoffPubSub    = "pubsub"
	handoffWebhook   = "webhook"

	localOutputFlagName  = "local-output"
	localOutputFlagUsage = "If set, writes the artifacts summary to stdout instead of notifying the handoff destination"
	defaultLocalOutput   = false

	uploadFlagName  = "upload"
	uploadFlagUsage = "If set, uploads the artifacts to the Azure Blob Storage container before the handoff"
	defaultUpload   = false
)

var (
	errInvalidHandoff = errors.New("invalid handoff destination")
	errRunInProgress  = errors.New("an ingestion run is already in progress")
)

// flags collects the CLI options shared by the ingest and serve commands.
type flags struct {
	configPath  string
	sourcePath  string
	outputDir   string
	testRatio   float64
	seed        uint64
	handoff     string
	localOutput bool
	upload      bool
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configPathFlagName, configPathFlagShort, "", configPathFlagUsage)
	cmd.Flags().StringVarP(&f.sourcePath, sourcePathFlagName, sourcePathFlagShort, "", sourcePathFlagUsage)
	cmd.Flags().StringVarP(&f.outputDir, outputDirFlagName, outputDirFlagShort, config.DefaultOutputDir, outputDirFlagUsage)
	cmd.Flags().Float64Var(&f.testRatio, testRatioFlagName, config.DefaultTestRatio, testRatioFlagUsage)
	cmd.Flags().Uint64Var(&f.seed, seedFlagName, config.DefaultSeed, seedFlagUsage)
	cmd.Flags().StringVar(&f.handoff, handoffFlagName, handoffPubSub, handoffFlagUsage)
	cmd.Flags().BoolVar(&f.localOutput, localOutputFlagName, defaultLocalOutput, localOutputFlagUsage)
	cmd.Flags().BoolVar(&f.upload, uploadFlagName, defaultUpload, uploadFlagUsage)

	_ = cmd.MarkFlagFilename(configPathFlagName, "yaml", "yml")
	_ = cmd.MarkFlagFilename(sourcePathFlagName, "csv")
	_ = cmd.MarkFlagDirname(outputDirFlagName)
	_ = cmd.RegisterFlagCompletionFunc(handoffFlagName, cobra.FixedCompletions(
		[]string{handoffPubSub, handoffWebhook},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// destination returns the handoff destination selected by the flags.
func (f *flags) destination(cmd *cobra.Command) (destination.Sender, error) {
	if f.localOutput {
		return writer.NewDestination(cmd.OutOrStdout()), nil
	}

	switch strings.ToLower(f.handoff) {
	case handoffPubSub:
		return pubsub.NewDestination()
	case handoffWebhook:
		return webhook.NewDestination(cmd.Context())
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidHandoff, f.handoff)
	}
}

// toOptions builds an options instance from the configuration sources and the parsed flags.
func (f *flags) toOptions(cmd *cobra.Command) (*options, error) {
	cfg, err := config.LoadIngestion(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed(sourcePathFlagName) {
		cfg.SourcePath = f.sourcePath
	}
	if changed(outputDirFlagName) {
		cfg.OutputDir = f.outputDir
	}
	if changed(testRatioFlagName) {
		cfg.TestRatio = f.testRatio
	}
	if changed(seedFlagName) {
		cfg.Seed = f.seed
	}

	destination, err := f.destination(cmd)
	if err != nil {
		return nil, err
	}

	var uploader artifact.Uploader
	if f.upload {
		uploader, err = azblob.NewUploader()
		if err != nil {
			return nil, err
		}
	}

	return &options{
		config:      *cfg,
		destination: destination,
		uploader:    uploader,
		newServer:   server.NewServer,
	}, nil
}
