// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package azblob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/caarlos0/env/v11"

	"github.com/mia-platform/mlingest/internal/artifact"
	"github.com/mia-platform/mlingest/internal/logger"
)

const (
	loggerName = "mlingest:artifact:azblob"

	csvContentType = "text/csv"
)

var (
	// ErrUpload wraps every failure that happens while uploading the artifacts.
	ErrUpload = errors.New("artifact upload")
)

var _ artifact.Uploader = &Uploader{}

// blobClient is the subset of *azblob.Client used by the Uploader.
type blobClient interface {
	URL() string
	UploadFile(ctx context.Context, containerName string, blobName string, file *os.File, o *azblob.UploadFileOptions) (azblob.UploadFileResponse, error)
}

// Uploader stores the artifacts of a run in an Azure Blob Storage container.
type Uploader struct {
	containerName string
	client        blobClient
}

// NewUploader reads its configuration from the environment and returns an Uploader.
func NewUploader() (*Uploader, error) {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client, err := cfg.newClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	return &Uploader{
		containerName: cfg.ContainerName,
		client:        client,
	}, nil
}

// Upload stores every file in paths as <runID>/<file name> and returns the URL of the run
// directory inside the container.
func (u *Uploader) Upload(ctx context.Context, runID string, paths ...string) (string, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	for _, filePath := range paths {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrUpload, err)
		}

		blobName := path.Join(runID, filepath.Base(filePath))
		if err := u.uploadFile(ctx, runID, blobName, filePath); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrUpload, blobName, err)
		}
		log.Debug("artifact uploaded", "container", u.containerName, "blob", blobName)
	}

	location, err := url.JoinPath(u.client.URL(), u.containerName, runID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}

	log.Info("artifacts uploaded", "location", location, "files", len(paths))
	return location, nil
}

func (u *Uploader) uploadFile(ctx context.Context, runID, blobName, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = u.client.UploadFile(ctx, u.containerName, blobName, file, &azblob.UploadFileOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(csvContentType),
		},
		Metadata: map[string]*string{
			"runId": to.Ptr(runID),
		},
	})
	return err
}
