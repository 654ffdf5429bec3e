// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package writer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mia-platform/mlingest/internal/destination"
)

var _ destination.Sender = &writerDestination{}

type writerDestination struct {
	writer io.Writer

	lock sync.Mutex
}

func NewDestination(w io.Writer) destination.Sender {
	return &writerDestination{
		writer: w,
	}
}

func (d *writerDestination) SendArtifacts(_ context.Context, data *destination.Data) error {
	builder := new(strings.Builder)

	builder.WriteString("Ingestion completed:\n")
	builder.WriteString("\tRun ID: " + data.RunID + "\n")
	builder.WriteString("\tCompleted At: " + data.CompletedAt.Format(time.RFC3339) + "\n")
	builder.WriteString("\tRaw Data: " + data.RawPath + "\n")
	fmt.Fprintf(builder, "\tTrain Data: %s (%d rows)\n", data.TrainPath, data.TrainRows)
	fmt.Fprintf(builder, "\tTest Data: %s (%d rows)\n", data.TestPath, data.TestRows)
	fmt.Fprintf(builder, "\tColumns: %d\n", data.Columns)
	if data.RemoteLocation != "" {
		builder.WriteString("\tRemote Location: " + data.RemoteLocation + "\n")
	}
	builder.WriteString("\n")

	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := fmt.Fprint(d.writer, builder.String())
	return err
}
