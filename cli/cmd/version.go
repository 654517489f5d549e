package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/calc/pkg"
)

// Version prints the version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	if _, err := fmt.Fprintln(streamsFrom(ctx).out, pkg.Version); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
