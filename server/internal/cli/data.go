package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/launchdash/launchdash/server/internal/config"
	"github.com/launchdash/launchdash/server/internal/dataset"
)

// dataOptions are the flags shared by commands that read a launch table.
type dataOptions struct {
	Source      string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

func (o *dataOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Source, "data", "d", config.DefaultDataSource, "launch table: CSV path or s3://bucket/key")
	cmd.Flags().StringVar(&o.S3Region, "s3-region", config.DefaultS3Region, "region for s3:// sources")
	cmd.Flags().StringVar(&o.S3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL for s3:// sources")
	cmd.Flags().BoolVar(&o.S3PathStyle, "s3-path-style", false, "use path-style S3 addressing")
}

func (o *dataOptions) s3Config() dataset.S3Config {
	return dataset.S3Config{Region: o.S3Region, Endpoint: o.S3Endpoint, PathStyle: o.S3PathStyle}
}

// loadDataset reads src, creating an S3 client only for s3:// sources.
// Every failure is an ExitFailure.
func loadDataset(ctx context.Context, src string, s3cfg dataset.S3Config) (*dataset.Dataset, error) {
	opener := dataset.SourceOpener{Files: dataset.FileOpener{}}
	if strings.HasPrefix(src, "s3://") {
		s3o, err := dataset.NewS3Opener(ctx, s3cfg)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "s3 client", err)
		}
		opener.S3 = s3o
	}
	ds, err := dataset.Load(ctx, src, opener)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "load dataset", err)
	}
	return ds, nil
}
