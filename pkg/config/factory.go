package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"lexvault/pkg/blob"
	"lexvault/pkg/blob/memory"
	s3blob "lexvault/pkg/blob/s3"
	"lexvault/pkg/log"
)

// NewBlobClient builds the blob backend selected by the configuration.
func NewBlobClient(ctx context.Context, cfg StorageConfig) (blob.Client, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "s3":
		return newS3Client(ctx, cfg.Options)
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}

func newS3Client(ctx context.Context, options map[string]any) (blob.Client, error) {
	type s3Options struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var opts s3Options
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode s3 storage options: %w", err)
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}
	if opts.Region == "" {
		return nil, fmt.Errorf("s3 storage: region is required")
	}

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions, awsConfig.WithRegion(opts.Region))

	// Custom endpoint covers MinIO and Localstack.
	if opts.Endpoint != "" {
		//nolint:staticcheck // BaseEndpoint migration pending on SDK stabilization
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck
				return aws.Endpoint{
					URL:               opts.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(resolver))
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	store, err := s3blob.New(ctx, s3blob.Config{
		S3:        client,
		Bucket:    opts.Bucket,
		KeyPrefix: opts.KeyPrefix,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("bucket", opts.Bucket).
		Str("region", opts.Region).
		Str("prefix", opts.KeyPrefix).
		Msg("S3 blob client initialized")
	return store, nil
}
