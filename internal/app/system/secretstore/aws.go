package secretstore

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// secretsAPI is the subset of the Secrets Manager client used here.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSOptions configures the AWS Secrets Manager store.
type AWSOptions struct {
	Region string
	// Endpoint overrides the service endpoint (e.g. localstack).
	Endpoint string
	// VersionStage defaults to VersionCurrent.
	VersionStage string
}

// AWSStore reads secrets from AWS Secrets Manager.
type AWSStore struct {
	api          secretsAPI
	versionStage string
}

// NewAWS builds a store from the default AWS credential chain.
func NewAWS(ctx context.Context, opts AWSOptions) (*AWSStore, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *secretsmanager.Client
	if opts.Endpoint != "" {
		client = secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		})
	} else {
		client = secretsmanager.NewFromConfig(awsCfg)
	}
	return newAWSStore(client, opts.VersionStage), nil
}

func newAWSStore(api secretsAPI, versionStage string) *AWSStore {
	if versionStage == "" {
		versionStage = VersionCurrent
	}
	return &AWSStore{api: api, versionStage: versionStage}
}

// Fetch makes exactly one GetSecretValue call. A secret with no string
// payload yields an empty bundle.
func (s *AWSStore) Fetch(ctx context.Context, secretID string) (Bundle, error) {
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String(s.versionStage),
	})
	if err != nil {
		return nil, &FetchError{SecretID: secretID, Kind: classify(err), Err: err}
	}

	if out == nil || out.SecretString == nil || *out.SecretString == "" {
		return Bundle{}, nil
	}

	bundle, err := Decode(*out.SecretString)
	if err != nil {
		return nil, &FetchError{SecretID: secretID, Kind: KindDecode, Err: err}
	}
	return bundle, nil
}

func classify(err error) Kind {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			return KindNotFound
		case "AccessDeniedException", "AccessDenied", "UnrecognizedClientException",
			"InvalidSignatureException", "ExpiredTokenException", "DecryptionFailure":
			return KindPermission
		}
		return KindOther
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindOther
}
