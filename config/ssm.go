package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterStore is the subset of the SSM client used to load secrets.
type ParameterStore interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewParameterStore builds an SSM client from the default AWS credential chain.
func NewParameterStore(ctx context.Context, region string) (ParameterStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// OverlayParameters copies every parameter under paramPath into config. The
// key is the last path segment upper-cased, so "/portfolio/prod/jwt_secret"
// becomes JWT_SECRET. Values already present in the environment win.
func OverlayParameters(ctx context.Context, store ParameterStore, config map[string]string, paramPath string) (int, error) {
	loaded := 0
	var nextToken *string
	for {
		out, err := store.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(paramPath),
			Recursive:      aws.Bool(true),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return loaded, fmt.Errorf("get parameters by path %s: %w", paramPath, err)
		}

		for _, p := range out.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			key := strings.ToUpper(path.Base(*p.Name))
			if existing, ok := config[key]; ok && existing != "" {
				continue
			}
			config[key] = *p.Value
			loaded++
		}

		if out.NextToken == nil || *out.NextToken == "" {
			return loaded, nil
		}
		nextToken = out.NextToken
	}
}
