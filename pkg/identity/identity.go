// Package identity verifies AWS credentials by asking STS who they belong
// to, without touching the process environment or the AWS CLI.
package identity

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/wozozo/s3pull/internal/config"
	apperrors "github.com/wozozo/s3pull/pkg/errors"
)

// Identity is the STS caller identity for a set of credentials.
type Identity struct {
	Account string
	Arn     string
	UserID  string
}

func (i Identity) String() string {
	return fmt.Sprintf("Account: %s\nARN: %s\nUser ID: %s", i.Account, i.Arn, i.UserID)
}

// API is the slice of the STS client this package uses.
type API interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Check verifies creds against STS and returns the caller identity.
func Check(ctx context.Context, creds *config.Credentials) (Identity, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(creds.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", apperrors.ErrCredentialCheckFailed, err)
	}
	return CheckWith(ctx, sts.NewFromConfig(cfg))
}

// CheckWith runs the identity check against an injected STS client.
func CheckWith(ctx context.Context, client API) (Identity, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", apperrors.ErrCredentialCheckFailed, err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
