package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	apperrors "github.com/wozozo/s3pull/pkg/errors"
)

// Recognized keys in the credentials file.
const (
	KeyAccessKeyID     = "AWS_ACCESS_KEY_ID"
	KeySecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	KeyDefaultRegion   = "AWS_DEFAULT_REGION"
)

// Credentials holds the AWS credentials read from the dotenv file. They are
// never written into the process environment; the subprocess and SDK
// boundaries receive them explicitly.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// LoadCredentials reads a KEY=VALUE credentials file. fallbackRegion fills
// in AWS_DEFAULT_REGION when the file omits it; every other key is
// required.
func LoadCredentials(path string, fallbackRegion string) (*Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.WrapConfigError(path, apperrors.ErrCredentialsFileNotFound)
		}
		return nil, apperrors.WrapConfigError(path, err)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, apperrors.WrapConfigError(path, fmt.Errorf("%w: %v", apperrors.ErrCredentialsFileInvalid, err))
	}

	creds := &Credentials{
		AccessKeyID:     values[KeyAccessKeyID],
		SecretAccessKey: values[KeySecretAccessKey],
		Region:          values[KeyDefaultRegion],
	}
	if creds.Region == "" {
		creds.Region = fallbackRegion
	}

	required := []struct {
		key   string
		value string
	}{
		{KeyAccessKeyID, creds.AccessKeyID},
		{KeySecretAccessKey, creds.SecretAccessKey},
		{KeyDefaultRegion, creds.Region},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, apperrors.WrapConfigError(path, fmt.Errorf("%w: %s", apperrors.ErrMissingCredential, r.key))
		}
	}

	return creds, nil
}

// Env renders the credentials as KEY=VALUE entries for a child process
// environment.
func (c *Credentials) Env() []string {
	return []string{
		fmt.Sprintf("%s=%s", KeyAccessKeyID, c.AccessKeyID),
		fmt.Sprintf("%s=%s", KeySecretAccessKey, c.SecretAccessKey),
		fmt.Sprintf("%s=%s", KeyDefaultRegion, c.Region),
	}
}
