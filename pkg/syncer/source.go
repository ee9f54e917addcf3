package syncer

import (
	"fmt"
	"net"
	"strings"

	apperrors "github.com/wozozo/s3pull/pkg/errors"
)

// Source is a parsed s3://bucket[/prefix] reference.
type Source struct {
	Bucket string
	Prefix string
}

// URI renders the source back into s3:// form for the AWS CLI.
func (s Source) URI() string {
	if s.Prefix == "" {
		return fmt.Sprintf("s3://%s", s.Bucket)
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Prefix)
}

// ParseSource parses and validates an s3://bucket[/prefix] URI.
func ParseSource(raw string) (Source, error) {
	const scheme = "s3://"
	if !strings.HasPrefix(raw, scheme) {
		return Source{}, apperrors.WrapSourceError(raw, fmt.Errorf("%w: must start with s3://", apperrors.ErrInvalidSource))
	}

	rest := strings.TrimPrefix(raw, scheme)
	bucket, prefix, _ := strings.Cut(rest, "/")
	prefix = strings.TrimSuffix(prefix, "/")

	if err := validateBucketName(bucket); err != nil {
		return Source{}, apperrors.WrapSourceError(raw, err)
	}

	return Source{Bucket: bucket, Prefix: prefix}, nil
}

// validateBucketName applies S3 bucket naming rules
func validateBucketName(bucket string) error {
	if bucket == "" {
		return fmt.Errorf("%w: bucket name cannot be empty", apperrors.ErrInvalidBucketName)
	}

	if len(bucket) < 3 || len(bucket) > 63 {
		return fmt.Errorf("%w: bucket name must be between 3 and 63 characters", apperrors.ErrInvalidBucketName)
	}

	// Must start and end with lowercase letter or number
	if !isAlphanumeric(bucket[0]) || !isAlphanumeric(bucket[len(bucket)-1]) {
		return fmt.Errorf("%w: bucket name must start and end with a lowercase letter or number", apperrors.ErrInvalidBucketName)
	}

	for i := 0; i < len(bucket); i++ {
		ch := bucket[i]
		if !isValidBucketChar(ch) {
			return fmt.Errorf("%w: bucket name contains invalid character: %c", apperrors.ErrInvalidBucketName, ch)
		}
		// No consecutive dots or hyphens
		if i > 0 && (ch == '.' || ch == '-') && bucket[i-1] == ch {
			return fmt.Errorf("%w: bucket name cannot contain consecutive dots or hyphens", apperrors.ErrInvalidBucketName)
		}
	}

	// Cannot be formatted as IP address
	if net.ParseIP(bucket) != nil {
		return fmt.Errorf("%w: bucket name cannot be formatted as an IP address", apperrors.ErrInvalidBucketName)
	}

	return nil
}

func isAlphanumeric(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')
}

func isValidBucketChar(ch byte) bool {
	return isAlphanumeric(ch) || ch == '-' || ch == '.'
}
