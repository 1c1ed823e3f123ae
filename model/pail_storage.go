package model

import (
	"context"
	"fmt"
	"os"

	"github.com/evergreen-ci/benchboard"
	"github.com/evergreen-ci/pail"
	"github.com/pkg/errors"
)

// PailType describes the name of the blob storage backing a pail Bucket
// implementation.
type PailType string

const (
	PailS3     PailType = "s3"
	PailGridFS PailType = "gridfs"
	PailLocal  PailType = "local"
)

const exportPrefix = "exports"

// PailTypeForSource maps a configured result source to its bucket type.
func PailTypeForSource(source string) (PailType, error) {
	switch source {
	case benchboard.ResultSourceLocal:
		return PailLocal, nil
	case benchboard.ResultSourceS3:
		return PailS3, nil
	case benchboard.ResultSourceGridFS:
		return PailGridFS, nil
	default:
		return "", errors.Errorf("result source '%s' is not bucket backed", source)
	}
}

// Create returns a pail Bucket backed by PailType. Credentials, region and
// database settings come from the environment's configuration.
func (t PailType) Create(ctx context.Context, env benchboard.Environment, bucket, prefix string) (pail.Bucket, error) {
	var b pail.Bucket
	var err error

	conf := env.GetConf()
	if conf == nil {
		return nil, errors.New("environment has no configuration")
	}

	switch t {
	case PailS3:
		opts := pail.S3Options{
			Name:        bucket,
			Prefix:      prefix,
			Region:      conf.S3Region,
			Permissions: pail.S3PermissionsPrivate,
			MaxRetries:  10,
		}
		if conf.AWSKey != "" {
			opts.Credentials = pail.CreateAWSCredentials(conf.AWSKey, conf.AWSSecret, "")
		}
		b, err = pail.NewS3Bucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	case PailGridFS:
		client, cerr := env.GetClient()
		if cerr != nil {
			return nil, errors.Wrap(cerr, "gridfs buckets need a database client")
		}

		opts := pail.GridFSOptions{
			Database: conf.DatabaseName,
			Name:     bucket,
			Prefix:   prefix,
		}
		b, err = pail.NewGridFSBucketWithClient(ctx, client, opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	case PailLocal:
		opts := pail.LocalOptions{
			Path:   bucket,
			Prefix: prefix,
		}
		b, err = pail.NewLocalBucket(opts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	default:
		return nil, errors.Errorf("bucket type '%s' not implemented", t)
	}

	if err = b.Check(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// ExportLocation is where report exports are written.
type ExportLocation struct {
	Type   PailType
	Bucket string
	Prefix string
}

// ExportLocationFromConf returns the local ExportPath when it is set.
// Otherwise exports share the results bucket under the "exports" prefix,
// or a GridFS bucket of that name for database sources.
func ExportLocationFromConf(conf *benchboard.Configuration) (ExportLocation, error) {
	if conf == nil {
		return ExportLocation{}, errors.New("no configuration")
	}
	if conf.ExportPath != "" {
		return ExportLocation{Type: PailLocal, Bucket: conf.ExportPath}, nil
	}
	if conf.ResultSource == benchboard.ResultSourceMongoDB {
		return ExportLocation{Type: PailGridFS, Bucket: exportPrefix}, nil
	}

	t, err := PailTypeForSource(conf.ResultSource)
	if err != nil {
		return ExportLocation{}, errors.WithStack(err)
	}
	prefix := exportPrefix
	if conf.ResultsPrefix != "" {
		prefix = conf.ResultsPrefix + "/" + exportPrefix
	}

	return ExportLocation{Type: t, Bucket: conf.ResultsPath, Prefix: prefix}, nil
}

// Open creates the bucket, making the directory first for local exports.
func (l ExportLocation) Open(ctx context.Context, env benchboard.Environment) (pail.Bucket, error) {
	if l.Type == PailLocal {
		if err := os.MkdirAll(l.Bucket, 0755); err != nil {
			return nil, errors.Wrapf(err, "problem creating export directory '%s'", l.Bucket)
		}
	}

	return l.Type.Create(ctx, env, l.Bucket, l.Prefix)
}

// GetDownloadURL returns, if applicable, the download URL for the object at
// the given bucket/prefix/key location.
func (t PailType) GetDownloadURL(bucket, prefix, key string) string {
	switch t {
	case PailS3:
		return fmt.Sprintf(
			"https://%s.s3.amazonaws.com/%s",
			bucket,
			prefix+"/"+key,
		)
	default:
		return ""
	}
}
