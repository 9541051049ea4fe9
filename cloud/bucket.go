/*
Copyright © 2018 the PrecipAttractor authors.
This file is part of PrecipAttractor.

PrecipAttractor is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PrecipAttractor is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PrecipAttractor.  If not, see <http://www.gnu.org/licenses/>.
*/


// Package cloud provides access to forecast inputs and outputs stored
// in blob storage.
package cloud

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcp"
)

// defaultS3Region is used when AWS_REGION is unset.
const defaultS3Region = "us-east-2"

// IsBlob returns whether path names a blob rather than a local file,
// i.e. whether it starts with 'file://', 'gs://', or 's3://'.
func IsBlob(path string) bool {
	for p := range openers {
		if strings.HasPrefix(path, p+"://") {
			return true
		}
	}
	return false
}

// A Location is a parsed blob path of the form 'provider://bucket/key'.
type Location struct {
	// Provider is the storage provider: "file" for a directory on the
	// local filesystem, "gs" for Google Cloud Storage, or "s3" for AWS S3.
	Provider string
	Bucket   string

	// Key is the blob key within the bucket. It is empty when the path
	// names the bucket itself.
	Key string
}

// ParseLocation parses a blob path such as 's3://bucket/dir/file.ncf'.
func ParseLocation(path string) (Location, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Location{}, fmt.Errorf("cloud: parsing blob path: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Location{}, fmt.Errorf("cloud: blob path '%s' must be in the format 'provider://bucket/key'", path)
	}
	return Location{Provider: u.Scheme, Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}, nil
}

// Root returns the path of the bucket of l, e.g. 's3://bucket'.
func (l Location) Root() string { return l.Provider + "://" + l.Bucket }

// Child returns the path of key within the bucket of l.
func (l Location) Child(key string) string { return l.Root() + "/" + key }

// Open opens the bucket of l.
func (l Location) Open(ctx context.Context) (*blob.Bucket, error) {
	open, ok := openers[l.Provider]
	if !ok {
		return nil, fmt.Errorf("cloud: unsupported storage provider %q", l.Provider)
	}
	b, err := open(ctx, l.Bucket)
	if err != nil {
		return nil, fmt.Errorf("cloud: opening bucket %s: %v", l.Root(), err)
	}
	return b, nil
}

// OpenBucket opens the bucket holding the blob at path and returns it
// together with the parsed path. path may also name just the bucket, as
// in 'file://testdata', in which case the returned key is empty.
func OpenBucket(ctx context.Context, path string) (*blob.Bucket, Location, error) {
	loc, err := ParseLocation(path)
	if err != nil {
		return nil, loc, err
	}
	b, err := loc.Open(ctx)
	return b, loc, err
}

type opener func(ctx context.Context, bucket string) (*blob.Bucket, error)

var openers = map[string]opener{
	"file": func(_ context.Context, dir string) (*blob.Bucket, error) { return fileblob.OpenBucket(dir, nil) },
	"gs":   openGCS,
	"s3":   openS3,
}

// openGCS uses the application default credentials; see
// https://cloud.google.com/docs/authentication/getting-started.
func openGCS(ctx context.Context, name string) (*blob.Bucket, error) {
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	client, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, client, name, nil)
}

// openS3 takes its credentials from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY, and its region from AWS_REGION.
func openS3(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultS3Region
	}
	s, err := session.NewSession(aws.NewConfig().
		WithRegion(region).
		WithCredentials(credentials.NewEnvCredentials()))
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name, nil)
}
