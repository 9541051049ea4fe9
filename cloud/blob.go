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

package cloud

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocloud.dev/blob"
)

// ReadBlob reads the given blob from the given bucket.
func ReadBlob(ctx context.Context, bucket *blob.Bucket, key string) ([]byte, error) {
	var b bytes.Buffer
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("cloud: reading blob key %s: %v", key, err)
	}
	defer r.Close()
	_, err = io.Copy(&b, r)
	if err != nil {
		return nil, fmt.Errorf("cloud: reading blob key %s: %v", key, err)
	}
	return b.Bytes(), nil
}

// WriteBlob writes data from r to the given key in the given bucket.
func WriteBlob(ctx context.Context, bucket *blob.Bucket, key string, r io.Reader) error {
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("cloud: creating writer for blob %s: %v", key, err)
	}
	_, err = io.Copy(w, r)
	if err != nil {
		w.Close()
		return fmt.Errorf("cloud: copying blob %s: %v", key, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("cloud: writing blob %s: %v", key, err)
	}
	return nil
}

// Download copies the blob at path, e.g. 's3://bucket/dir/file.ncf',
// into directory dir and returns the path of the local copy.
func Download(ctx context.Context, path, dir string) (string, error) {
	bucket, key, err := openBlob(ctx, path)
	if err != nil {
		return "", err
	}
	defer bucket.Close()
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("cloud: downloading %s: %v", path, err)
	}
	defer r.Close()
	local := filepath.Join(dir, filepath.Base(key))
	w, err := os.Create(local)
	if err != nil {
		return "", fmt.Errorf("cloud: creating file for download: %v", err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("cloud: downloading %s: %v", path, err)
	}
	return local, w.Close()
}

// Upload copies local file localPath to the blob at path.
func Upload(ctx context.Context, localPath, path string) error {
	bucket, key, err := openBlob(ctx, path)
	if err != nil {
		return err
	}
	defer bucket.Close()
	r, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("cloud: opening file '%s' for upload: %v", localPath, err)
	}
	defer r.Close()
	return WriteBlob(ctx, bucket, key, r)
}

// openBlob opens the bucket holding the blob at path and returns the
// blob key, which must not be empty.
func openBlob(ctx context.Context, path string) (*blob.Bucket, string, error) {
	loc, err := ParseLocation(path)
	if err != nil {
		return nil, "", err
	}
	if loc.Key == "" {
		return nil, "", fmt.Errorf("cloud: blob path '%s' has no key", path)
	}
	bucket, err := loc.Open(ctx)
	return bucket, loc.Key, err
}

// List returns the paths of all blobs under the directory dir, e.g.
// 'gs://bucket/frames', in lexical order. If dir names a bucket, every
// blob in it is listed.
func List(ctx context.Context, dir string) ([]string, error) {
	bucket, loc, err := OpenBucket(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer bucket.Close()
	prefix := strings.TrimSuffix(loc.Key, "/")
	if prefix != "" {
		prefix += "/"
	}
	iter := bucket.List(&blob.ListOptions{
		Prefix: prefix,
	})
	var o []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cloud: listing blobs in %s: %v", dir, err)
		}
		o = append(o, loc.Child(obj.Key))
	}
	sort.Strings(o)
	return o, nil
}
