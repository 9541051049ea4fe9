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

package precipattractorutil

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/ringsaturn/precipattractor/cloud"
)

func TestUploader(t *testing.T) {
	ctx := context.Background()
	bucketName := testBucket(t, "testupload")

	var u uploader
	if p := u.maybeUpload("/tmp/local.ncf"); p != "/tmp/local.ncf" {
		t.Errorf("local paths should not change: have %s", p)
	}
	paths := []string{bucketName + "/out/forecast.ncf", bucketName + "/out/summary.csv"}
	for _, p := range paths {
		local := u.maybeUpload(p)
		if local == "" {
			t.Fatal(u.err)
		}
		if err := ioutil.WriteFile(local, []byte(p), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if len(u.files) != 2 {
		t.Fatalf("have %d files to upload, want 2", len(u.files))
	}
	if err := u.uploadOutput(ctx); err != nil {
		t.Fatal(err)
	}

	bucket, _, err := cloud.OpenBucket(ctx, bucketName)
	if err != nil {
		t.Fatal(err)
	}
	defer bucket.Close()
	for i, key := range []string{"out/forecast.ncf", "out/summary.csv"} {
		b, err := cloud.ReadBlob(ctx, bucket, key)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != paths[i] {
			t.Errorf("%s: have %q, want %q", key, b, paths[i])
		}
	}
}
