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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ringsaturn/precipattractor/cloud"
)

// downloadRetries is the number of times a failed HTTP download is
// retried.
const downloadRetries = 4

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or a blob storage location.
// If it is, it downloads the file and returns the path to the
// downloaded file.
func maybeDownload(ctx context.Context, p string) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		return p, nil
	}

	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return downloadHTTP(ctx, p)
	}

	if cloud.IsBlob(p) {
		dir, err := ioutil.TempDir("", "precipattractor")
		if err != nil {
			return p, fmt.Errorf("precipattractor: failed creating temporary download directory: %v", err)
		}
		Log.WithField("path", p).Debug("downloading from blob storage")
		return cloud.Download(ctx, p, dir)
	}
	return p, fmt.Errorf("precipattractor: input file '%s' does not exist", p)
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file.
func downloadHTTP(ctx context.Context, url string) (string, error) {
	dir, err := ioutil.TempDir("", "precipattractor")
	if err != nil {
		return url, fmt.Errorf("precipattractor: failed creating temporary download directory: %v", err)
	}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return url, err
	}
	Log.WithField("url", url).Debug("downloading")
	var resp *http.Response
	var statusErr error
	err = backoff.RetryNotify(
		func() error {
			r, err := http.DefaultClient.Do(req.WithContext(ctx))
			if err != nil {
				return err
			}
			resp = r
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return fmt.Errorf("server error: %s", resp.Status)
			}
			if resp.StatusCode != http.StatusOK {
				// Client errors will not go away by retrying.
				resp.Body.Close()
				statusErr = fmt.Errorf("precipattractor: downloading %s: %s", url, resp.Status)
			}
			return nil
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadRetries), ctx),
		func(err error, d time.Duration) {
			Log.WithError(err).WithField("url", url).Warnf("download failed; retrying in %v", d)
		},
	)
	if err != nil {
		return url, fmt.Errorf("precipattractor: downloading %s: %v", url, err)
	}
	if statusErr != nil {
		return url, statusErr
	}
	defer resp.Body.Close()
	name := path.Base(strings.SplitN(url, "?", 2)[0])
	local := filepath.Join(dir, name)
	w, err := os.Create(local)
	if err != nil {
		return url, fmt.Errorf("precipattractor: failed creating file for download: %v", err)
	}
	if _, err = io.Copy(w, resp.Body); err != nil {
		w.Close()
		return url, fmt.Errorf("precipattractor: downloading %s: %v", url, err)
	}
	return local, w.Close()
}
