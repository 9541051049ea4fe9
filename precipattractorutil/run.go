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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ringsaturn/precipattractor"
	"github.com/ringsaturn/precipattractor/cloud"
	"github.com/ringsaturn/precipattractor/internal/hash"
	"github.com/sirupsen/logrus"
)

// Run loads the inputs described by rc, extrapolates the source field,
// and writes the forecast and any requested summary and frames.
func Run(ctx context.Context, rc *RunConfig) error {
	start := time.Now()
	log := Log.WithFields(logrus.Fields{
		"input":       rc.InputFile,
		"output":      rc.OutputFile,
		"fingerprint": hash.Hash(rc),
	})

	in, err := loadInputs(ctx, rc)
	if err != nil {
		return err
	}
	nx, ny := in.R0.Shape[0], in.R0.Shape[1]
	nvx, nvy := in.Velocity.Dims()
	log.WithFields(logrus.Fields{
		"field":    fmt.Sprintf("%dx%d", nx, ny),
		"velocity": fmt.Sprintf("%dx%d", nvx, nvy),
	}).Info("loaded inputs")

	kernel := rc.Kernel
	if rc.KernelFromInput && in.HasKernel {
		workers := kernel.Workers
		kernel = in.Kernel
		kernel.Workers = workers
	}

	r0 := in.R0
	if rc.InputTransform != "" {
		t, err := precipattractor.NewTransform(rc.InputTransform, nil)
		if err != nil {
			return err
		}
		if r0, err = t.Apply(r0); err != nil {
			return err
		}
		log.WithField("transform", t).Debug("transformed source field")
	}

	log.WithFields(logrus.Fields{
		"kernel":     kernel,
		"lead_times": rc.NumLeadTimes,
	}).Info("advecting")
	f, err := precipattractor.Advect(r0, in.Velocity, rc.NumLeadTimes, kernel)
	if err != nil {
		return err
	}
	for l, n := range f.InDomain {
		log.WithFields(logrus.Fields{
			"lead_time": l + 1,
			"in_domain": fmt.Sprintf("%.1f%%", 100*float64(n)/float64(nx*ny)),
		}).Debug("lead time complete")
	}

	if rc.OutputTransform != "" {
		t, err := precipattractor.NewTransform(rc.OutputTransform, nil)
		if err != nil {
			return err
		}
		if f.Fields, err = t.Apply(f.Fields); err != nil {
			return err
		}
	}

	var u uploader
	if err := writeForecast(u.maybeUpload(rc.OutputFile), f, rc); err != nil {
		return err
	}
	if rc.SummaryFile != "" {
		if err := writeSummary(u.maybeUpload(rc.SummaryFile), f, rc); err != nil {
			return err
		}
	}
	if rc.FrameDir != "" {
		if err := writeFrames(&u, rc.FrameDir, f); err != nil {
			return err
		}
	}
	if err := u.uploadOutput(ctx); err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("done")
	return nil
}

// loadInputs retrieves and reads the input file.
func loadInputs(ctx context.Context, rc *RunConfig) (*precipattractor.Inputs, error) {
	local, err := maybeDownload(ctx, rc.InputFile)
	if err != nil {
		return nil, err
	}
	r, err := os.Open(local)
	if err != nil {
		return nil, fmt.Errorf("precipattractor: opening input file: %v", err)
	}
	defer r.Close()
	in, err := precipattractor.LoadInputs(r, rc.SourceVariable, rc.VXVariable, rc.VYVariable)
	if err != nil {
		return nil, fmt.Errorf("precipattractor: reading %s: %v", rc.InputFile, err)
	}
	return in, nil
}

func writeForecast(path string, f *precipattractor.Forecast, rc *RunConfig) error {
	if path == "" {
		return fmt.Errorf("precipattractor: preparing output location for %s", rc.OutputFile)
	}
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("precipattractor: creating output file: %v", err)
	}
	attrs := map[string]string{
		"source":      rc.InputFile,
		"fingerprint": hash.Hash(rc),
	}
	if rc.InputTransform != "" {
		attrs["input_transform"] = rc.InputTransform
	}
	if rc.OutputTransform != "" {
		attrs["output_transform"] = rc.OutputTransform
	}
	if err := f.Write(w, attrs); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writeSummary(path string, f *precipattractor.Forecast, rc *RunConfig) error {
	if path == "" {
		return fmt.Errorf("precipattractor: preparing output location for %s", rc.SummaryFile)
	}
	s, err := precipattractor.Summarize(f, rc.RainThreshold, rc.NoData)
	if err != nil {
		return err
	}
	for _, ls := range s {
		if ls.WAR < 0 {
			Log.WithField("lead_time", ls.LeadTime).Warn("not enough valid pixels to compute the wet-area ratio")
		}
	}
	return writeFile(path, func(w io.Writer) error {
		return precipattractor.WriteSummary(w, s)
	})
}

// writeFrames writes an image of every lead time of f to dir.
func writeFrames(u *uploader, dir string, f *precipattractor.Forecast) error {
	blob := cloud.IsBlob(dir)
	if !blob {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("precipattractor: creating frame directory: %v", err)
		}
	}
	_, _, net := f.Dims()
	for l := 1; l <= net; l++ {
		name := fmt.Sprintf("leadtime_%03d.png", l)
		var path string
		if blob {
			path = u.maybeUpload(strings.TrimSuffix(dir, "/") + "/" + name)
		} else {
			path = filepath.Join(dir, name)
		}
		if path == "" {
			return fmt.Errorf("precipattractor: preparing frame location in %s", dir)
		}
		err := writeFile(path, func(w io.Writer) error {
			return f.RenderLeadTime(w, l)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// writeFile creates the file at path and fills it using write.
func writeFile(path string, write func(io.Writer) error) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("precipattractor: creating %s: %v", path, err)
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
