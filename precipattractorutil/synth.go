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
	"os"

	"github.com/ringsaturn/precipattractor"
	"github.com/sirupsen/logrus"
)

// Synth writes a synthetic input file to outputFile: a Gaussian field
// centered in the domain, moved by a uniform velocity plus an optional
// solid-body rotation. Velocities are in field grid cells per time step.
func Synth(ctx context.Context, outputFile string, sc *SynthConfig) error {
	kernel := precipattractor.DefaultKernelConfig()
	in := &precipattractor.Inputs{
		R0: precipattractor.GaussianField(sc.Nx, sc.Ny,
			float64(sc.Nx+1)/2, float64(sc.Ny+1)/2, sc.Width, sc.Peak),
		Velocity:  precipattractor.UniformVelocity(sc.Nvx, sc.Nvy, sc.VX, sc.VY),
		Kernel:    kernel,
		HasKernel: true,
		Units:     sc.Units,
	}
	if sc.Rotation != 0 {
		// Rotation velocities are in velocity grid cells, so they are
		// scaled to field grid cells.
		rx := float64(sc.Nx-2*kernel.Margin) / float64(sc.Nvx)
		ry := float64(sc.Ny-2*kernel.Margin) / float64(sc.Nvy)
		rot := precipattractor.RotationVelocity(sc.Nvx, sc.Nvy, sc.Rotation)
		for k := range rot.VX.Elements {
			in.Velocity.VX.Elements[k] += rot.VX.Elements[k] * ry
			in.Velocity.VY.Elements[k] += rot.VY.Elements[k] * rx
		}
	}

	var u uploader
	path := u.maybeUpload(outputFile)
	if path == "" {
		return fmt.Errorf("precipattractor: preparing output location for %s", outputFile)
	}
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("precipattractor: creating output file: %v", err)
	}
	if err := precipattractor.WriteInputs(w, in); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{
		"output":   outputFile,
		"field":    fmt.Sprintf("%dx%d", sc.Nx, sc.Ny),
		"velocity": fmt.Sprintf("%dx%d", sc.Nvx, sc.Nvy),
	}).Info("wrote synthetic inputs")
	return u.uploadOutput(ctx)
}
