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
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/gocarina/gocsv"
	"github.com/ringsaturn/precipattractor"
	"github.com/ringsaturn/precipattractor/cloud"
)

// synthArgs returns the arguments for creating a small synthetic input
// file at path.
func synthArgs(path string) []string {
	return []string{"synth", "-o", path,
		"--synth.Nx=60", "--synth.Ny=50", "--synth.Nvx=6", "--synth.Nvy=5",
		"--synth.VX=2", "--synth.VY=-1", "--synth.Width=6", "--synth.Peak=40"}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("PRECIPATTRACTOR_TESTDIR", dir)
	defer os.Unsetenv("PRECIPATTRACTOR_TESTDIR")
	Cfg.Set("config", "testdata/config.toml")
	defer Cfg.Set("config", "")
	defer setLogLevel("info")

	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	rc, err := runConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "synth.ncf"); rc.InputFile != want {
		t.Errorf("InputFile: have %s, want %s", rc.InputFile, want)
	}
	if want := filepath.Join(dir, "summary.csv"); rc.SummaryFile != want {
		t.Errorf("SummaryFile: have %s, want %s", rc.SummaryFile, want)
	}
	if rc.NumLeadTimes != 4 {
		t.Errorf("NumLeadTimes: have %d, want 4", rc.NumLeadTimes)
	}
	if rc.Kernel.Iterations != 3 || rc.Kernel.Margin != 10 {
		t.Errorf("kernel: have %v", rc.Kernel)
	}
	if rc.InputTransform != "max(x, 0)" {
		t.Errorf("InputTransform: have %q", rc.InputTransform)
	}
	if rc.RainThreshold != 1 {
		t.Errorf("RainThreshold: have %g, want 1", rc.RainThreshold)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "synth.ncf")
	Root.SetArgs(synthArgs(in))
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	rc := &RunConfig{
		InputFile:       in,
		OutputFile:      filepath.Join(dir, "forecast.ncf"),
		SourceVariable:  precipattractor.SourceVar,
		VXVariable:      precipattractor.VXVar,
		VYVariable:      precipattractor.VYVar,
		NumLeadTimes:    3,
		Kernel:          precipattractor.DefaultKernelConfig(),
		KernelFromInput: true,
		OutputTransform: "max(x, 0)",
		SummaryFile:     filepath.Join(dir, "summary.csv"),
		FrameDir:        filepath.Join(dir, "frames"),
		RainThreshold:   1,
		NoData:          -999,
	}
	if err := Run(context.Background(), rc); err != nil {
		t.Fatal(err)
	}

	r, err := os.Open(rc.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	f, err := precipattractor.LoadForecast(r)
	if err != nil {
		t.Fatal(err)
	}
	nx, ny, net := f.Dims()
	if nx != 60 || ny != 50 || net != 3 {
		t.Errorf("forecast dims: have (%d, %d, %d), want (60, 50, 3)", nx, ny, net)
	}
	if len(f.InDomain) != 3 {
		t.Errorf("have %d in-domain counts, want 3", len(f.InDomain))
	}

	b, err := ioutil.ReadFile(rc.SummaryFile)
	if err != nil {
		t.Fatal(err)
	}
	var summary []*precipattractor.LeadTimeSummary
	if err := gocsv.UnmarshalBytes(b, &summary); err != nil {
		t.Fatal(err)
	}
	if len(summary) != 3 {
		t.Fatalf("summary has %d rows, want 3", len(summary))
	}
	for l, s := range summary {
		if s.LeadTime != l+1 {
			t.Errorf("row %d: have lead time %d", l, s.LeadTime)
		}
		if s.Max <= 0 || s.Max > 40 {
			t.Errorf("lead time %d: max %g should be in (0, 40]", s.LeadTime, s.Max)
		}
	}

	for l := 1; l <= 3; l++ {
		name := filepath.Join(rc.FrameDir, fmt.Sprintf("leadtime_%03d.png", l))
		if _, err := os.Stat(name); err != nil {
			t.Error(err)
		}
	}
}

func TestRunBlob(t *testing.T) {
	ctx := context.Background()
	bucketName := testBucket(t, "testrun")
	in := bucketName + "/inputs/synth.ncf"
	Root.SetArgs(synthArgs(in))
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	rc := &RunConfig{
		InputFile:      in,
		OutputFile:     bucketName + "/out/forecast.ncf",
		SourceVariable: precipattractor.SourceVar,
		VXVariable:     precipattractor.VXVar,
		VYVariable:     precipattractor.VYVar,
		NumLeadTimes:   2,
		Kernel:         precipattractor.DefaultKernelConfig(),
		FrameDir:       bucketName + "/out/frames",
		NoData:         -999,
	}
	if err := Run(ctx, rc); err != nil {
		t.Fatal(err)
	}
	files, err := cloud.List(ctx, bucketName+"/out")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		bucketName + "/out/forecast.ncf",
		bucketName + "/out/frames/leadtime_001.png",
		bucketName + "/out/frames/leadtime_002.png",
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("have %v, want %v", files, want)
	}
}

func TestAdvectCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "synth.ncf")
	out := filepath.Join(dir, "forecast.ncf")
	Root.SetArgs(synthArgs(in))
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	Root.SetArgs([]string{"advect", "-i", in, "-o", out, "-n", "5",
		"--Kernel.Iterations=2", "--SummaryFile=", "--FrameDir="})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"war", "-i", out, "--RainThreshold=1"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("have %d lines of output, want 5:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "1\t") {
		t.Errorf("first line: have %q", lines[0])
	}

	buf.Reset()
	Root.SetArgs([]string{"war", "-i", out, "--RainThreshold=1", "--Domain.Rows=20", "--Domain.Cols=20"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 5 {
		t.Errorf("windowed: have %d lines of output, want 5:\n%s", n, buf.String())
	}
	Root.SetArgs([]string{"war", "-i", out, "--Domain.Rows=0", "--Domain.Cols=0"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), precipattractor.Version) {
		t.Errorf("have %q, want it to contain the version", buf.String())
	}
}

func TestConfigCommand(t *testing.T) {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	defer Root.SetOutput(nil)
	Root.SetArgs([]string{"config"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	var c struct {
		NumLeadTimes int
		Kernel       struct {
			Workers int
		}
		Synth struct {
			Units string
		} `toml:"synth"`
	}
	if _, err := toml.Decode(buf.String(), &c); err != nil {
		t.Fatalf("%v:\n%s", err, buf.String())
	}
	if c.NumLeadTimes < 1 {
		t.Errorf("NumLeadTimes: have %d", c.NumLeadTimes)
	}
	if c.Synth.Units != "dBZ" {
		t.Errorf("synth.Units: have %q, want dBZ", c.Synth.Units)
	}
}
