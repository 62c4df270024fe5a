// 指示: miu200521358
package minteractor

import (
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
)

func TestBuildDefaultOutputPath(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		format moutput.MappingFormat
		want   string
	}{
		{name: "json", input: filepath.Join("motions", "walk.bvh"), format: moutput.MappingFormatJSON, want: filepath.Join("motions", "walk_humanoid.json")},
		{name: "yaml", input: filepath.Join("motions", "walk.bvh"), format: moutput.MappingFormatYAML, want: filepath.Join("motions", "walk_humanoid.yaml")},
		{name: "text", input: "run.bvh", format: moutput.MappingFormatText, want: "run_humanoid.txt"},
		{name: "unknown format", input: "run.bvh", format: "csv", want: "run_humanoid.json"},
		{name: "no base", input: filepath.Join("motions", ".bvh"), format: moutput.MappingFormatJSON, want: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := BuildDefaultOutputPath(tc.input, tc.format)
			if got != tc.want {
				t.Fatalf("output path mismatch: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestResolveMappingOutputPath(t *testing.T) {
	testCases := []struct {
		name       string
		output     string
		format     moutput.MappingFormat
		wantPath   string
		wantFormat moutput.MappingFormat
		wantErr    bool
	}{
		{name: "default", wantPath: "walk_humanoid.json", wantFormat: moutput.MappingFormatJSON},
		{name: "format from ext", output: "out.yml", wantPath: "out.yml", wantFormat: moutput.MappingFormatYAML},
		{name: "explicit text", output: "out.txt", format: moutput.MappingFormatText, wantPath: "out.txt", wantFormat: moutput.MappingFormatText},
		{name: "ext mismatch", output: "out.json", format: moutput.MappingFormatYAML, wantErr: true},
		{name: "unknown ext", output: "out.csv", wantErr: true},
		{name: "unknown format", format: "csv", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path, format, err := resolveMappingOutputPath("walk.bvh", tc.output, tc.format)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error: path=%s", path)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if path != tc.wantPath || format != tc.wantFormat {
				t.Fatalf("resolve mismatch: got=%s/%s want=%s/%s", path, format, tc.wantPath, tc.wantFormat)
			}
		})
	}
}
