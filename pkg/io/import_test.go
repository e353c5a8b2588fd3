package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/critpath/pkg/cpm"
	errs "github.com/matzehuels/critpath/pkg/errors"
)

func siteTasks() []cpm.Task {
	return []cpm.Task{
		{
			Code: "excavate", OperationName: "Excavation", ElementName: "Foundation", Duration: 2,
			Crew:      cpm.Crew{Name: "earthworks", Size: 3},
			Equipment: []cpm.Equipment{{Name: "excavator", Quantity: 1}},
		},
		{
			Code: "slab", OperationName: "Pour concrete", ElementName: "Ground slab", Duration: 1,
			Crew: cpm.Crew{Name: "concrete", Size: 4}, Dependencies: []string{"excavate"},
		},
		{
			Code: "walls", OperationName: "Masonry", ElementName: "Ground floor walls", Duration: 3,
			Crew: cpm.Crew{Name: "masons", Size: 2}, Dependencies: []string{"slab"},
		},
		{
			Code: "inspection", OperationName: "Site inspection",
			Crew: cpm.Crew{Name: CrewStub}, Dependencies: []string{"slab"},
		},
	}
}

func TestImportTasks(t *testing.T) {
	for _, name := range []string{"site.json", "site.yaml", "site.toml", "site.hcl"} {
		t.Run(name, func(t *testing.T) {
			got, err := ImportTasks(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("ImportTasks: %v", err)
			}
			if want := siteTasks(); !reflect.DeepEqual(got, want) {
				t.Errorf("ImportTasks(%s) =\n%+v\nwant\n%+v", name, got, want)
			}
		})
	}
}

func TestImportTasksErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code errs.Code
	}{
		{"missing", filepath.Join("testdata", "nope.json"), errs.ErrCodeFileNotFound},
		{"bad extension", filepath.Join("testdata", "site.xml"), errs.ErrCodeInvalidPath},
		{"empty path", "", errs.ErrCodeInvalidPath},
		{"malformed", filepath.Join("testdata", "broken.json"), errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportTasks(tt.path)
			if !errs.Is(err, tt.code) {
				t.Errorf("ImportTasks(%q) error = %v, want %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestReadTasksDefaults(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json array", FormatJSON, `[{"taskCode": "solo"}]`},
		{"json object", FormatJSON, `{"tasks": [{"taskCode": "solo", "crew": {"name": "CREW_STUB"}}]}`},
		{"json null fields", FormatJSON, `[{"taskCode": "solo", "duration": null, "crew": null, "dependencies": null}]`},
		{"yaml sequence", FormatYAML, "- taskCode: solo\n"},
		{"yaml mapping", FormatYAML, "tasks:\n  - taskCode: solo\n"},
		{"toml", FormatTOML, "[[tasks]]\ntaskCode = \"solo\"\n"},
		{"hcl", FormatHCL, "task \"solo\" {}\n"},
	}

	want := []cpm.Task{{Code: "solo", Crew: cpm.Crew{Name: CrewStub}}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTasks(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadTasks: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ReadTasks() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestReadTasksCrewWithoutAssignment(t *testing.T) {
	got, err := ReadTasks(strings.NewReader(`[{"taskCode": "a", "crew": {"name": "riggers"}}]`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Crew != (cpm.Crew{Name: "riggers"}) {
		t.Errorf("Crew = %+v, want riggers of size 0", got[0].Crew)
	}
}

func TestReadTasksMalformed(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json", FormatJSON, `[{"taskCode": 7}]`},
		{"yaml", FormatYAML, "tasks: [\n"},
		{"toml", FormatTOML, "[[tasks]\n"},
		{"hcl syntax", FormatHCL, "task \"a\" {\n"},
		{"hcl schema", FormatHCL, "task {\n}\n"},
		{"hcl unknown attribute", FormatHCL, "task \"a\" {\n  colour = \"red\"\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTasks(strings.NewReader(tt.input), tt.format)
			if !errs.Is(err, errs.ErrCodeInvalidFormat) {
				t.Errorf("ReadTasks() error = %v, want INVALID_FORMAT", err)
			}
		})
	}

	if _, err := ReadTasks(strings.NewReader("[]"), "xml"); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ReadTasks(xml) error = %v, want UNSUPPORTED", err)
	}
}

func TestWriteTasksRoundTrip(t *testing.T) {
	src, err := ImportTasks(filepath.Join("testdata", "site.hcl"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteTasks(&buf, src); err != nil {
		t.Fatalf("WriteTasks: %v", err)
	}
	back, err := ReadTasks(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("ReadTasks: %v", err)
	}
	if !reflect.DeepEqual(back, src) {
		t.Errorf("round trip =\n%+v\nwant\n%+v", back, src)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"plan.json", FormatJSON, false},
		{"plan.YML", FormatYAML, false},
		{"plan.yaml", FormatYAML, false},
		{"dir/plan.toml", FormatTOML, false},
		{"plan.hcl", FormatHCL, false},
		{"plan.csv", "", true},
		{"plan", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		header  string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"application/json", FormatJSON, false},
		{"application/json; charset=utf-8", FormatJSON, false},
		{"application/yaml", FormatYAML, false},
		{"application/toml", FormatTOML, false},
		{"application/hcl", FormatHCL, false},
		{"text/csv", "", true},
		{";;", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromContentType(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromContentType(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("FormatFromContentType(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
