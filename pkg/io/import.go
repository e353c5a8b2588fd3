package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/critpath/pkg/cpm"
	errs "github.com/matzehuels/critpath/pkg/errors"
)

// CrewStub names the crew assigned to tasks that declare none.
const CrewStub = "CREW_STUB"

type taskFile struct {
	Tasks []taskDoc `json:"tasks" yaml:"tasks" toml:"tasks"`
}

type taskDoc struct {
	Code          string         `json:"taskCode" yaml:"taskCode" toml:"taskCode"`
	OperationName string         `json:"operationName,omitempty" yaml:"operationName,omitempty" toml:"operationName,omitempty"`
	ElementName   string         `json:"elementName,omitempty" yaml:"elementName,omitempty" toml:"elementName,omitempty"`
	Duration      *int           `json:"duration,omitempty" yaml:"duration,omitempty" toml:"duration,omitempty"`
	Crew          *crewDoc       `json:"crew,omitempty" yaml:"crew,omitempty" toml:"crew,omitempty"`
	Equipment     []equipmentDoc `json:"equipment,omitempty" yaml:"equipment,omitempty" toml:"equipment,omitempty"`
	Dependencies  []string       `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}

type crewDoc struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Assignment *int   `json:"assignment,omitempty" yaml:"assignment,omitempty" toml:"assignment,omitempty"`
}

type equipmentDoc struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity" toml:"quantity"`
}

// toTask fills defaults and converts a decoded document into a task.
func (d taskDoc) toTask() cpm.Task {
	t := cpm.Task{
		Code:          d.Code,
		OperationName: d.OperationName,
		ElementName:   d.ElementName,
		Crew:          cpm.Crew{Name: CrewStub},
		Dependencies:  d.Dependencies,
	}
	if d.Duration != nil {
		t.Duration = *d.Duration
	}
	if d.Crew != nil {
		t.Crew.Name = d.Crew.Name
		if d.Crew.Assignment != nil {
			t.Crew.Size = *d.Crew.Assignment
		}
	}
	for _, e := range d.Equipment {
		t.Equipment = append(t.Equipment, cpm.Equipment{Name: e.Name, Quantity: e.Quantity})
	}
	return t
}

func fromTask(t cpm.Task) taskDoc {
	d := taskDoc{
		Code:          t.Code,
		OperationName: t.OperationName,
		ElementName:   t.ElementName,
		Duration:      &t.Duration,
		Crew:          &crewDoc{Name: t.Crew.Name, Assignment: &t.Crew.Size},
		Dependencies:  t.Dependencies,
	}
	for _, e := range t.Equipment {
		d.Equipment = append(d.Equipment, equipmentDoc{Name: e.Name, Quantity: e.Quantity})
	}
	return d
}

// ReadTasks decodes tasks in the given format from r.
//
// The returned tasks are independent of r. ReadTasks does not close r.
func ReadTasks(r io.Reader, f Format) ([]cpm.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return decode(data, f, "tasks."+string(f))
}

// ImportTasks reads the task file at path, choosing the decoder from the
// file extension.
func ImportTasks(path string) ([]cpm.Task, error) {
	if err := errs.ValidateInputPath(path, Extensions()...); err != nil {
		return nil, err
	}
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "task file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return decode(data, f, path)
}

func decode(data []byte, f Format, filename string) ([]cpm.Task, error) {
	var (
		docs []taskDoc
		err  error
	)
	switch f {
	case FormatJSON:
		docs, err = decodeJSON(data)
	case FormatYAML:
		docs, err = decodeYAML(data)
	case FormatTOML:
		var file taskFile
		_, err = toml.Decode(string(data), &file)
		docs = file.Tasks
	case FormatHCL:
		return decodeHCL(data, filename)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported task format %q", f)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s tasks", f)
	}

	tasks := make([]cpm.Task, len(docs))
	for i, d := range docs {
		tasks[i] = d.toTask()
	}
	return tasks, nil
}

// decodeJSON accepts a bare array of tasks or an object with a "tasks" key.
func decodeJSON(data []byte) ([]taskDoc, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []taskDoc
		err := json.Unmarshal(trimmed, &docs)
		return docs, err
	}
	var file taskFile
	err := json.Unmarshal(trimmed, &file)
	return file.Tasks, err
}

// decodeYAML accepts a top-level sequence of tasks or a "tasks" mapping.
func decodeYAML(data []byte) ([]taskDoc, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var docs []taskDoc
		err := doc.Decode(&docs)
		return docs, err
	}
	var file taskFile
	err := doc.Decode(&file)
	return file.Tasks, err
}
