package io

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/matzehuels/critpath/pkg/cpm"
	errs "github.com/matzehuels/critpath/pkg/errors"
)

type hclFile struct {
	Tasks []hclTask `hcl:"task,block"`
}

type hclTask struct {
	Code          string         `hcl:"code,label"`
	OperationName string         `hcl:"operation_name,optional"`
	ElementName   string         `hcl:"element_name,optional"`
	Duration      *int           `hcl:"duration,optional"`
	Dependencies  []string       `hcl:"dependencies,optional"`
	Crew          *hclCrew       `hcl:"crew,block"`
	Equipment     []hclEquipment `hcl:"equipment,block"`
}

type hclCrew struct {
	Name string `hcl:"name,optional"`
	Size *int   `hcl:"size,optional"`
}

type hclEquipment struct {
	Name     string `hcl:"name,label"`
	Quantity int    `hcl:"quantity,optional"`
}

func decodeHCL(data []byte, filename string) ([]cpm.Task, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "parse HCL file %s: %s", filename, diags.Error())
	}

	var cfg hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "decode HCL file %s: %s", filename, diags.Error())
	}

	tasks := make([]cpm.Task, len(cfg.Tasks))
	for i, b := range cfg.Tasks {
		d := taskDoc{
			Code:          b.Code,
			OperationName: b.OperationName,
			ElementName:   b.ElementName,
			Duration:      b.Duration,
			Dependencies:  b.Dependencies,
		}
		if b.Crew != nil {
			d.Crew = &crewDoc{Name: b.Crew.Name, Assignment: b.Crew.Size}
		}
		for _, e := range b.Equipment {
			d.Equipment = append(d.Equipment, equipmentDoc{Name: e.Name, Quantity: e.Quantity})
		}
		tasks[i] = d.toTask()
	}
	return tasks, nil
}
