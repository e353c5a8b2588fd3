// Package io reads task files and writes analysis results.
//
// # Overview
//
// Task files describe the input of a CPM computation. Four formats are
// supported and selected by file extension:
//
//   - .json: an array of tasks, or an object with a "tasks" array
//   - .yaml / .yml: a mapping with a "tasks" list
//   - .toml: one [[tasks]] table per task
//   - .hcl: one task block per task, labelled with the task code
//
// # Task Fields
//
// JSON, YAML and TOML share the same keys:
//
//	{
//	  "taskCode": "pour-slab",
//	  "operationName": "Pour concrete",
//	  "elementName": "Ground slab",
//	  "duration": 2,
//	  "crew": {"name": "concrete", "assignment": 4},
//	  "equipment": [{"name": "pump", "quantity": 1}],
//	  "dependencies": ["formwork"]
//	}
//
// HCL uses a labelled block:
//
//	task "pour-slab" {
//	  operation_name = "Pour concrete"
//	  duration       = 2
//	  dependencies   = ["formwork"]
//
//	  crew {
//	    name = "concrete"
//	    size = 4
//	  }
//
//	  equipment "pump" {
//	    quantity = 1
//	  }
//	}
//
// # Defaults
//
// Missing values are filled before the tasks reach the engine: a missing
// duration is 0, a missing crew becomes a crew named [CrewStub] of size 0,
// and missing dependencies make the task a root. Nothing else is checked
// here; validation belongs to [cpm.Build].
//
// # Export
//
// [WriteResult] and [ExportResult] encode a [cpm.Result] as indented JSON.
// [WriteTasks] writes tasks back in the JSON task format, so any supported
// format can be converted to JSON and re-imported unchanged.
//
// # Errors
//
// Malformed documents fail with INVALID_FORMAT, unsupported extensions with
// UNSUPPORTED and missing files with FILE_NOT_FOUND.
//
// [cpm.Build]: github.com/matzehuels/critpath/pkg/cpm.Build
// [cpm.Result]: github.com/matzehuels/critpath/pkg/cpm.Result
package io
