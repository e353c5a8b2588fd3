package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/critpath/pkg/cpm"
)

// WriteResult encodes res as indented JSON and writes it to w.
func WriteResult(w io.Writer, res *cpm.Result) error {
	return writeJSON(w, res)
}

// ExportResult writes res to a JSON file at path.
// This is a convenience wrapper around [WriteResult] for file-based output.
func ExportResult(res *cpm.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(f, res)
}

// WriteTasks writes tasks as a JSON array in the task file format accepted
// by [ReadTasks]. Defaults are written out explicitly.
func WriteTasks(w io.Writer, tasks []cpm.Task) error {
	docs := make([]taskDoc, len(tasks))
	for i, t := range tasks {
		docs[i] = fromTask(t)
	}
	return writeJSON(w, docs)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
