// Package io reads and writes plan files.
//
// A plan file is the JSON snapshot of one plan: the selected device
// geometry plus the fenestration layout in insertion order. It is the
// CLI's unit of work between invocations; the HTTP server uses the same
// snapshot format inside sessions instead of files.
package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vesselworks/graftplan/pkg/graft"
)

// WritePlan encodes a plan snapshot as indented JSON and writes it to w.
// The output can be re-imported with [ReadPlan] for round-trip processing.
func WritePlan(p *graft.Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.State()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadPlan decodes a plan snapshot from r.
//
// Every fenestration in the file is re-added through the normal validation
// path, so a hand-edited file that violates the distance, diameter, or
// spacing rules is rejected with the same structured error an interactive
// add would produce. ReadPlan does not close r.
func ReadPlan(r io.Reader) (*graft.Plan, error) {
	var st graft.State
	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return graft.FromState(st)
}

// SavePlan writes a plan snapshot to a file at path.
// This is a convenience wrapper around [WritePlan] for file-based output.
func SavePlan(p *graft.Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePlan(p, f)
}

// LoadPlan reads a plan snapshot from a file at path.
func LoadPlan(path string) (*graft.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPlan(f)
}
