// Package pkg provides the core libraries for graftplan template planning.
//
// # Overview
//
// Graftplan turns a fenestration layout on a cylindrical graft into an
// unrolled, dimensionally exact paper template. The pkg directory is
// organized into five main areas:
//
//  1. [catalog] - Device and vessel lookup tables (embedded TOML)
//  2. [graft] - Planning data model (spec, clock positions, registry, plan)
//  3. [render] - Geometry unwrap, calibration markers, template drawing
//  4. [session] - Per-user session stores (memory, Redis)
//  5. [io] - Plan file reading and writing
//
// # Architecture
//
// The typical data flow through graftplan:
//
//	Device catalog entry
//	         ↓
//	    [graft] package (spec + validated fenestration registry)
//	         ↓
//	    [render] package (cylinder unwrap + marker layout)
//	         ↓
//	    [render/sink] package (preview SVG/PNG, true-scale document)
//	         ↓
//	    SVG/PNG/PDF output
//
// # Quick Start
//
// Plan a layout and export the printable template:
//
//	import (
//	    "github.com/vesselworks/graftplan/pkg/catalog"
//	    "github.com/vesselworks/graftplan/pkg/graft"
//	    "github.com/vesselworks/graftplan/pkg/render/sink"
//	)
//
//	// 1. Pick a device from the catalog
//	device, _ := catalog.Default().Device("24x145")
//	spec, _ := graft.SpecFromDevice(device)
//
//	// 2. Build the layout (every add is validated)
//	plan := graft.NewPlan(spec)
//	sma, _ := catalog.Default().Vessel("sma")
//	_ = plan.AddFenestration(graft.Fenestration{
//	    Vessel: sma, DistanceMM: 50, Hour: 12, DiameterMM: 6,
//	})
//
//	// 3. Render the true-scale document
//	pdf, _ := sink.RenderPDF(plan)
//
// # Main Packages
//
// [catalog] - Static device and vessel tables parsed from TOML. Defaults are
// embedded in the binary; both tables can be overridden with external files.
//
// [graft] - The planning core. A Spec is the immutable device geometry, a
// Registry enforces the distance, diameter, and longitudinal spacing rules,
// and a Plan ties one registry to one spec as the unit of session state.
//
// [errors] - Structured errors with stable machine-readable codes shared by
// the CLI and the HTTP API.
//
// [render] - Pure geometry: the cylinder-to-plane unwrap, extent math, the
// calibration marker set, and the Template that draws onto any Surface.
//
// [render/sink] - Concrete targets: preview SVG and PNG at a configurable
// pixels-per-millimeter scale, and the fixed-scale document where one SVG
// user unit is exactly one millimeter. PDF conversion goes through librsvg.
//
// [session] - Per-user planning sessions with a TTL. Memory store for a
// single instance and tests, Redis store for shared deployments.
//
// [io] - Plan files: JSON snapshots re-validated on load.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/graft/...    # Specific package
//	go test -run Example       # Examples only
//
// [catalog]: https://pkg.go.dev/github.com/vesselworks/graftplan/pkg/catalog
// [graft]: https://pkg.go.dev/github.com/vesselworks/graftplan/pkg/graft
// [errors]: https://pkg.go.dev/github.com/vesselworks/graftplan/pkg/errors
// [render]: https://pkg.go.dev/github.com/vesselworks/graftplan/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/vesselworks/graftplan/pkg/render/sink
// [session]: https://pkg.go.dev/github.com/vesselworks/graftplan/pkg/session
// [io]: https://pkg.go.dev/github.com/vesselworks/graftplan/pkg/io
package pkg
