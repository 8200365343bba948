// Package render turns a fenestration plan into drawing instructions.
//
// # Overview
//
// The package is organized around three pieces:
//
//   - The unwrap mapper ([Unwrap], [MapFenestration]): the single source of
//     truth for placing cylindrical coordinates on the flat template. It is
//     pure and deterministic, and every render target consumes it with
//     identical arguments, so the on-screen preview and the printed
//     document can never disagree on placement.
//   - The calibration marker set ([Calibration]): measurement grid lines,
//     device alignment lines, 10 mm verification bars, and end labels that
//     every rendered artifact must include.
//   - The template ([NewTemplate]): orchestrates outline, markers, clock
//     reference lines, and fenestration markers into primitive calls on a
//     [Surface].
//
// # Units
//
// Everything in this package is in millimeters. A [Surface] implementation
// may apply an affine target transform (screen pixels per millimeter, page
// origin offset) but must never alter the underlying millimeter geometry.
// The fixed-scale document target uses a transform of exactly one document
// unit per millimeter; that constant is the system's dimensional-fidelity
// guarantee and is covered by tests and by the printed 10 mm bars.
//
// # Format Conversion
//
// [ToPDF] converts finished SVG bytes to PDF using the external
// rsvg-convert tool (from librsvg), preserving the physical units declared
// in the SVG header.
package render
