// Package pkg provides the core libraries for Spacemark spacing annotations.
//
// # Overview
//
// Spacemark measures the empty space between sibling layers of a design
// and turns it into colored rectangles a designer can read at a glance:
// red for fixed spacing, blue for dynamic spacing. The pkg directory is
// organized as:
//
//  1. [geom] and [gaps] - intervals, rectangles and the gap resolver
//  2. [annotate] - gap bands, outlines, edges and annotation groups
//  3. [scene] and [command] - the layer document and the command set
//  4. [pipeline] - orchestration (validate → annotate → render) with caching
//  5. [render] - JSON, SVG, PNG and PDF previews, plus the layer tree
//  6. [bridge], [manifest], [config], [cache] - surfaces and infrastructure
//
// # Data Flow
//
//	scene document + command
//	         ↓
//	    [scene] selection checks
//	         ↓
//	    [gaps] Resolve per selected layer
//	         ↓
//	    [annotate] rectangles grouped per layer
//	         ↓
//	    JSON/SVG/PNG/PDF output
//
// # Quick Start
//
// Resolve the gaps between three children of a 343pt wide row:
//
//	occupied := []geom.Interval{{Start: 0, End: 24}, {Start: 40, End: 160}, {Start: 283, End: 343}}
//	free := gaps.Resolve(occupied, 343)
//	// free == [(24, 40) (160, 283)]
//
//	rects := annotate.BuildGapRectangles(free, annotate.CrossAxisOffset(48),
//	    annotate.BandWidth, geom.Horizontal, annotate.Fixed)
//
// Or run a whole command on a scene file:
//
//	doc, _ := scene.Load("checkout.yaml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, doc, pipeline.Options{
//	    Command: "horizontal-fixed",
//	    Formats: []string{"svg"},
//	})
package pkg
