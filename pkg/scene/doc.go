// Package scene models the slice of a design document that spacing
// annotations need: pages, nested layers with frames, text line fragments
// and the current selection.
//
// # Format
//
// Documents are read from YAML or JSON:
//
//	name: Checkout
//	selection: [row]
//	pages:
//	  - id: p1
//	    name: Page 1
//	    layers:
//	      - id: board
//	        type: Artboard
//	        frame: {x: 0, y: 0, width: 375, height: 812}
//	        layers:
//	          - id: row
//	            type: Group
//	            frame: {x: 16, y: 100, width: 343, height: 48}
//	            layers:
//	              - {id: icon, type: Shape, frame: {x: 0, y: 12, width: 24, height: 24}}
//	              - {id: label, type: Text, frame: {x: 40, y: 14, width: 120, height: 20}}
//
// Layer frames are relative to the parent layer. Fragments are relative to
// the layer that owns them.
//
// # Lookup
//
// [Decode] and [Load] reject duplicate layer IDs and unknown layer types.
// The returned [Document] answers parent, artboard and coordinate queries
// through its [Index].
package scene
