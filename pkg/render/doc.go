// Package render draws annotation previews.
//
// The host application draws annotations itself; these renderers show the
// same descriptors outside of it:
//
//   - [RenderJSON]: the descriptor list the host consumes
//   - [RenderSVG]: an artboard preview built with svgo
//   - [RenderPNG]: the same preview rasterized with gg
//   - [ToPDF]: SVG to PDF through rsvg-convert
//
// All renderers take the [scene.Document] the annotations were computed
// from plus functional options:
//
//	svg, err := render.RenderSVG(doc, anns, render.WithLayers(), render.WithPalette(p))
//	png, err := render.RenderPNG(doc, anns, render.WithScale(3))
//
// The [tree] subpackage renders the layer hierarchy with Graphviz.
package render
