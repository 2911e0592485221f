// Package visualize renders a CompiledRequest's constraint graph to SVG
// for debugging: layers as nodes on a circular layout, ruler-rule edges as
// directed arrows source layer -> target layer, and strict-pair
// LayerCombinations as dashed bundles connecting their member layers.
package visualize
