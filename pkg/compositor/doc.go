// Package compositor renders an Assignment into an encoded PNG composite.
//
// # Overview
//
// One RGBA raster is allocated per item. Layers are painted in ascending
// Order using the standard library's image/draw straight source-over
// compositing, then encoded with image/png using fixed, deterministic
// encoder settings (no timestamp or textual ancillary chunks are written
// by image/png, and compression is pinned to a single level so repeated
// encodes of the same pixels are byte-identical).
//
// No example repo in the retrieval pack imports a third-party raster image
// codec or compositing library; this is the one ambient concern built
// directly on the standard library (see DESIGN.md).
//
// # Decode cache
//
// Decoded trait images are cached in an LRU bounded by total decoded-pixel
// count rather than entry count, since traits can vary in size. Readers
// take a shared lock; inserts take an exclusive lock.
package compositor
