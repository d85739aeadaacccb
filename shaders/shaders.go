// Package shaders embeds the WGSL kernels the simulation runs.
package shaders

import _ "embed"

// Life is the cell transition kernel, entry point "life".
//
//go:embed life.wgsl
var Life string

// GridCopy is the resize migration kernel template, entry point "copy".
// The placeholders {src_type}, {dst_type} and {transform} are filled in
// per element type pair before compilation.
//
//go:embed grid_copy.wgsl
var GridCopy string

// Present is the textured quad blit, entry points "vs_main"/"fs_main".
//
//go:embed present.wgsl
var Present string
