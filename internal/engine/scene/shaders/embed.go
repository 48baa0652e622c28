// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SkyVertexShader is the vertex shader for the sky dome.
//
//go:embed sky.vert
var SkyVertexShader string

// SkyFragmentShader is the fragment shader for the sky dome.
//
//go:embed sky.frag
var SkyFragmentShader string

// TerrainVertexShader is the vertex shader for terrain rendering.
//
//go:embed terrain.vert
var TerrainVertexShader string

// TerrainFragmentShader is the fragment shader for terrain rendering.
//
//go:embed terrain.frag
var TerrainFragmentShader string

// GrassVertexShader is the vertex shader for instanced grass rendering.
//
//go:embed grass.vert
var GrassVertexShader string

// GrassFragmentShader is the fragment shader for instanced grass rendering.
//
//go:embed grass.frag
var GrassFragmentShader string

// RockVertexShader is the vertex shader for instanced rock rendering.
//
//go:embed rock.vert
var RockVertexShader string

// RockFragmentShader is the fragment shader for instanced rock rendering.
//
//go:embed rock.frag
var RockFragmentShader string

// WaterVertexShader is the vertex shader for the lake surface.
//
//go:embed water.vert
var WaterVertexShader string

// WaterFragmentShader is the fragment shader for the lake surface.
//
//go:embed water.frag
var WaterFragmentShader string
