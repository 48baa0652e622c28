// Package formats provides parsers for asset file formats. Parsers are
// pure: bytes in, plain data structures out, no engine or GL dependencies.
package formats
