// Package bindings defines the on-disk contract shared by the codegen step
// that emits per-type files and the pipeline that consolidates them.
//
// Every per-type file starts with Notice, optionally followed by import
// statements, then one blank line, then the type body. The codegen step
// also appends one "name,path" line per exported type to the metadata file
// inside the output directory.
package bindings

import (
	"path"
	"strings"
)

// Notice is the first line of every generated file, including the index.
const Notice = "// This file was generated by [ts-rs](https://github.com/Aleph-Alpha/ts-rs). Do not edit this file manually.\n"

// DefaultMetadataFile is the transient record file written during a test run.
const DefaultMetadataFile = "ts_rs.meta"

// DefaultExtension is the file extension of generated modules.
const DefaultExtension = "ts"

// ESMExtension replaces the module extension in import specifiers when
// ES module style imports are requested.
const ESMExtension = "js"

// BlankLine separates the boilerplate header from the type body.
var BlankLine = []byte{'\n', '\n'}

// IndexName returns the artifact file name for an extension, e.g. index.ts.
func IndexName(ext string) string {
	return "index." + ext
}

// ImportSpecifier turns a recorded path into the module specifier used in a
// re-export statement: "./" + path without its extension, or with the
// extension replaced by ".js" when esm is set.
func ImportSpecifier(p, ext string, esm bool) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "."+ext)
	if esm {
		p += "." + ESMExtension
	}
	return "./" + p
}
