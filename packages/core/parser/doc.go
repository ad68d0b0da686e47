// Package parser parses .bru request definition files into structured
// records. A .bru file is a sequence of named blocks: dictionary blocks
// (meta, headers, query, assert, tests, vars:post-response, control) hold
// key/value lines, raw blocks (body:json, body:text, docs) hold verbatim
// text. Environment files and folder/collection meta files share the same
// block syntax and have their own entry points.
package parser
