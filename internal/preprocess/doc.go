// Package preprocess turns indentation-significant Yarn dialogue scripts into
// a stream where each opened block is marked with an indent character and
// each closed block with a dedent character, so that a grammar can match them
// like braces.
//
// The pipeline is: normalize line endings and tabs, classify option lines,
// track indentation, join the lines with \n.
package preprocess
