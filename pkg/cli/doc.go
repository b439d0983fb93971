// Package cli implements the mockclient command line tool.
//
// Commands:
//
//	fixtures list|validate|show|schema   inspect a fixture directory
//	match <url> <pattern>...             rank URL patterns for a URL
//	verify --history f --expect f        check a history dump against expectations
//	config                               show resolved configuration
//	version                              print version information
package cli
