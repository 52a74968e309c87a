// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and LUSO_ prefixed environment
// variables.
package config
