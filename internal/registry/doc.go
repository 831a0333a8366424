// Package registry probes the configuration registry for environment marker
// files. The registry is laid out as {root}/{lob}/{name}/{type}/{env}.txt with
// a shared {root}/default tree alongside the line-of-business trees.
package registry
