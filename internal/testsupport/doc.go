// Package testsupport builds configs, stub binaries, and fixture files for
// tests across the module.
package testsupport
