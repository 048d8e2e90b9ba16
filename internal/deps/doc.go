// Package deps checks that the external binaries timeqr drives are present.
package deps
