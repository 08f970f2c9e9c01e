// Package outdir writes batch results to a local directory.
package outdir
