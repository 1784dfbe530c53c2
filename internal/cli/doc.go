// Package cli implements the docfetch command.
package cli
