// Package buildinfo exposes version metadata injected at link time:
//
//	go build -ldflags "-X logdeck/internal/buildinfo.Version=v1.0.0 \
//	  -X logdeck/internal/buildinfo.Date=2026-08-29 \
//	  -X logdeck/internal/buildinfo.Commit=abc1234"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build stamp to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
