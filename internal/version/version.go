package version

import "fmt"

// Version and Commit are set at build time via:
//
//	go build -ldflags "-X ...version.VERSION=0.4.0 -X ...version.Commit=abc123"
var (
	VERSION = "dev"
	Commit  = "dev"
)

// String is the one-line form printed by "pxflood version".
func String() string {
	return fmt.Sprintf("pxflood %s (%s)", VERSION, Commit)
}
