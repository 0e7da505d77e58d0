// Package buildinfo exposes build-time information of the mouse node.
//
// Values are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/mouse-go/internal/infra/buildinfo.Version=v0.3.0"
package buildinfo
