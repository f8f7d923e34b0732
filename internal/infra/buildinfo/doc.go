// Package buildinfo exposes version information injected at build time:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0"
//
// Fields left unset fall back to what the Go toolchain embedded in the
// binary.
package buildinfo
