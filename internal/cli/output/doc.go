// Package output renders server replies and reports for respkv-cli.
//
//   - formatter.go: Formatter interface and factory
//   - text.go: redis-cli style rendering of reply frames
//   - value.go: conversion of frames to plain Go values
//   - json.go, yaml.go: machine-readable output
//   - table.go, progress.go: benchmark reports
package output
