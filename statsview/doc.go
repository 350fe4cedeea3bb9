// Package statsview serves runtime statistics over HTTP while the emulator
// runs. The server is only compiled in with the statsview build tag:
//
//	go build -tags statsview
//
// After launch, charts are viewable at
//
//	localhost:12600/debug/statsview
//
// and the standard pprof endpoints at
//
//	localhost:12600/debug/pprof/
package statsview

const (
	Address = "localhost:12600"
	url     = "/debug/statsview"
)
