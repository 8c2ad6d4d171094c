// Package server serves components over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness
//	GET  /components         component names as JSON
//	GET  /render/{name...}   server render of a fragment
//	GET  /page/{name...}     server render of a full document
//	GET  /parity/{name...}   client and server output compared, as JSON
//	GET  /live/{name...}     websocket live preview (client path)
//
// Component names are template paths relative to the templates directory,
// without extension, so they may contain slashes: /render/admin/card.
//	GET  /metrics            Prometheus metrics
//
// Template data comes from the data query parameter or, for POST, the
// request body, as a JSON object.
//
// The live preview mounts the component on the client path when the
// socket opens and sends the container's markup. Each message the peer
// sends is a JSON object of new data; the instance is patched with it and
// the updated markup is sent back. The instance is unmounted when the
// socket closes.
//
// A Store loads one component per template file and, when watching,
// reloads a component whenever its file changes.
package server
