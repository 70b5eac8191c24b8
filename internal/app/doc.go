// Package app contains the integration's composition root. It wires the
// settings loader, the bridge connection, the context resolver and the
// engine together, decoupled from any specific entrypoint like a CLI.
package app
