// Package driving provides interfaces for actors that drive the application
// (primary/inbound ports): the web API, CLI, TUI and MCP server.
package driving
