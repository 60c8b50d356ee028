// Package mcp implements an in-process Model Context Protocol tool
// server for engine analysis.
//
// Tools are held in a thread-safe registry and invoked directly by Go
// callers; there is no wire transport. The registry speaks the official
// MCP SDK types, so tools built here can later be mounted on any SDK
// transport unchanged.
package mcp
