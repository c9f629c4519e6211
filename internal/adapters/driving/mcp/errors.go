// Package mcp provides an MCP (Model Context Protocol) server adapter
// for worksearch. It lets AI assistants run federated searches across
// the workplace content sources.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
