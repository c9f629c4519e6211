package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
)

const uriScheme = "worksearch://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing the available source kinds.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "The searchable source kinds, their tie-break priority and whether they are queried by default",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

// handleSourcesResource returns the source kind catalogue.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sourceInfo struct {
		Kind     string `json:"kind"`
		Priority int    `json:"priority"`
		Default  bool   `json:"default"`
	}

	defaults := map[domain.SourceKind]bool{}
	for _, k := range domain.DefaultSources() {
		defaults[k] = true
	}

	kinds := domain.AllSourceKinds()
	infos := make([]sourceInfo, len(kinds))
	for i, k := range kinds {
		infos[i] = sourceInfo{
			Kind:     string(k),
			Priority: k.Priority(),
			Default:  defaults[k],
		}
	}

	data, err := json.Marshal(infos)
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
