package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for Sercha Audio resources.
	uriScheme = "sercha-audio://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "formats",
		Name:        "formats",
		Description: "Audio media types accepted for transcription",
		MIMEType:    "application/json",
	}, s.handleFormatsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tools",
		Name:        "query-tools",
		Description: "Query strategies the question router chooses between",
		MIMEType:    "application/json",
	}, s.handleToolsResource)
}

// handleFormatsResource lists the accepted media types.
func (s *Server) handleFormatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	types := s.ports.MediaTypes
	if types == nil {
		types = domain.SupportedMediaTypes()
	}
	return jsonResource(req.Params.URI, types)
}

// handleToolsResource lists the router's tool descriptors.
func (s *Server) handleToolsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type toolInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	tools := domain.DefaultTools()
	infos := make([]toolInfo, len(tools))
	for i, t := range tools {
		infos[i] = toolInfo{Name: t.Kind.String(), Description: t.Description}
	}
	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
