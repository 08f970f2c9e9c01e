package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fiches/internal/core/domain"
)

const (
	uriScheme   = "fiches://"
	profilesURI = uriScheme + "profiles"
	jsonMIME    = "application/json"
)

// MappingOutput is the body of a profile's mapping resource.
type MappingOutput struct {
	Profile string         `json:"profile"`
	Mapping string         `json:"mapping"`
	Fields  []FieldBinding `json:"fields"`
}

// FieldBinding pairs a widget name with its spreadsheet column.
type FieldBinding struct {
	Field  string `json:"field"`
	Column string `json:"column"`
}

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         profilesURI,
		Name:        "profiles",
		Description: "Configured document profiles",
		MIMEType:    jsonMIME,
	}, s.handleProfilesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: profilesURI + "/{name}/mapping",
		Name:        "profile-mapping",
		Description: "Field mapping a form profile fills its template with",
		MIMEType:    jsonMIME,
	}, s.handleMappingResource)
}

func (s *Server) handleProfilesResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	profiles, err := s.profiles()
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, profiles)
}

func (s *Server) handleMappingResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	name := mappingProfile(req.Params.URI)
	if name == "" || s.ports.Mappings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	profile, err := s.ports.Settings.Profile(name)
	if errors.Is(err, domain.ErrUnknownProfile) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, err
	}
	m, err := s.ports.Mappings.Resolve(profile)
	if err != nil {
		return nil, fmt.Errorf("resolving mapping of %s: %w", name, err)
	}

	out := MappingOutput{Profile: name, Mapping: m.Name(), Fields: make([]FieldBinding, 0, m.Len())}
	for _, field := range m.Fields() {
		col, _ := m.Lookup(field)
		out.Fields = append(out.Fields, FieldBinding{Field: field, Column: col.Selector})
	}
	return jsonResource(req.Params.URI, out)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: jsonMIME, Text: string(data)}},
	}, nil
}

// mappingProfile extracts the profile name from fiches://profiles/{name}/mapping.
func mappingProfile(uri string) string {
	rest, ok := strings.CutPrefix(uri, profilesURI+"/")
	if !ok {
		return ""
	}
	name, ok := strings.CutSuffix(rest, "/mapping")
	if !ok || name == "" || strings.Contains(name, "/") {
		return ""
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
