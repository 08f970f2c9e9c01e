package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/fiches/internal/adapters/driven/outdir"
	"github.com/custodia-labs/fiches/internal/core/domain"
	"github.com/custodia-labs/fiches/internal/core/ports/driving"
	"github.com/custodia-labs/fiches/internal/logger"
)

// GenerateInput is the input schema for the generate_documents tool.
type GenerateInput struct {
	Profile   string `json:"profile" jsonschema:"name of the configured profile to run"`
	OutDir    string `json:"out_dir" jsonschema:"directory the PDFs and the archive are written to"`
	Source    string `json:"source,omitempty" jsonschema:"spreadsheet location overriding the profile"`
	Document  string `json:"document,omitempty" jsonschema:"template or reference PDF location overriding the profile"`
	Policy    string `json:"policy,omitempty" jsonschema:"row error policy: abort or continue"`
	NoArchive bool   `json:"no_archive,omitempty" jsonschema:"skip writing the ZIP archive"`
}

// GenerateOutput is the output schema for the generate_documents tool.
type GenerateOutput struct {
	Files    []string        `json:"files"`
	Archive  string          `json:"archive,omitempty"`
	Failures []FailureOutput `json:"failures,omitempty"`
	Rows     int             `json:"rows"`
}

// FailureOutput describes one skipped row.
type FailureOutput struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ProfilesInput is the input schema for the list_profiles tool.
type ProfilesInput struct{}

// ProfilesOutput is the output schema for the list_profiles tool.
type ProfilesOutput struct {
	Profiles []ProfileOutput `json:"profiles"`
}

// ProfileOutput describes one configured profile.
type ProfileOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Mode        string `json:"mode"`
	Archive     string `json:"archive"`
	Ready       bool   `json:"ready"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_documents",
		Description: "Generate one PDF per spreadsheet row for a profile and write them to a directory",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the configured document profiles",
	}, s.handleProfiles)
}

// handleGenerate handles the generate_documents tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	if input.OutDir == "" {
		return nil, GenerateOutput{}, fmt.Errorf("%w: out_dir is required", domain.ErrInvalidInput)
	}
	policy := domain.ErrorPolicy(input.Policy)
	if policy != "" && !policy.IsValid() {
		return nil, GenerateOutput{}, fmt.Errorf("%w: policy %q", domain.ErrInvalidInput, input.Policy)
	}

	profile, err := s.ports.Settings.Profile(input.Profile)
	if err != nil {
		return nil, GenerateOutput{}, err
	}
	if input.Source != "" {
		profile.Source = input.Source
	}
	if input.Document != "" {
		profile.Document = input.Document
	}

	result, err := s.ports.Batch.Run(ctx, driving.BatchRequest{Profile: profile, Policy: policy})
	if err != nil {
		return nil, GenerateOutput{}, fmt.Errorf("%s: %w", domain.UserMessage(err), err)
	}

	var archive *domain.NamedBuffer
	if !input.NoArchive && s.ports.Results != nil && len(result.Documents) > 0 {
		a, err := s.ports.Results.Package(result)
		if err != nil {
			return nil, GenerateOutput{}, err
		}
		archive = &a
	}

	paths, err := outdir.New(input.OutDir).WriteResult(result, archive)
	if err != nil {
		return nil, GenerateOutput{}, err
	}
	logger.Info("MCP generated %d documents for profile %s", len(result.Documents), profile.Name)

	output := GenerateOutput{Rows: result.Rows}
	if archive != nil {
		output.Archive = paths[len(paths)-1]
		paths = paths[:len(paths)-1]
	}
	output.Files = paths
	for _, f := range result.Failures {
		output.Failures = append(output.Failures, FailureOutput{Row: f.Row + 1, Error: f.Message()})
	}

	return nil, output, nil
}

// handleProfiles handles the list_profiles tool invocation.
func (s *Server) handleProfiles(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ProfilesInput,
) (*mcp.CallToolResult, ProfilesOutput, error) {
	profiles, err := s.profiles()
	if err != nil {
		return nil, ProfilesOutput{}, err
	}
	return nil, ProfilesOutput{Profiles: profiles}, nil
}

// profiles lists the configured profiles by name.
func (s *Server) profiles() ([]ProfileOutput, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, err
	}
	out := []ProfileOutput{}
	for _, name := range settings.ProfileNames() {
		p := settings.Profiles[name]
		out = append(out, ProfileOutput{
			Name:        name,
			Description: p.Description,
			Mode:        p.Mode.String(),
			Archive:     p.Archive,
			Ready:       p.Validate() == nil,
		})
	}
	return out, nil
}
