// Package mcp exposes corpus generation over the Model Context
// Protocol on stdio.
package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cratelore/cratelore/internal/corpus"
	"github.com/cratelore/cratelore/internal/generate"
	"github.com/cratelore/cratelore/internal/render"
	"github.com/cratelore/cratelore/internal/rpc"
)

//go:embed instructions.md
var instructions string

type Server struct {
	mcpServer *server.MCPServer
	gen       *generate.Generator
}

func NewServer(gen *generate.Generator) *Server {
	s := &Server{gen: gen}

	mcpServer := server.NewMCPServer(
		"cratelore",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("crate_docs",
			mcp.WithDescription("Generate llms.txt documentation corpora for a published Rust crate from its docs.rs rustdoc JSON. Returns sessions (concise index) and full sessions (complete documentation). Version defaults to \"latest\"."),
			mcp.WithString("crate",
				mcp.Description("Crate name (e.g., \"serde\")"),
			),
			mcp.WithString("version",
				mcp.Description("Version (default: \"latest\")"),
			),
			mcp.WithString("url",
				mcp.Description("Direct rustdoc JSON URL, used instead of crate/version"),
			),
		),
		s.handleCrateDocs,
	)

	mcpServer.AddTool(
		mcp.NewTool("crate_docs_local",
			mcp.WithDescription("Generate llms.txt documentation corpora for a local cargo package by building its rustdoc JSON. Requires a working cargo toolchain."),
			mcp.WithString("manifest_path",
				mcp.Description("Path to the package's Cargo.toml"),
				mcp.Required(),
			),
			mcp.WithString("toolchain",
				mcp.Description("Toolchain to build with (e.g., \"nightly\")"),
			),
			mcp.WithArray("features",
				mcp.Description("Features to enable"),
				mcp.Items(map[string]interface{}{"type": "string"}),
			),
			mcp.WithBoolean("all_features",
				mcp.Description("Enable all features"),
			),
			mcp.WithBoolean("no_default_features",
				mcp.Description("Disable default features"),
			),
		),
		s.handleCrateDocsLocal,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"llmstxt://{crate}/{version}/{file}",
			"Crate llms.txt corpus",
			mcp.WithTemplateDescription("Rendered llms.txt (concise index) or llms-full.txt (complete documentation) for a crate."),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleCrateDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	if url, _ := args["url"].(string); url != "" {
		docs := rpc.Collapse(s.gen.ForURL(ctx, url))
		return docsResult(docs)
	}

	name, _ := args["crate"].(string)
	if name == "" {
		return mcp.NewToolResultError("missing required parameter: crate or url"), nil
	}
	version, _ := args["version"].(string)

	docs := rpc.Collapse(s.gen.ForCrate(ctx, rpc.CrateSpec{Name: name, Version: version}))
	return docsResult(docs)
}

func (s *Server) handleCrateDocsLocal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	manifest, _ := args["manifest_path"].(string)
	if manifest == "" {
		return mcp.NewToolResultError("missing required parameter: manifest_path"), nil
	}

	spec := rpc.LocalSpec{ManifestPath: manifest}
	spec.Toolchain, _ = args["toolchain"].(string)
	if featuresRaw, ok := args["features"]; ok {
		featuresJSON, _ := json.Marshal(featuresRaw)
		json.Unmarshal(featuresJSON, &spec.Features)
	}
	spec.AllFeatures, _ = args["all_features"].(bool)
	spec.NoDefaultFeatures, _ = args["no_default_features"].(bool)

	docs := rpc.Collapse(s.gen.ForLocal(ctx, spec))
	return docsResult(docs)
}

// docsResult serializes a collapsed generation outcome. A nil corpus
// is reported as "no documentation", never as a protocol error.
func docsResult(docs *corpus.CrateDocs) (*mcp.CallToolResult, error) {
	if docs == nil {
		return mcp.NewToolResultError("no documentation available"), nil
	}
	resultJSON, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("no documentation available"), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	trimmed := strings.TrimPrefix(uri, "llmstxt://")
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}
	name, version, file := parts[0], parts[1], parts[2]

	docs := rpc.Collapse(s.gen.ForCrate(ctx, rpc.CrateSpec{Name: name, Version: version}))
	if docs == nil {
		return nil, fmt.Errorf("no documentation available for %s@%s", name, version)
	}

	var text string
	switch file {
	case "llms.txt":
		text = render.Index(docs)
	case "llms-full.txt":
		text = render.Full(docs)
	default:
		return nil, fmt.Errorf("unknown resource file %q: want llms.txt or llms-full.txt", file)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
