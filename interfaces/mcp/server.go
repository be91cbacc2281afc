// Package mcp exposes the solver over the Model Context Protocol.
//
// The server registers three tools backed by the problem registry:
// list_problems, witnesses and solve. It wraps
// github.com/felixgeelhaar/mcp-go and serves over stdio or HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	mcpserver "github.com/felixgeelhaar/mcp-go/server"

	"github.com/felixgeelhaar/descent/application"
	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/pack"
)

// Tool names.
const (
	ToolListProblems = "list_problems"
	ToolWitnesses    = "witnesses"
	ToolSolve        = "solve"
)

// maxWitnesses bounds a single witnesses call.
const maxWitnesses = 1000

// Config configures a Server.
type Config struct {
	Name         string
	Version      string
	Instructions string

	// Engine runs solve calls. A nil engine uses the defaults.
	Engine *application.Engine

	// Registry supplies the problem families.
	Registry pack.Registry
}

// Server is an MCP server backed by a problem registry.
type Server struct {
	srv      *mcpgo.Server
	engine   *application.Engine
	registry pack.Registry
}

// NewServer creates a server and registers its tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Name == "" {
		cfg.Name = "descent"
	}

	engine := cfg.Engine
	if engine == nil {
		var err error
		if engine, err = application.NewEngine(application.EngineConfig{}); err != nil {
			return nil, err
		}
	}

	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: "Vieta-jumping descent solver",
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &Server{
		srv:      mcpgo.NewServer(info, opts...),
		engine:   engine,
		registry: cfg.Registry,
	}

	s.srv.Tool(ToolListProblems).
		Description("List the registered problem families").
		Handler(s.ListProblems)
	s.srv.Tool(ToolWitnesses).
		Description("Enumerate witnesses of a problem: {\"problem\": name, \"limit\": n}").
		Handler(s.Witnesses)
	s.srv.Tool(ToolSolve).
		Description("Descend from a witness and discharge its claim: {\"problem\": name, \"x\": \"8\", \"y\": \"30\", \"trace\": false}").
		Handler(s.Solve)

	return s, nil
}

type witnessesInput struct {
	Problem string `json:"problem"`
	Limit   int    `json:"limit"`
}

type solveInput struct {
	Problem string `json:"problem"`
	X       string `json:"x"`
	Y       string `json:"y"`
	Trace   bool   `json:"trace"`
}

type describer interface {
	Info() pack.Info
}

// ListProblems returns the registered families as a JSON array.
func (s *Server) ListProblems(_ context.Context, _ json.RawMessage) (string, error) {
	families := s.registry.List()
	infos := make([]pack.Info, 0, len(families))
	for _, fam := range families {
		info := pack.Info{Name: fam.Name(), Description: fam.Description()}
		if d, ok := fam.(describer); ok {
			info = d.Info()
		}
		infos = append(infos, info)
	}
	return encode(infos)
}

// Witnesses returns the first witnesses of a family as a JSON array.
func (s *Server) Witnesses(_ context.Context, input json.RawMessage) (string, error) {
	var in witnessesInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	if in.Limit <= 0 {
		in.Limit = 10
	}
	if in.Limit > maxWitnesses {
		return "", fmt.Errorf("limit %d exceeds %d", in.Limit, maxWitnesses)
	}

	fam, err := s.family(in.Problem)
	if err != nil {
		return "", err
	}
	return encode(fam.Witnesses(in.Limit))
}

// Solve runs one witness and returns the outcome as JSON. Ledger
// entries are included only when trace is set.
func (s *Server) Solve(ctx context.Context, input json.RawMessage) (string, error) {
	var in solveInput
	if err := decode(input, &in); err != nil {
		return "", err
	}
	witness, err := descent.ParsePair(in.X, in.Y)
	if err != nil {
		return "", err
	}

	fam, err := s.family(in.Problem)
	if err != nil {
		return "", err
	}
	problem, err := fam.Problem(witness)
	if err != nil {
		return "", err
	}

	out, err := application.Solve(ctx, s.engine, problem, witness)
	if err != nil {
		return "", fmt.Errorf("solve %s %s: %w", in.Problem, witness, err)
	}
	if !in.Trace {
		out.Entries = nil
	}
	return encode(out)
}

func (s *Server) family(name string) (pack.Family, error) {
	if name == "" {
		return nil, errors.New("problem is required")
	}
	fam, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", pack.ErrFamilyNotFound, name)
	}
	return fam, nil
}

// Server returns the underlying mcp-go server.
func (s *Server) Server() *mcpgo.Server {
	return s.srv
}

// Use adds middleware to the server.
func (s *Server) Use(middlewares ...mcpserver.Middleware) {
	s.srv.Use(middlewares...)
}

// ServeStdio serves over stdin and stdout until ctx is done.
func (s *Server) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}

// ServeHTTP serves over HTTP on addr until ctx is done.
func (s *Server) ServeHTTP(ctx context.Context, addr string, opts ...mcpgo.HTTPOption) error {
	return mcpgo.ServeHTTP(ctx, s.srv, addr, opts...)
}

func decode(input json.RawMessage, v any) error {
	if len(input) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
