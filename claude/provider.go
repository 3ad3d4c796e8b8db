package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"

	"github.com/randalmurphal/claudelocal/claudecontract"
	"github.com/randalmurphal/claudelocal/cmdline"
	"github.com/randalmurphal/claudelocal/parser"
	"github.com/randalmurphal/claudelocal/provider"
	"github.com/randalmurphal/claudelocal/rcfile"
)

// Provider names used with the registry.
const (
	ProviderName          = "claude-code"
	StreamingProviderName = "claude-code-streaming"
)

// Defaults for a Provider.
const (
	DefaultTimeout         = 5 * time.Minute
	DefaultValidateTimeout = 30 * time.Second
	DefaultMaxOutputBytes  = 10 * 1024 * 1024
)

// Provider runs the local Claude CLI once per call.
// It implements provider.Client without streaming.
type Provider struct {
	name            string
	command         string
	model           string
	timeout         time.Duration
	validateTimeout time.Duration
	workdir         string
	tempDir         string
	maxOutputBytes  int64
	env             map[string]string
	fileReference   *bool

	fs        afero.Fs
	lookPath  func(string) (string, error)
	lookupEnv func(string) (string, bool)
	homeDir   string
	rcPath    string
	goos      string

	resolver *Resolver
	parser   *parser.Parser
}

// Option configures a Provider.
type Option func(*Provider)

// WithCommand sets the default command line, used when a request does not
// name one. It takes precedence over the environment and the RC file.
func WithCommand(command string) Option {
	return func(p *Provider) { p.command = command }
}

// WithModel sets the default model or alias.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithTimeout sets the limit for one CLI invocation.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// WithValidateTimeout sets the limit for the Validate round-trip.
func WithValidateTimeout(d time.Duration) Option {
	return func(p *Provider) { p.validateTimeout = d }
}

// WithEnv adds environment variables to the CLI process.
// They override the host environment for the child only.
func WithEnv(env map[string]string) Option {
	return func(p *Provider) {
		if p.env == nil {
			p.env = make(map[string]string, len(env))
		}
		for k, v := range env {
			p.env[k] = v
		}
	}
}

// WithFs sets the filesystem used for RC files, detection, executable checks
// and prompt files.
func WithFs(fsys afero.Fs) Option {
	return func(p *Provider) { p.fs = fsys }
}

// WithWorkdir sets the directory the CLI runs in. ./.clauderc is looked up there.
func WithWorkdir(dir string) Option {
	return func(p *Provider) { p.workdir = dir }
}

// WithTempDir sets the directory for prompt files. Default: os.TempDir.
func WithTempDir(dir string) Option {
	return func(p *Provider) { p.tempDir = dir }
}

// WithMaxOutputBytes caps combined stdout and stderr.
func WithMaxOutputBytes(n int64) Option {
	return func(p *Provider) { p.maxOutputBytes = n }
}

// WithLookPath replaces the PATH search used by detection and executable checks.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(p *Provider) { p.lookPath = fn }
}

// WithLookupEnv replaces the environment lookup used for resolution settings.
// The child process environment is still built from os.Environ.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(p *Provider) { p.lookupEnv = fn }
}

// WithRCPath sets an RC file checked before the default search paths.
func WithRCPath(path string) Option {
	return func(p *Provider) { p.rcPath = path }
}

// WithHomeDir overrides the home directory for RC lookup and install paths.
func WithHomeDir(dir string) Option {
	return func(p *Provider) { p.homeDir = dir }
}

// WithGOOS selects the install path list used by detection.
func WithGOOS(goos string) Option {
	return func(p *Provider) { p.goos = goos }
}

// WithFileReference forces document substitution on or off, ignoring
// CLAUDE_CODE_USE_FILE_REFERENCE.
func WithFileReference(enabled bool) Option {
	return func(p *Provider) { p.fileReference = &enabled }
}

// NewProvider creates a Provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		name:            ProviderName,
		timeout:         DefaultTimeout,
		validateTimeout: DefaultValidateTimeout,
		maxOutputBytes:  DefaultMaxOutputBytes,
		fs:              afero.NewOsFs(),
		parser:          parser.NewParser(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.resolver = NewResolver(ResolverConfig{
		Fs:        p.fs,
		LookupEnv: p.lookupEnv,
		LookPath:  p.lookPath,
		GOOS:      p.goos,
		HomeDir:   p.homeDir,
		WorkDir:   p.workdir,
		RCPath:    p.rcPath,
	})
	// The resolver fills in defaults; share them.
	p.lookPath = p.resolver.lookPath
	p.lookupEnv = p.resolver.lookupEnv
	return p
}

// Resolver returns the resolver backing this provider.
func (p *Provider) Resolver() *Resolver { return p.resolver }

// ResolveCommand returns the command line that would run for params.
func (p *Provider) ResolveCommand(params provider.CommandParams) (string, bool) {
	return p.resolver.ResolveCommand(p.params(params.Command, params.ModelID))
}

// ResolveCommandParsed returns the tokenized command that would run for params.
func (p *Provider) ResolveCommandParsed(params provider.CommandParams) (cmdline.Command, bool) {
	return p.resolver.ResolveCommandParsed(p.params(params.Command, params.ModelID))
}

// Effective returns the RC file merged with the environment.
func (p *Provider) Effective() EffectiveConfig { return p.resolver.Effective() }

// RC returns the parsed RC file, or nil.
func (p *Provider) RC() *rcfile.Config { return p.resolver.RC() }

// IsAvailable reports whether a command can be resolved. No process is started.
// Implements provider.Client.
func (p *Provider) IsAvailable(ctx context.Context, params provider.CommandParams) bool {
	return p.resolver.IsAvailable(p.params(params.Command, params.ModelID))
}

// GenerateText renders the conversation, runs the CLI and returns its output.
// Implements provider.Client.
func (p *Provider) GenerateText(ctx context.Context, req provider.TextRequest) (*provider.TextResponse, error) {
	start := time.Now()

	prompt, err := FormatPrompt(req.Messages)
	if err != nil {
		return nil, provider.NewError(p.name, "generate_text", provider.ErrInvalidRequest, err)
	}

	text, err := p.Execute(ctx, prompt, ExecuteOptions{Model: req.Model, Command: req.Command})
	if err != nil {
		return nil, err
	}

	return &provider.TextResponse{
		Text:         text,
		RequestID:    uuid.NewString(),
		ResponseTime: time.Since(start),
	}, nil
}

// GenerateObject asks for a JSON object and decodes the outermost object in
// the reply. Code fences and surrounding prose are ignored.
// Implements provider.Client.
func (p *Provider) GenerateObject(ctx context.Context, req provider.ObjectRequest) (*provider.ObjectResponse, error) {
	const op = "generate_object"

	textReq := req.TextRequest()
	if err := textReq.Validate(); err != nil {
		return nil, provider.NewError(p.name, op, provider.ErrInvalidRequest, err)
	}

	schema, err := schemaText(req)
	if err != nil {
		return nil, provider.NewError(p.name, op, provider.ErrInvalidRequest, err)
	}

	textReq.Messages = withJSONInstruction(textReq.Messages, schema)

	resp, err := p.GenerateText(ctx, textReq)
	if err != nil {
		return nil, err
	}

	span, err := p.parser.ObjectSpan(resp.Text)
	if err != nil {
		return nil, p.parseError(op, err, resp.Text)
	}
	obj, err := p.parser.ExtractObject(span)
	if err != nil {
		return nil, p.parseError(op, err, resp.Text)
	}

	return &provider.ObjectResponse{
		Object:       obj,
		Raw:          span,
		Usage:        resp.Usage,
		RequestID:    resp.RequestID,
		ResponseTime: resp.ResponseTime,
	}, nil
}

// StreamText is not supported; use StreamingProvider.
// Implements provider.Client.
func (p *Provider) StreamText(ctx context.Context, req provider.TextRequest) (<-chan provider.StreamChunk, *provider.StreamResult, error) {
	return nil, nil, &provider.Error{
		Provider: p.name,
		Op:       "stream_text",
		Kind:     provider.ErrUnsupported,
		Fix:      fmt.Sprintf("Use the %q provider for streaming", StreamingProviderName),
	}
}

// Provider returns the provider name.
// Implements provider.Client.
func (p *Provider) Provider() string { return p.name }

// Close releases any resources held by the client.
// Each call is an independent process, so there is nothing to release.
func (p *Provider) Close() error { return nil }

func (p *Provider) params(command, modelID string) provider.CommandParams {
	return provider.CommandParams{
		Command: firstNonEmpty(strings.TrimSpace(command), p.command),
		ModelID: firstNonEmpty(strings.TrimSpace(modelID), p.model),
	}
}

func (p *Provider) useFileReference() bool {
	if p.fileReference != nil {
		return *p.fileReference
	}
	v, _ := p.lookupEnv(claudecontract.EnvUseFileReference)
	return claudecontract.IsTruthy(v)
}

func (p *Provider) parseError(op string, err error, text string) error {
	preview := text
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	return &provider.Error{
		Provider: p.name,
		Op:       op,
		Kind:     provider.ErrParseFailure,
		Err:      fmt.Errorf("%w (response: %q)", err, preview),
	}
}

// schemaText renders the schema to include in the JSON instruction.
func schemaText(req provider.ObjectRequest) (string, error) {
	if req.Schema != nil {
		r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
		data, err := json.MarshalIndent(r.Reflect(req.Schema), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal schema: %w", err)
		}
		return string(data), nil
	}
	if len(req.SchemaJSON) > 0 {
		if !json.Valid(req.SchemaJSON) {
			return "", fmt.Errorf("schema is not valid JSON")
		}
		return string(req.SchemaJSON), nil
	}
	return "", nil
}

var _ provider.Client = (*Provider)(nil)
