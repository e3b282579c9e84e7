package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"capfmt/internal/callsite"
	"capfmt/internal/config"
	"capfmt/internal/inliner"
)

var inlineCmd = &cobra.Command{
	Use:   "inline <batch.json|->",
	Short: "Run the inliner over a JSON batch of call sites",
	Long: `Read call sites as JSON and write one outcome per call site. The batch
carries the format literal, the argument expressions and optionally the names in
scope; it is the entry point for front ends that do their own parsing.`,
	Args: cobra.ExactArgs(1),
	RunE: runInline,
}

// batchRequest is the input document. Top-level msrv, edition and
// allow_mixed are defaults for calls that do not set their own.
type batchRequest struct {
	MSRV       string      `json:"msrv,omitempty"`
	Edition    string      `json:"edition,omitempty"`
	AllowMixed *bool       `json:"allow_mixed,omitempty"`
	Calls      []batchCall `json:"calls"`
}

type batchCall struct {
	ID      string     `json:"id,omitempty"`
	Macro   string     `json:"macro"`
	Format  string     `json:"format"`
	Raw     bool       `json:"raw,omitempty"`
	Hashes  int        `json:"hashes,omitempty"`
	Opaque  bool       `json:"opaque,omitempty"`
	Args    []batchArg `json:"args"`
	// Scope lists visible names; nil means every identifier is visible.
	Scope   []string `json:"scope,omitempty"`
	MSRV    string   `json:"msrv,omitempty"`
	Edition string   `json:"edition,omitempty"`
}

type batchArg struct {
	Name string `json:"name,omitempty"`
	Expr string `json:"expr"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

type batchResult struct {
	ID      string     `json:"id,omitempty"`
	Status  string     `json:"status"`
	Format  string     `json:"format"`
	Args    []batchArg `json:"args"`
	Removed []int      `json:"removed,omitempty"`
	Reason  string     `json:"reason,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func init() {
	addConfigFlags(inlineCmd)
}

func runInline(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	start := "."
	if args[0] != "-" {
		start = args[0]
	}
	cfg, err := loadConfig(cmd, start)
	if err != nil {
		return err
	}
	return runBatch(in, cmd.OutOrStdout(), cfg)
}

// runBatch decodes a batch, inlines every call and encodes the outcomes.
// Per-call problems are reported in the result; only a malformed document fails.
func runBatch(in io.Reader, out io.Writer, cfg *config.Config) error {
	var req batchRequest
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("inline: invalid batch: %w", err)
	}

	opts := cfg.Lints.Inliner
	if req.AllowMixed != nil {
		opts.AllowMixed = *req.AllowMixed
	}
	defaults := *cfg
	var err error
	if req.MSRV != "" {
		if defaults.MSRV, err = callsite.ParseRustVersion(req.MSRV); err != nil {
			return fmt.Errorf("inline: msrv: %w", err)
		}
	}
	if req.Edition != "" {
		if defaults.Edition, err = callsite.ParseEdition(req.Edition); err != nil {
			return fmt.Errorf("inline: edition: %w", err)
		}
	}

	resp := batchResponse{Results: make([]batchResult, 0, len(req.Calls))}
	for _, call := range req.Calls {
		resp.Results = append(resp.Results, inlineOne(call, &defaults, opts))
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func inlineOne(call batchCall, defaults *config.Config, opts inliner.Options) batchResult {
	res := batchResult{ID: call.ID, Status: inliner.Unchanged.String(), Format: call.Format, Args: call.Args}
	cs, err := buildCallSite(call, defaults)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	out, err := inliner.Inline(cs, opts)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Status = out.Status.String()
	res.Reason = out.Reason.String()
	if !out.Changed() {
		return res
	}
	res.Format = out.Literal
	res.Removed = out.Removed
	res.Args = make([]batchArg, len(out.Args))
	for i, a := range out.Args {
		res.Args[i] = batchArg{Name: a.Name, Expr: a.Text}
	}
	return res
}

var errMissingMacro = errors.New("macro name is required")

func buildCallSite(call batchCall, defaults *config.Config) (*callsite.CallSite, error) {
	if call.Macro == "" {
		return nil, errMissingMacro
	}
	cs := &callsite.CallSite{
		Macro: call.Macro,
		Format: callsite.FormatSource{
			Opaque: call.Opaque,
			Raw:    call.Raw || call.Hashes > 0,
			Hashes: call.Hashes,
			Text:   call.Format,
		},
		Scope:   callsite.AnyName{},
		MSRV:    defaults.MSRV,
		Edition: defaults.Edition,
	}
	if call.Scope != nil {
		cs.Scope = callsite.NewNameSet(call.Scope...)
	}
	var err error
	if call.MSRV != "" {
		if cs.MSRV, err = callsite.ParseRustVersion(call.MSRV); err != nil {
			return nil, err
		}
	}
	if call.Edition != "" {
		if cs.Edition, err = callsite.ParseEdition(call.Edition); err != nil {
			return nil, err
		}
	}
	for _, a := range call.Args {
		expr := strings.TrimSpace(a.Expr)
		kind, lit := callsite.Classify(expr)
		cs.Args = append(cs.Args, callsite.Argument{Name: strings.TrimSpace(a.Name), Text: expr, Kind: kind, Lit: lit})
	}
	return cs, nil
}
