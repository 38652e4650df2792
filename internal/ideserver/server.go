package ideserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xcs-lang/xcsc/internal/config"
	"github.com/xcs-lang/xcsc/internal/coordinator"
	"github.com/xcs-lang/xcsc/internal/diagnostic"
	"github.com/xcs-lang/xcsc/internal/gate"
	"github.com/xcs-lang/xcsc/internal/hostsyntax"
	"github.com/xcs-lang/xcsc/internal/pathurl"
	"github.com/xcs-lang/xcsc/internal/text"
	"github.com/xcs-lang/xcsc/internal/workspace"
)

// Server speaks the IDE wire protocol over stdio, routing document
// lifecycle notifications into the Coordinator/Store/Gate pipeline.
type Server struct {
	coord        *coordinator.Coordinator
	gate         *gate.Gate
	suppressions map[string]bool

	mu       sync.Mutex
	shutdown bool
	out      *bufio.Writer

	// writeMu serializes every write to the outbound stream: the Run loop, the debounce-fired transform goroutines, and
	// IngestDiagnostics all share one bufio.Writer.
	writeMu sync.Mutex

	// openDocs tracks in-memory document text by URI, independent of the
	// derived-file workspace store, since didChange delivers full-document
	// replacement text directly.
	openDocs map[string]string
}

// NewServer constructs a Server rooted at root, using factory as the
// host-syntax backend. The sibling project configuration's NoWarn
// suppression set is loaded once, best-effort: a missing or unreadable
// project file yields an empty suppression set rather than failing
// server construction.
func NewServer(root string, factory hostsyntax.Factory) *Server {
	coord := coordinator.New(root, factory)
	suppressions, err := config.LoadSuppressions(root)
	if err != nil {
		suppressions = map[string]bool{}
	}
	return &Server{
		coord:        coord,
		gate:         gate.New(),
		suppressions: suppressions,
		openDocs:     make(map[string]string),
	}
}

// Store exposes the underlying workspace store, primarily for tests.
func (s *Server) Store() *workspace.Store {
	return s.coord.Store
}

// Run serves JSON-RPC messages over in using Content-Length framing,
// writing responses and publishDiagnostics notifications to out.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)
	s.mu.Lock()
	s.out = bw
	s.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := readFramedMessage(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			_ = s.writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = s.flushOut(bw)
			continue
		}
		if len(body) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			_ = s.writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = s.flushOut(bw)
			continue
		}
		if req.JSONRPC != "" && req.JSONRPC != JSONRPCVersion {
			_ = s.writeErrorResponse(bw, req.ID, jsonRPCInvalidRequest, "unsupported jsonrpc version")
			_ = s.flushOut(bw)
			continue
		}
		if req.Method == "" {
			continue
		}

		if err := s.dispatch(ctx, bw, req); err != nil {
			if errors.Is(err, ErrShutdownRequested) {
				return nil
			}
			return err
		}
		if err := s.flushOut(bw); err != nil {
			return err
		}
	}
}

func (s *Server) dispatch(ctx context.Context, w *bufio.Writer, req Request) error {
	isRequest := len(req.ID) != 0

	writeResp := func(result any) error {
		if !isRequest {
			return nil
		}
		return s.writeResponse(w, Response{JSONRPC: JSONRPCVersion, ID: req.ID, Result: result})
	}
	writeErr := func(code int, msg string) error {
		if !isRequest {
			return nil
		}
		return s.writeErrorResponse(w, req.ID, code, msg)
	}

	switch req.Method {
	case "initialize":
		var p InitializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return writeErr(jsonRPCInvalidParams, err.Error())
			}
		}
		return writeResp(InitializeResult{
			Capabilities: DefaultServerCapabilities(),
			ServerInfo:   ServerInfo{Name: "xcsc", Version: "0.1.0"},
		})
	case "initialized":
		return nil
	case "shutdown":
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		return writeResp(nil)
	case "exit":
		return ErrShutdownRequested
	case "textDocument/didOpen":
		var p DidOpenParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		if err := s.didOpen(ctx, p); err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return s.publishDiagnostics(ctx, w, p.TextDocument.URI)
	case "textDocument/didChange":
		var p DidChangeParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		uri := p.TextDocument.URI
		if err := s.didChange(p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		s.gate.OnChange(uri, func(uri string) {
			_ = s.transformAndPublish(ctx, w, uri)
		})
		return nil
	case "textDocument/completion":
		var p CompletionParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		items, err := s.completion(p)
		if err != nil {
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return writeResp(items)
	default:
		return writeErr(jsonRPCMethodNotFound, "method not found")
	}
}

func (s *Server) didOpen(ctx context.Context, p DidOpenParams) error {
	path, err := pathurl.URIToPath(p.TextDocument.URI)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.openDocs[p.TextDocument.URI] = p.TextDocument.Text
	s.mu.Unlock()
	return s.coord.FileParsed(ctx, path, []byte(p.TextDocument.Text))
}

// didChange replaces the tracked document text. Only full-document sync is
// supported, so the last content-change event's Text wins.
func (s *Server) didChange(p DidChangeParams) error {
	if len(p.ContentChanges) == 0 {
		return nil
	}
	s.mu.Lock()
	s.openDocs[p.TextDocument.URI] = p.ContentChanges[len(p.ContentChanges)-1].Text
	s.mu.Unlock()
	return nil
}

// transformAndPublish re-runs the coordinator for uri's current text and
// publishes diagnostics, then releases the gate so later changes can fire
// again.
func (s *Server) transformAndPublish(ctx context.Context, w *bufio.Writer, uri string) error {
	path, err := pathurl.URIToPath(uri)
	if err != nil {
		return err
	}
	s.mu.Lock()
	src, ok := s.openDocs[uri]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	err = s.coord.FileParsed(ctx, path, []byte(src))
	s.gate.Release(uri)
	if err != nil {
		return err
	}
	return s.publishDiagnostics(ctx, w, uri)
}

// publishDiagnostics emits an empty publishDiagnostics notification for
// uri. Downstream-compiler diagnostic ingestion is driven by a
// caller presenting diagnostic.Diagnostic values from outside this package;
// v1 clears any previous diagnostics on every successful transform.
func (s *Server) publishDiagnostics(ctx context.Context, w *bufio.Writer, uri string) error {
	_ = ctx
	body, err := json.Marshal(Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/publishDiagnostics",
		Params:  mustMarshal(PublishDiagnosticsParams{URI: uri, Diagnostics: []Diagnostic{}}),
	})
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := writeFramedMessage(w, body); err != nil {
		return err
	}
	// The debounce timer fires this off the Run loop, where no one else will
	// flush for us.
	return w.Flush()
}

// IngestDiagnostics is the external, non-JSON-RPC entry point for
// downstream-compiler output: a compiler driver (out of scope for this
// package) that has just compiled sourcePath's derived file presents the
// raw diagnostics it found here. Each is filtered against the loaded
// NoWarn suppression set, classified and translated back to original
// coordinates (internal/diagnostic), and published as a
// textDocument/publishDiagnostics notification. A diagnostic whose code
// is suppressed, or that Translate cannot map to any covering source-map
// entry, is dropped rather than reported.
func (s *Server) IngestDiagnostics(sourcePath string, diags []diagnostic.Diagnostic) error {
	meta, ok := s.coord.Store.Get(sourcePath)
	if !ok {
		return fmt.Errorf("%s: %w", sourcePath, ErrDocumentNotOpen)
	}
	uri := pathurl.PathToURI(sourcePath)

	s.mu.Lock()
	src, haveSrc := s.openDocs[uri]
	out := s.out
	s.mu.Unlock()
	if !haveSrc || out == nil {
		return nil
	}

	li := text.NewLineIndex([]byte(src))
	lspDiags := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if s.suppressions[d.Code] {
			continue
		}
		isPropError, containerStart := diagnostic.ClassifyContext([]byte(meta.TransformedContent), d.StartOffset)
		translated, ok := diagnostic.Translate(d, isPropError, containerStart, meta.SourceMaps, []byte(src))
		if !ok {
			continue
		}
		startPos, err := li.OffsetToUTF16Position(text.ByteOffset(translated.Start))
		if err != nil {
			continue
		}
		endPos, err := li.OffsetToUTF16Position(text.ByteOffset(translated.End))
		if err != nil {
			endPos = startPos
		}
		lspDiags = append(lspDiags, Diagnostic{
			Range:    Range{Start: Position{Line: startPos.Line, Character: startPos.Character}, End: Position{Line: endPos.Line, Character: endPos.Character}},
			Severity: severityCode(translated.Severity),
			Code:     translated.Code,
			Source:   "xcsc",
			Message:  translated.Message,
		})
	}

	body, err := json.Marshal(Request{
		JSONRPC: JSONRPCVersion,
		Method:  "textDocument/publishDiagnostics",
		Params:  mustMarshal(PublishDiagnosticsParams{URI: uri, Diagnostics: lspDiags}),
	})
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := writeFramedMessage(out, body); err != nil {
		return err
	}
	return out.Flush()
}

// severityCode maps a diagnostic severity string to LSP's
// DiagnosticSeverity enum (1=Error, 2=Warning, 3=Information, 4=Hint).
func severityCode(severity string) int {
	switch strings.ToLower(severity) {
	case "error":
		return 1
	case "warning":
		return 2
	case "information", "info":
		return 3
	case "hint":
		return 4
	default:
		return 1
	}
}

func (s *Server) completion(p CompletionParams) ([]CompletionItem, error) {
	path, err := pathurl.URIToPath(p.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	src, ok := s.openDocs[p.TextDocument.URI]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrDocumentNotOpen)
	}
	li := text.NewLineIndex([]byte(src))
	offset, err := li.UTF16PositionToOffset(text.UTF16Position{Line: p.Position.Line, Character: p.Position.Character})
	if err != nil {
		return nil, err
	}
	return Complete([]byte(src), int(offset)), nil
}

func (s *Server) writeResponse(w *bufio.Writer, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return writeFramedMessage(w, body)
}

func (s *Server) flushOut(w *bufio.Writer) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return w.Flush()
}

func (s *Server) writeErrorResponse(w *bufio.Writer, id json.RawMessage, code int, msg string) error {
	return s.writeResponse(w, Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &ResponseError{Code: code, Message: msg},
	})
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

func readFramedMessage(r *bufio.Reader) ([]byte, error) {
	contentLen := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header line %q", line)
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err != nil || n < 0 {
				return nil, fmt.Errorf("invalid Content-Length %q", value)
			}
			contentLen = n
		}
	}
	if contentLen < 0 {
		return nil, errors.New("missing Content-Length")
	}
	body := make([]byte, contentLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeFramedMessage(w io.Writer, body []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}
