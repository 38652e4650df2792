package ideserver

// DefaultServerCapabilities returns the capability set this server
// advertises:
// `{ textDocumentSync: 1, hoverProvider: true, completionProvider: {
// resolveProvider: true } }`.
func DefaultServerCapabilities() ServerCapabilities {
	return ServerCapabilities{
		TextDocumentSync: TextDocumentSyncKindFull,
		HoverProvider:    true,
		CompletionProvider: CompletionOptions{
			ResolveProvider: true,
		},
	}
}
