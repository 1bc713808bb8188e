package model

// TurnCompleteMsg reports a finished turn: the orchestrator obtained a final
// plain-text answer (any tool exchanges already folded into it).
type TurnCompleteMsg struct {
	FinalText string
}

// TurnErrorMsg reports a turn that ended in a fatal error (LLM capability
// failure or tool loop bound). UserText is the message that triggered the
// turn so the UI can offer a retry.
type TurnErrorMsg struct {
	Err      error
	UserText string
}

// MarkdownRenderedMsg carries an async-rendered markdown string for the
// message at MessageIndex.
type MarkdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

// CopiedToClipboardMsg reports the outcome of a clipboard copy.
type CopiedToClipboardMsg struct {
	Err error
}

// BackendPingMsg reports the result of the startup backend connectivity
// probe. A failed probe is not fatal; tools fall back to mock data.
type BackendPingMsg struct {
	Err error
}
