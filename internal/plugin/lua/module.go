package lua

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gyobango/internal/scratch"
	"github.com/dshills/gyobango/internal/sequence"
)

// ModuleName is the name scripts use to reach the module.
const ModuleName = "gyo"

// Logger receives gyo.log output.
type Logger interface {
	Info(msg string, args ...any)
}

// Module implements the gyo API module.
type Module struct {
	session *scratch.Session
	logger  Logger
}

// NewModule creates the module. session may be nil, in which case only the
// pure functions work.
func NewModule(session *scratch.Session, logger Logger) *Module {
	return &Module{session: session, logger: logger}
}

// Register installs the module into the state.
func (m *Module) Register(s *State) {
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"allocate":   m.allocate,
		"number":     m.number,
		"scan":       m.scan,
		"format":     m.format,
		"is_token":   m.isToken,
		"text":       m.text,
		"line_count": m.lineCount,
		"log":        m.log,
	})
}

// allocator returns the session's allocator, or a default one.
func (m *Module) allocator() *sequence.Allocator {
	if m.session != nil {
		return m.session.Allocator()
	}
	return sequence.New()
}

// allocate(text, count) -> table
func (m *Module) allocate(L *lua.LState) int {
	text := L.CheckString(1)
	count := L.OptInt(2, 0)
	alloc := m.allocator()
	if count > alloc.MaxCount() {
		L.ArgError(2, fmt.Sprintf("count must not exceed %d", alloc.MaxCount()))
		return 0
	}

	res := alloc.Allocate(text, count)

	t := L.NewTable()
	t.RawSetString("tokens", stringsToTable(L, res.Lines()))
	t.RawSetString("start", lua.LNumber(res.Start))
	t.RawSetString("finish", lua.LNumber(res.End))
	t.RawSetString("last_value", lua.LNumber(res.LastValue))
	t.RawSetString("last_line", lua.LNumber(res.LastTokenLine))
	t.RawSetString("insert_at", lua.LNumber(res.InsertAt))
	t.RawSetString("terminal", lua.LBool(res.Terminal))
	L.Push(t)
	return 1
}

// number(cursor_line) -> table
// Numbers the bound scratch document.
func (m *Module) number(L *lua.LState) int {
	cursor := L.CheckInt(1)
	if m.session == nil {
		L.RaiseError("number: %v", ErrNoSession)
		return 0
	}
	if limit := m.session.Allocator().MaxCount(); cursor < 0 || cursor > limit {
		L.ArgError(1, fmt.Sprintf("cursor line must be between 0 and %d", limit))
		return 0
	}

	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := m.session.Number(ctx, scratch.Request{CursorLine: cursor})
	if err != nil {
		L.RaiseError("number: %v", err)
		return 0
	}

	t := L.NewTable()
	t.RawSetString("count", lua.LNumber(len(out.Result.Tokens)))
	if n := len(out.Result.Tokens); n > 0 {
		t.RawSetString("first", lua.LString(out.Result.Tokens[0].Text))
		t.RawSetString("last", lua.LString(out.Result.Tokens[n-1].Text))
	}
	t.RawSetString("insert_at", lua.LNumber(out.Result.InsertAt))
	t.RawSetString("cursor", lua.LNumber(out.CursorTarget))
	t.RawSetString("lines", lua.LNumber(out.LineCount))
	t.RawSetString("terminal", lua.LBool(out.Result.Terminal))
	L.Push(t)
	return 1
}

// scan([text]) -> table
// Scans text, or the bound scratch document when text is omitted.
func (m *Module) scan(L *lua.LState) int {
	var ledger sequence.Ledger
	switch {
	case L.GetTop() >= 1:
		ledger = m.allocator().Scan(L.CheckString(1))
	case m.session != nil:
		ledger = m.session.Ledger()
	default:
		ledger = m.allocator().Scan("")
	}

	t := L.NewTable()
	t.RawSetString("count", lua.LNumber(ledger.Len()))
	t.RawSetString("last_value", lua.LNumber(ledger.LastValue()))
	t.RawSetString("last_line", lua.LNumber(ledger.LastLine))
	t.RawSetString("oversized", lua.LNumber(ledger.Oversized))
	L.Push(t)
	return 1
}

// format(n) -> string
func (m *Module) format(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "value must be non-negative")
		return 0
	}
	L.Push(lua.LString(sequence.Format(n, m.allocator().Width())))
	return 1
}

// is_token(line) -> bool
func (m *Module) isToken(L *lua.LState) int {
	_, ok := sequence.ParseToken(L.CheckString(1), m.allocator().Width())
	L.Push(lua.LBool(ok))
	return 1
}

// text() -> string
func (m *Module) text(L *lua.LState) int {
	if m.session == nil {
		L.Push(lua.LString(""))
		return 1
	}
	L.Push(lua.LString(m.session.Buffer().Snapshot().LFText()))
	return 1
}

// line_count() -> number
func (m *Module) lineCount(L *lua.LState) int {
	if m.session == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.session.Buffer().LineCount()))
	return 1
}

// log(msg)
func (m *Module) log(L *lua.LState) int {
	msg := L.CheckString(1)
	if m.logger != nil {
		m.logger.Info("script: %s", msg)
	}
	return 0
}

// stringsToTable converts a string slice to a Lua array.
func stringsToTable(L *lua.LState, s []string) *lua.LTable {
	t := L.CreateTable(len(s), 0)
	for i, v := range s {
		t.RawSetInt(i+1, lua.LString(v))
	}
	return t
}
