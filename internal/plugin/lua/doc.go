// Package lua runs user scripts against a scratch session.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, file loading functions are removed,
// and require only resolves the safe built-ins and the gyo module.
//
// The gyo module is available both as a global and through require:
//
//	local gyo = require("gyo")
//
//	-- pure allocation over arbitrary text
//	local res = gyo.allocate("00001\n00002", 0)
//	print(res.start, res.finish, #res.tokens)
//
//	-- number the bound scratch document as if the cursor were on line 40
//	local out = gyo.number(40)
//	gyo.log("added " .. out.count .. " identifiers")
//
// Module functions:
//
//   - allocate(text, count) -> {tokens, start, finish, last_value, last_line, insert_at, terminal}
//   - number(cursor_line) -> {count, first, last, insert_at, cursor, lines, terminal}
//   - scan([text]) -> {count, last_value, last_line, oversized}
//   - format(n) -> string
//   - is_token(line) -> bool
//   - text() -> string
//   - line_count() -> number
//   - log(msg)
//
// Line numbers exposed to Lua are zero-based, matching the Go API.
//
// gopher-lua's LState is not goroutine-safe; State serializes all calls.
// Execution is bounded by a context deadline.
package lua
