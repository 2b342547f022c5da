package printer

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/thisisjab/plzero/token"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

type LuaPrinterConfig struct {
	ScriptPath string `yaml:"script-path"`
}

// LuaPrinter renders tokens with a user script.
// Provided script MUST define a function named `format_token` which takes 4 parameters:
// 1. index as a number, starting at 0
// 2. kind as a string (Begin, Identifier, Number, ...)
// 3. text of an identifier, or nil
// 4. value of a number, or nil
// and returns the line to print as a string.
// Note that user can have access to JSON helper using `local json = require("json")`
type LuaPrinter struct {
	cfg LuaPrinterConfig

	mu    sync.Mutex
	state *lua.LState
}

func NewLuaPrinter(cfg LuaPrinterConfig) (*LuaPrinter, error) {
	if cfg.ScriptPath == "" {
		return nil, errors.New("lua printer requires script-path")
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // Don't load anything by default
	})

	// We skip 'os' and 'io' so that formatting scripts cannot touch the system
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},  // Allows 'require'
		{lua.BaseLibName, lua.OpenBase},     // Allows 'print', 'pairs', etc.
		{lua.TabLibName, lua.OpenTable},     // Allows 'table.insert', etc.
		{lua.StringLibName, lua.OpenString}, // Allows string manipulation
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// local json = require("json")
	luajson.Preload(L)

	if err := L.DoFile(cfg.ScriptPath); err != nil {
		L.Close()
		return nil, fmt.Errorf("cannot load lua script: %w", err)
	}

	if _, ok := L.GetGlobal("format_token").(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("lua script %s does not define function `format_token`", cfg.ScriptPath)
	}

	return &LuaPrinter{cfg: cfg, state: L}, nil
}

func (p *LuaPrinter) Print(w io.Writer, tokens []token.Token) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for idx, tok := range tokens {
		line, err := p.formatToken(idx, tok)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (p *LuaPrinter) formatToken(idx int, tok token.Token) (string, error) {
	var text, value lua.LValue = lua.LNil, lua.LNil
	switch tok.Type {
	case token.IDENT:
		text = lua.LString(tok.Literal)
	case token.NUMBER:
		value = lua.LNumber(tok.Value)
	}

	err := p.state.CallByParam(lua.P{
		Fn:      p.state.GetGlobal("format_token"),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(idx), lua.LString(tok.Type.String()), text, value)
	if err != nil {
		return "", fmt.Errorf("lua script error: %w", err)
	}

	line := p.state.ToString(-1)
	p.state.Pop(1)

	return line, nil
}

func (p *LuaPrinter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Close()
	return nil
}
