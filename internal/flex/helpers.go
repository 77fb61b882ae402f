package flex

import (
	"regexp"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// RegisterHelpers exposes string helpers for tag clean-up as globals
func RegisterHelpers(L *lua.LState) {
	L.SetGlobal("trim", L.NewFunction(luaTrim))
	L.SetGlobal("lower", L.NewFunction(luaLower))
	L.SetGlobal("upper", L.NewFunction(luaUpper))
	L.SetGlobal("clean_spaces", L.NewFunction(luaCleanSpaces))
	L.SetGlobal("title_case", L.NewFunction(luaTitleCase))
}

func luaTrim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}

func luaLower(L *lua.LState) int {
	L.Push(lua.LString(strings.ToLower(L.CheckString(1))))
	return 1
}

func luaUpper(L *lua.LState) int {
	L.Push(lua.LString(strings.ToUpper(L.CheckString(1))))
	return 1
}

// luaCleanSpaces collapses runs of whitespace and trims
func luaCleanSpaces(L *lua.LState) int {
	s := whitespaceRegex.ReplaceAllString(L.CheckString(1), " ")
	L.Push(lua.LString(strings.TrimSpace(s)))
	return 1
}

// luaTitleCase upper-cases the first letter of every word
func luaTitleCase(L *lua.LState) int {
	words := strings.Fields(L.CheckString(1))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	L.Push(lua.LString(strings.Join(words, " ")))
	return 1
}
