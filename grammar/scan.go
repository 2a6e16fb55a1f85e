package grammar

/*
BSD License

Copyright (c) 2019–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */

import (
	"fmt"
	"sync"

	"github.com/npillmayer/bearsolve"
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token categories
const (
	NumberTok int = iota + 1
	NameTok
	StringTok
	KeywordTok
	OperatorTok
	DelimiterTok
)

var tokenNames = map[int]string{
	NumberTok:    "NUMBER",
	NameTok:      "NAME",
	StringTok:    "STRING",
	KeywordTok:   "KEYWORD",
	OperatorTok:  "OPERATOR",
	DelimiterTok: "DELIMITER",
}

// TokenName returns a readable name for a token category.
func TokenName(t int) string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// The reserved words. Most of them introduce constructs which are
// recognized only to be rejected.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true,
	"True": true, "False": true, "None": true,
	"lambda": true, "if": true, "else": true,
	"in": true, "is": true, "for": true,
}

// Operators, longest first. lexmachine prefers the longest match anyway.
var operators = []string{
	`\*\*`, `//`, `<<`, `>>`, `<=`, `>=`, `==`, `!=`, `<>`, `:=`,
	`\+`, `-`, `\*`, `/`, `%`, `@`, `~`, `&`, `\|`, `\^`, `<`, `>`, `=`,
}

var delimiters = []string{
	`\(`, `\)`, `\[`, `\]`, `\{`, `\}`, `,`, `:`, `\.`, `;`,
}

var lexer *lexmachine.Lexer
var lexerErr error
var lexerOnce sync.Once // monitors one-time initialization

// theLexer returns the compiled lexer, creating it on first use.
func theLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lexer, lexerErr = newLexer()
	})
	return lexer, lexerErr
}

func newLexer() (*lexmachine.Lexer, error) {
	lx := lexmachine.NewLexer()
	lx.Add([]byte(`( |\t|\r|\n)+`), skip)
	lx.Add([]byte(`[0-9]+(\.[0-9]*)?([eE][\+\-]?[0-9]+)?`), makeToken(NumberTok))
	lx.Add([]byte(`\.[0-9]+([eE][\+\-]?[0-9]+)?`), makeToken(NumberTok))
	lx.Add([]byte(`"[^"]*"`), makeToken(StringTok))
	lx.Add([]byte(`'[^']*'`), makeToken(StringTok))
	lx.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), makeName())
	for _, op := range operators {
		lx.Add([]byte(op), makeToken(OperatorTok))
	}
	for _, d := range delimiters {
		lx.Add([]byte(d), makeToken(DelimiterTok))
	}
	if err := lx.Compile(); err != nil {
		return nil, errors.Wrap(err, "cannot compile expression lexer")
	}
	return lx, nil
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

func makeName() lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		lexeme := string(m.Bytes)
		if keywords[lexeme] {
			return s.Token(KeywordTok, lexeme, m), nil
		}
		return s.Token(NameTok, lexeme, m), nil
	}
}

// tokenize splits input into tokens. Input the lexer cannot consume is
// reported as an unsupported construct of kind "Token".
func tokenize(input string) ([]*lexmachine.Token, error) {
	lx, err := theLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lx.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	var tokens []*lexmachine.Token
	for tok, err, eos := scanner.Next(); !eos; tok, err, eos = scanner.Next() {
		if ui, is := err.(*machines.UnconsumedInput); is {
			text := input[ui.StartTC:]
			if r := []rune(text); len(r) > 8 {
				text = string(r[:8]) + "…"
			}
			return nil, &bearsolve.UnsupportedConstruct{Kind: "Token", Text: text, Pos: ui.StartTC}
		} else if err != nil {
			return nil, err
		}
		t := tok.(*lexmachine.Token)
		tracer().P("tok", TokenName(t.Type)).Debugf("%q @%d", t.Value, t.TC)
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func lexeme(t *lexmachine.Token) string {
	if t == nil {
		return "end of input"
	}
	return t.Value.(string)
}
