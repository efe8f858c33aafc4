// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package syntax parses TL schema source into combinator declarations.
//
// TL sources are line-oriented. Each line is a section marker
// ("---types---", "---functions---"), the layer comment ("// LAYER 158"),
// or a declaration:
//
//	messages.chats#64ff9fd5 chats:Vector<Chat> = messages.Chats;
//
// Lines of any other shape are skipped.
package syntax

import (
	"bytes"
	"hash/crc32"
	"strconv"
	"strings"
	"unicode/utf8"
)

type ParseOption interface {
	apply(*ParseOptions)
}

func Parse(src []uint8, opts ...ParseOption) (*Schema, error) {
	return NewParseOptions(opts...).ParseSchema(src)
}

type ParseOptions struct {
	strict bool
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOpts := &ParseOptions{}
	for _, opt := range opts {
		opt.apply(parseOpts)
	}
	return parseOpts
}

type strictOpt bool

func (opt strictOpt) apply(opts *ParseOptions) {
	opts.strict = bool(opt)
}

// WithStrict makes malformed declaration lines fatal. By default they are
// skipped and reported in [Schema.Warnings].
func WithStrict(strict bool) ParseOption {
	return strictOpt(strict)
}

func (opts *ParseOptions) ParseSchema(src []uint8) (*Schema, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	p := &schemaParser{
		opts:    opts,
		schema:  &Schema{},
		section: SectionTypes,
	}
	var offset uint32
	for len(src) > 0 {
		lineLen := bytes.IndexByte(src, '\n')
		next := lineLen + 1
		if lineLen < 0 {
			lineLen = len(src)
			next = lineLen
		}
		line := bytes.TrimSuffix(src[:lineLen], []byte{'\r'})
		if err := p.parseLine(line, offset); err != nil {
			return nil, err
		}
		src = src[next:]
		offset += uint32(next)
	}
	return p.schema, nil
}

type schemaParser struct {
	opts    *ParseOptions
	schema  *Schema
	section Section
}

type lexed struct {
	kind TokenKind
	text []byte
	span Span
}

func lexLine(line []byte, offset uint32) ([]lexed, error) {
	tokens := &Tokens{
		src:    line,
		offset: offset,
	}
	var out []lexed
	for {
		start := tokens.Offset()
		var token Token
		if err := tokens.Next(&token); err != nil {
			return nil, err
		}
		if token.Kind == T_EOF {
			return out, nil
		}
		rel := start - offset
		out = append(out, lexed{
			kind: token.Kind,
			text: line[rel : rel+uint32(token.Len)],
			span: Span{start, uint32(token.Len)},
		})
	}
}

func (p *schemaParser) parseLine(line []byte, offset uint32) error {
	lineSpan := Span{offset, uint32(len(line))}
	tokens, err := lexLine(line, offset)
	if err != nil {
		return p.malformed(line, nil, err.(*Error))
	}

	var comment *lexed
	if n := len(tokens); n > 0 && tokens[n-1].kind == T_COMMENT {
		comment = &tokens[n-1]
		tokens = tokens[:n-1]
	}
	tokens = trimSpaces(tokens)
	if len(tokens) == 0 {
		if comment != nil {
			return p.parseComment(comment)
		}
		return nil
	}

	if tokens[0].kind == T_SECTION {
		p.section = sectionByName(string(tokens[0].text[3 : len(tokens[0].text)-3]))
		return nil
	}
	if p.section == sectionUnknown {
		return nil
	}

	lp := &lineParser{
		tokens: tokens,
		line:   lineSpan,
	}
	comb, perr := lp.parseCombinator(p.section)
	if perr != nil {
		return p.malformed(line, tokens, perr)
	}
	p.schema.Combinators = append(p.schema.Combinators, comb)
	return nil
}

// malformed applies the strictness policy to a line that failed to parse.
func (p *schemaParser) malformed(line []byte, tokens []lexed, err *Error) error {
	if isBuiltinPseudo(tokens) {
		return nil
	}
	if !looksLikeDeclaration(line) {
		return nil
	}
	if p.opts.strict {
		return err
	}
	p.schema.Warnings = append(p.schema.Warnings, warnDeclarationSkipped(err))
	return nil
}

func (p *schemaParser) parseComment(comment *lexed) error {
	fields := strings.Fields(string(comment.text[2:]))
	if len(fields) == 0 || fields[0] != "LAYER" {
		return nil
	}
	if p.schema.HasLayer {
		return errLayerDuplicate(comment.span, p.schema.Layer)
	}
	if len(fields) != 2 {
		return errLayerInvalid(comment.span, comment.text)
	}
	layer, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil || layer < 0 {
		return errLayerInvalid(comment.span, []byte(fields[1]))
	}
	p.schema.Layer = int32(layer)
	p.schema.HasLayer = true
	return nil
}

func sectionByName(name string) Section {
	switch name {
	case "types":
		return SectionTypes
	case "functions":
		return SectionFunctions
	}
	return sectionUnknown
}

func looksLikeDeclaration(line []byte) bool {
	return bytes.IndexByte(line, '#') >= 0 && bytes.IndexByte(line, '=') >= 0
}

// isBuiltinPseudo matches the declarations of core types that some schema
// files carry for documentation, e.g. "int ? = Int;".
func isBuiltinPseudo(tokens []lexed) bool {
	tokens = trimSpaces(tokens)
	if len(tokens) == 0 || tokens[0].kind != T_WORD {
		return false
	}
	switch string(tokens[0].text) {
	case "int", "long", "double", "string", "bytes",
		"int128", "int256", "vector", "Vector":
		return true
	}
	return false
}

func trimSpaces(tokens []lexed) []lexed {
	for len(tokens) > 0 && tokens[0].kind == T_SPACE {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].kind == T_SPACE {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

type lineParser struct {
	tokens []lexed
	pos    int
	line   Span
}

func (lp *lineParser) peek() (lexed, bool) {
	if lp.pos >= len(lp.tokens) {
		return lexed{}, false
	}
	return lp.tokens[lp.pos], true
}

func (lp *lineParser) skipSpace() {
	for lp.pos < len(lp.tokens) && lp.tokens[lp.pos].kind == T_SPACE {
		lp.pos++
	}
}

func (lp *lineParser) eolSpan() Span {
	return Span{lp.line.End(), 0}
}

func (lp *lineParser) expect(kind TokenKind, want string) (lexed, *Error) {
	tok, ok := lp.peek()
	if !ok {
		return tok, errUnexpectedEOL(lp.eolSpan(), want)
	}
	if tok.kind != kind {
		return tok, errUnexpectedToken(tok.span, tok.text, want)
	}
	lp.pos++
	return tok, nil
}

func (lp *lineParser) parseCombinator(section Section) (*Combinator, *Error) {
	comb := &Combinator{
		Section: section,
		span:    lp.line,
	}

	name, err := lp.expect(T_WORD, "combinator name")
	if err != nil {
		return nil, err
	}
	comb.Name = string(name.text)
	if tok, ok := lp.peek(); ok && tok.kind == T_DOT {
		lp.pos++
		name, err := lp.expect(T_WORD, "combinator name")
		if err != nil {
			return nil, err
		}
		comb.Namespace = comb.Name
		comb.Name = string(name.text)
	}

	if tok, ok := lp.peek(); ok && tok.kind == T_HASH {
		lp.pos++
		hex, err := lp.expect(T_WORD, "combinator id")
		if err != nil {
			return nil, err
		}
		id, parseErr := strconv.ParseUint(string(hex.text), 16, 32)
		if parseErr != nil || len(hex.text) > 8 {
			return nil, errCombinatorIDInvalid(hex.span, hex.text)
		}
		comb.ID = uint32(id)
		comb.ExplicitID = true
	}

	for {
		lp.skipSpace()
		tok, ok := lp.peek()
		if !ok {
			return nil, errUnexpectedEOL(lp.eolSpan(), "'='")
		}
		if tok.kind == T_EQ {
			lp.pos++
			break
		}
		switch tok.kind {
		case T_OPEN_CURL:
			param, err := lp.parseParam()
			if err != nil {
				return nil, err
			}
			comb.Params = append(comb.Params, param)
		case T_WORD:
			arg, err := lp.parseArg()
			if err != nil {
				return nil, err
			}
			comb.Args = append(comb.Args, arg)
		default:
			return nil, errUnexpectedToken(tok.span, tok.text, "argument")
		}
	}

	result, err := lp.parseResult()
	if err != nil {
		return nil, err
	}
	comb.Result = result

	if !comb.ExplicitID {
		comb.ID = crc32.ChecksumIEEE([]byte(normalizeForID(comb)))
	}
	return comb, nil
}

func (lp *lineParser) parseParam() (Param, *Error) {
	lp.pos++
	name, err := lp.expect(T_WORD, "parameter name")
	if err != nil {
		return Param{}, err
	}
	if _, err := lp.expect(T_COLON, "':'"); err != nil {
		return Param{}, err
	}
	ty, err := lp.expect(T_WORD, "parameter type")
	if err != nil {
		return Param{}, err
	}
	if _, err := lp.expect(T_CLOSE_CURL, "'}'"); err != nil {
		return Param{}, err
	}
	return Param{
		Name: string(name.text),
		Type: string(ty.text),
	}, nil
}

func (lp *lineParser) parseArg() (Arg, *Error) {
	name := lp.tokens[lp.pos]
	lp.pos++
	if _, err := lp.expect(T_COLON, "':'"); err != nil {
		return Arg{}, err
	}
	start := lp.pos
	depth := 0
loop:
	for lp.pos < len(lp.tokens) {
		tok := lp.tokens[lp.pos]
		switch tok.kind {
		case T_SPACE, T_EQ, T_SEMICOLON:
			break loop
		case T_WORD, T_DOT, T_HASH, T_QUESTION, T_BANG, T_PERCENT:
		case T_LT:
			depth++
		case T_GT:
			depth--
			if depth < 0 {
				return Arg{}, errUnexpectedToken(tok.span, tok.text, "type")
			}
		default:
			return Arg{}, errUnexpectedToken(tok.span, tok.text, "type")
		}
		lp.pos++
	}
	if lp.pos == start {
		if tok, ok := lp.peek(); ok {
			return Arg{}, errUnexpectedToken(tok.span, tok.text, "type")
		}
		return Arg{}, errUnexpectedEOL(lp.eolSpan(), "type")
	}
	if depth != 0 {
		last := lp.tokens[lp.pos-1]
		return Arg{}, errUnexpectedToken(last.span, last.text, "'>'")
	}
	var ty strings.Builder
	for _, tok := range lp.tokens[start:lp.pos] {
		ty.Write(tok.text)
	}
	last := lp.tokens[lp.pos-1]
	return Arg{
		Name:    FieldName(string(name.text)),
		RawName: string(name.text),
		Type:    ty.String(),
		span:    Span{name.span.start, last.span.End() - name.span.start},
	}, nil
}

func (lp *lineParser) parseResult() (string, *Error) {
	lp.skipSpace()
	var result strings.Builder
	space := false
	for {
		tok, ok := lp.peek()
		if !ok {
			return "", errUnexpectedEOL(lp.eolSpan(), "';'")
		}
		lp.pos++
		switch tok.kind {
		case T_SEMICOLON:
			if result.Len() == 0 {
				return "", errUnexpectedToken(tok.span, tok.text, "result type")
			}
			lp.skipSpace()
			if extra, ok := lp.peek(); ok {
				return "", errUnexpectedToken(extra.span, extra.text, "end of line")
			}
			return result.String(), nil
		case T_SPACE:
			space = true
		case T_WORD, T_DOT, T_LT, T_GT, T_BANG, T_PERCENT:
			if space && result.Len() > 0 {
				result.WriteByte(' ')
			}
			space = false
			result.Write(tok.text)
		default:
			return "", errUnexpectedToken(tok.span, tok.text, "result type")
		}
	}
}

// normalizeForID renders the declaration the way TL derives implicit
// combinator ids from it.
func normalizeForID(comb *Combinator) string {
	var buf strings.Builder
	buf.WriteString(comb.QualifiedName())
	for _, param := range comb.Params {
		buf.WriteString(" {" + param.Name + ":" + param.Type + "}")
	}
	for _, arg := range comb.Args {
		buf.WriteString(" " + arg.RawName + ":" + arg.Type)
	}
	buf.WriteString(" = " + comb.Result)
	normalized := strings.NewReplacer("<", " ", ">", "").Replace(buf.String())
	return strings.Join(strings.Fields(normalized), " ")
}
