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

package syntax

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	maxSrcLen   = 0x7FFFFFFF // (2**31)-1
	maxTokenLen = int(math.MaxUint16)
)

type Token struct {
	Len  uint16
	Kind TokenKind
}

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE
	T_NEWLINE
	T_COMMENT
	T_SECTION

	T_BANG
	T_COLON
	T_COMMA
	T_DOT
	T_EQ
	T_HASH
	T_PERCENT
	T_QUESTION
	T_SEMICOLON
	T_STAR

	T_LT
	T_GT
	T_OPEN_CURL
	T_CLOSE_CURL
	T_OPEN_PAREN
	T_CLOSE_PAREN
	T_OPEN_SQUARE
	T_CLOSE_SQUARE

	T_WORD
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_SPACE:
		return "SPACE"
	case T_NEWLINE:
		return "NEWLINE"
	case T_COMMENT:
		return "COMMENT"
	case T_SECTION:
		return "SECTION"
	case T_BANG:
		return "BANG"
	case T_COLON:
		return "COLON"
	case T_COMMA:
		return "COMMA"
	case T_DOT:
		return "DOT"
	case T_EQ:
		return "EQ"
	case T_HASH:
		return "HASH"
	case T_PERCENT:
		return "PERCENT"
	case T_QUESTION:
		return "QUESTION"
	case T_SEMICOLON:
		return "SEMICOLON"
	case T_STAR:
		return "STAR"
	case T_LT:
		return "LT"
	case T_GT:
		return "GT"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_OPEN_PAREN:
		return "OPEN_PAREN"
	case T_CLOSE_PAREN:
		return "CLOSE_PAREN"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_WORD:
		return "WORD"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (*Tokens, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	return &Tokens{
		src: src,
	}, nil
}

// Offset returns the byte offset of the next token.
func (t *Tokens) Offset() uint32 {
	return t.offset
}

func (t *Tokens) Next(token *Token) error {
	if len(t.src) == 0 {
		*token = Token{
			Kind: T_EOF,
		}
		return nil
	}

	c := t.src[0]
	var kind TokenKind
	switch c {
	case '\t', ' ':
		return t.nextSpace(token)
	case '\n':
		kind = T_NEWLINE
		goto len1
	case '!':
		kind = T_BANG
		goto len1
	case ':':
		kind = T_COLON
		goto len1
	case ',':
		kind = T_COMMA
		goto len1
	case '.':
		kind = T_DOT
		goto len1
	case '=':
		kind = T_EQ
		goto len1
	case '#':
		kind = T_HASH
		goto len1
	case '%':
		kind = T_PERCENT
		goto len1
	case '?':
		kind = T_QUESTION
		goto len1
	case ';':
		kind = T_SEMICOLON
		goto len1
	case '*':
		kind = T_STAR
		goto len1
	case '<':
		kind = T_LT
		goto len1
	case '>':
		kind = T_GT
		goto len1
	case '{':
		kind = T_OPEN_CURL
		goto len1
	case '}':
		kind = T_CLOSE_CURL
		goto len1
	case '(':
		kind = T_OPEN_PAREN
		goto len1
	case ')':
		kind = T_CLOSE_PAREN
		goto len1
	case '[':
		kind = T_OPEN_SQUARE
		goto len1
	case ']':
		kind = T_CLOSE_SQUARE
		goto len1
	case '/':
		if len(t.src) < 2 || t.src[1] != '/' {
			return errUnexpectedCharacter(t.offset, '/')
		}
		return t.nextComment(token)
	case '-':
		return t.nextSection(token)
	case '\r':
		if len(t.src) < 2 || t.src[1] != '\n' {
			return errForbiddenControlCharacter(t.offset, c)
		}
		*token = Token{
			Kind: T_NEWLINE,
			Len:  2,
		}
		t.offset += 2
		t.src = t.src[2:]
		return nil
	default:
		goto big
	}

len1:
	*token = Token{
		Kind: kind,
		Len:  1,
	}
	t.offset += 1
	t.src = t.src[1:]
	return nil

big:
	if isWordByte(c) {
		return t.nextWord(token)
	}

	r, _ := utf8.DecodeRune(t.src)
	if r < 0x20 || r == 0x7F {
		return errForbiddenControlCharacter(t.offset, c)
	}
	return errUnexpectedCharacter(t.offset, r)
}

func isWordByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}

func (t *Tokens) nextSpace(token *Token) error {
	src := t.src
	for len(src) > 0 && (src[0] == ' ' || src[0] == '\t') {
		src = src[1:]
	}
	return t.emit(token, T_SPACE, len(t.src)-len(src))
}

func (t *Tokens) nextComment(token *Token) error {
	tokenLen := len(t.src)
	for ii, c := range t.src {
		if c == '\n' || c == '\r' {
			tokenLen = ii
			break
		}
	}
	return t.emit(token, T_COMMENT, tokenLen)
}

// nextSection reads a section marker such as "---functions---".
func (t *Tokens) nextSection(token *Token) error {
	src := t.src
	if len(src) < 3 || string(src[:3]) != "---" {
		return errUnexpectedCharacter(t.offset, '-')
	}
	tokenLen := 3
	for tokenLen < len(src) && isWordByte(src[tokenLen]) {
		tokenLen++
	}
	if tokenLen == 3 || len(src) < tokenLen+3 || string(src[tokenLen:tokenLen+3]) != "---" {
		return errSectionInvalid(t.offset, src[:tokenLen])
	}
	return t.emit(token, T_SECTION, tokenLen+3)
}

func (t *Tokens) nextWord(token *Token) error {
	tokenLen := len(t.src)
	for ii, c := range t.src {
		if !isWordByte(c) {
			tokenLen = ii
			break
		}
	}
	return t.emit(token, T_WORD, tokenLen)
}

func (t *Tokens) emit(token *Token, kind TokenKind, tokenLen int) error {
	if tokenLen > maxTokenLen {
		return errTokenTooLong(t.offset, tokenLen)
	}
	*token = Token{
		Kind: kind,
		Len:  uint16(tokenLen),
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}
