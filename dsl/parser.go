// Package dsl 解析场景描述文件。
//
//	scene Lingnan v1 {
//	  meta { title: "..." keywords: ["骑楼", "醒狮"] }
//	  resources { font Body { family: "SimHei" size: 11 } }
//	  canvas 1800 1000 zoom 2 { qilou at -800 -300 columns 3 floors 2 }
//	}
//
// 命令的参数保留为原始记号，由 scene 包按命令解释。
package dsl

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sceneLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		// 颜色整段取完再由 turtle.ParseColor 校验位数；"# " 开头的是注释。
		{Name: "Color", Pattern: `#[0-9A-Fa-f]{3,8}\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|px|%|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	symbols    = sceneLexer.Symbols()
	tokenNames = func() map[lexer.TokenType]string {
		names := make(map[lexer.TokenType]string, len(symbols))
		for name, tt := range symbols {
			names[tt] = name
		}
		return names
	}()

	sceneParser = participle.MustBuild[Document](
		participle.Lexer(sceneLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.Unquote("String"),
		participle.UseLookahead(4),
	)
)

// Document 是场景文件的根节点。
type Document struct {
	Name     string     `parser:"Newline* 'scene' @Ident"`
	Version  string     `parser:"@Ident"`
	Sections []*Section `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是顶层段落之一。
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Canvas    *CanvasSection    `parser:"| @@"`
}

// Kind 返回段落名称。
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Canvas != nil:
		return "canvas"
	default:
		return "unknown"
	}
}

type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

type ResourcesSection struct {
	Block *Block `parser:"'resources' @@"`
}

// CanvasSection 的头部参数如 "1800 1000 zoom 2 background white"。
type CanvasSection struct {
	Params []*Token `parser:"'canvas' @@*"`
	Block  *Block   `parser:"@@"`
}

// Block 是花括号包围的语句列表，语句以换行或分号分隔。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是赋值、命令或一段文本之一。
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment 形如 key: value。
type Assignment struct {
	Key   string `parser:"@Ident ':' Newline*"`
	Value *Value `parser:"@@"`
}

// Command 是一条命令：名称、参数记号和可选的语句块。
type Command struct {
	Pos   lexer.Position `parser:""`
	Name  string         `parser:"@Ident"`
	Args  []*Token       `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral 是块中单独成行的字符串。
type TextLiteral struct {
	Value string `parser:"@String"`
}

// Value 是赋值右侧的值。List 可跨行书写，元素以逗号或换行分隔。
type Value struct {
	String *string  `parser:"  @String"`
	Number *string  `parser:"| @Number"`
	Color  *string  `parser:"| @Color"`
	Ident  *string  `parser:"| @Ident"`
	List   []*Value `parser:"| '[' Newline* ( @@ ( ( ',' | Newline ) Newline* @@ )* )? ','? Newline* ']'"`
}

// Token 是命令参数中的一个记号。字符串已去掉引号。
type Token struct {
	Type  string
	Value string
	Pos   lexer.Position
}

// Parse 让 Token 作为语法原子：换行、花括号或分号结束参数列表。
func (t *Token) Parse(lex *lexer.PeekingLexer) error {
	next := lex.Peek()
	if next.EOF() {
		return participle.NextMatch
	}
	switch tokenNames[next.Type] {
	case "Newline", "LBrace", "RBrace":
		return participle.NextMatch
	case "Symbol":
		if next.Value == ";" {
			return participle.NextMatch
		}
	}
	tok := lex.Next()
	*t = Token{Type: tokenNames[tok.Type], Value: tok.Value, Pos: tok.Pos}
	return nil
}

func (t *Token) String() string { return fmt.Sprintf("%s(%q)", t.Type, t.Value) }

// Parse 从 r 读取并解析场景描述。
func Parse(r io.Reader) (*Document, error) {
	return sceneParser.Parse("", r)
}

// ParseString 解析字符串形式的场景描述。
func ParseString(input string) (*Document, error) {
	return sceneParser.ParseString("", input)
}
