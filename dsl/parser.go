package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|dp|sp|pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Symbol", Pattern: `[-=;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(2),
	)
)

// Document is the root AST node for a theme file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'theme' @Ident"`
	Version string         `parser:"@Ident"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Entry is one top-level declaration.
type Entry struct {
	Meta       *MetaDecl       `parser:"  @@"`
	Font       *FontDecl       `parser:"| @@"`
	Color      *ColorDecl      `parser:"| @@"`
	Colors     *ColorListDecl  `parser:"| @@"`
	Appearance *AppearanceDecl `parser:"| @@"`
}

// Kind returns the human-readable declaration type.
func (e *Entry) Kind() string {
	switch {
	case e == nil:
		return "unknown"
	case e.Meta != nil:
		return "meta"
	case e.Font != nil:
		return "font"
	case e.Color != nil:
		return "color"
	case e.Colors != nil:
		return "colors"
	case e.Appearance != nil:
		return "appearance"
	default:
		return "unknown"
	}
}

// MetaDecl captures theme-wide settings such as density.
type MetaDecl struct {
	Block *Block `parser:"'meta' @@"`
}

// FontDecl registers a font source for a family.
type FontDecl struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Family string         `parser:"'font' @Ident"`
	Block  *Block         `parser:"@@"`
}

// ColorDecl names a single color: `color Accent = #0F62FE`.
type ColorDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'color' @Ident"`
	Value string         `parser:"'=' @Color"`
}

// ColorListDecl declares a state-dependent color list; items match in order.
type ColorListDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'colors' @Ident"`
	Items []*StateItem   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// StateItem is `pressed -focused: #F00`; a lone `default` selector matches any state.
type StateItem struct {
	Pos    lexer.Position `parser:"" json:"-"`
	States []*StateRef    `parser:"@@+"`
	Value  *Value         `parser:"':' @@"`
}

// IsDefault reports whether the item is the unconditional `default` entry.
func (s *StateItem) IsDefault() bool {
	return len(s.States) == 1 && !s.States[0].Not && s.States[0].Name == "default"
}

// StateRef is a state name, negated with a leading '-'.
type StateRef struct {
	Not  bool   `parser:"@'-'?"`
	Name string `parser:"@Ident"`
}

// AppearanceDecl declares a text appearance, optionally inheriting from a base.
type AppearanceDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'appearance' @Ident"`
	Base  string         `parser:"( ':' @Ident )?"`
	Block *Block         `parser:"@@"`
}

// Block is a delimited list of assignments.
type Block struct {
	Assignments []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value represents generic property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the value as written, without quotes.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses theme content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses theme content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
