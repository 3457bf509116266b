//go:build cgo && treesitter

package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ts2swift/ts/ast"
)

// outline prints the parts of a file the converter reads, one line per
// statement, member or binding
func outline(file *ast.SourceFile) []string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	for _, stmt := range file.Statements {
		switch s := stmt.(type) {
		case *ast.EnumDeclaration:
			add("enum %s const=%v %+v line=%d", s.Name, s.Const, s.Modifiers, s.Range.Start.Line)
			for _, m := range s.Members {
				if m.Initializer == nil {
					add("  %s quoted=%v", m.Name, m.QuotedName)
					continue
				}
				add("  %s quoted=%v = %d %s %q", m.Name, m.QuotedName, m.Initializer.Kind, m.Initializer.Text, m.Initializer.Value)
			}
		case *ast.InterfaceDeclaration:
			var bases []string
			for _, b := range s.Extends {
				bases = append(bases, ast.TypeString(b))
			}
			add("interface %s<%s> extends %s %+v line=%d", s.Name, strings.Join(s.TypeParameters, ","),
				strings.Join(bases, ","), s.Modifiers, s.Range.Start.Line)
			for _, m := range s.Members {
				typ := "-"
				if m.Type != nil {
					typ = ast.TypeString(m.Type)
				}
				add("  %s quoted=%v optional=%v readonly=%v: %s", m.Name, m.QuotedName, m.Optional, m.Readonly, typ)
			}
		case *ast.TypeAliasDeclaration:
			add("type %s<%s> = %s %+v", s.Name, strings.Join(s.TypeParameters, ","), ast.TypeString(s.Type), s.Modifiers)
		case *ast.ImportDeclaration:
			add("import type=%v default=%q ns=%q %+v from %q", s.TypeOnly, s.Default, s.Namespace, s.Specifiers, s.ModuleSpecifier)
		case *ast.ExportDeclaration:
			add("export type=%v all=%v ns=%q %+v from %q", s.TypeOnly, s.All, s.Namespace, s.Specifiers, s.ModuleSpecifier)
		case *ast.UnsupportedStatement:
			add("skip")
		}
	}
	return lines
}

func TestTreeSitterMatchesNative(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"enums", `
export enum Model { STANDARD = "standard", PREMIUM = 'premium' }
export const enum Level { Low = 1, High = -2, Mid }
declare enum Flags { "quoted-name" = 4 }
enum Template { A = ` + "`a`" + ` }
`},
		{"interfaces", `
/** A translation request. */
export interface Request<T, U extends string = string> extends Base, Other<T> {
  readonly id: string;
  text?: string
  "content-type": "json" | "xml";
  count: number[];
  nested: { a: boolean; b?: null };
  map(x: T): U;
  [key: string]: unknown;
}
`},
		{"aliases", `
type Status = "ok" | "error" | -1 | true;
export type Pair<K, V> = [K, V];
type Names = ReadonlyArray<string>;
type Ref = Outer.Inner;
type Keys = keyof Request;
type Field = Request["id"];
type Grouped = (string | number)[];
type Frozen = readonly string[];
type Both = A & B;
type Maybe = string | undefined | null;
`},
		{"imports and exports", `
import { A, type B, C as D } from "./types";
import * as ns from "./ns";
import Default, { E } from "./default";
import type { F } from "./f";
import "./side-effect";
export { A, D as Renamed };
export { G } from "./g";
export * from "./all";
export * as grouped from "./grouped";
export type { H } from "./h";
`},
		{"skipped statements", `
export function f(): void {}
export class K { x = 1 }
const v = { a: 1 };
interface After { a: string }
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native, err := Parse("test.ts", tt.src)
			require.NoError(t, err)
			sitter, err := ParseWith(BackendTreeSitter, "test.ts", tt.src)
			require.NoError(t, err)
			assert.Equal(t, outline(native), outline(sitter))
		})
	}
}

func TestTreeSitterErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
		kind    ErrorKind
	}{
		{"unterminated string", `enum A { B = "b }`, "unterminated string literal", ErrorKindLexical},
		{"computed enum member", `enum A { ["b"] = 1 }`, "computed enum member names are not supported", ErrorKindSyntax},
		{"broken interface", "interface A { b: }", "", ErrorKindSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWith(BackendTreeSitter, "test.ts", tt.src)
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.kind, perr.Kind)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
