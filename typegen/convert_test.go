package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ts2swift/ts/ast"
	"github.com/teranos/ts2swift/ts/checker"
)

// recordingGenerator names each declaration it is asked to generate
type recordingGenerator struct{}

func (recordingGenerator) Language() string      { return "test" }
func (recordingGenerator) FileExtension() string { return "txt" }

func (recordingGenerator) GenerateEnum(decl *ast.EnumDeclaration) string {
	return "enum " + decl.Name
}

func (recordingGenerator) GenerateStruct(decl *ast.InterfaceDeclaration, _ *ast.SourceFile, _ *checker.Checker) string {
	return "struct " + decl.Name
}

func convertSource(t *testing.T, src string) *Result {
	t.Helper()
	prog, err := checker.NewProgram("input.ts", checker.NewMapHost(map[string]string{"input.ts": src}), checker.Options{})
	require.NoError(t, err)
	return ConvertProgram(prog, recordingGenerator{})
}

func TestConvertFileOrderAndSeparators(t *testing.T) {
	result := convertSource(t, `
import { X } from "./x";
export interface B { b: string }
function helper(): void {}
export enum A { One }
class Widget {}
type Alias = string;
const value = 1;
namespace NS { export interface Hidden {} }
export default interface C {}
declare const enum D {}
`)

	assert.Equal(t, "struct B\n\nenum A\n\nstruct C\n\nenum D\n", result.Content)
	require.Len(t, result.Declarations, 4)
	assert.Equal(t, Declaration{Name: "B", Kind: DeclarationStruct, Position: Position{File: "input.ts", Line: 3}}, result.Declarations[0])
	assert.Equal(t, "A", result.Declarations[1].Name)
	assert.Equal(t, 5, result.Declarations[1].Position.Line)
	assert.Equal(t, 2, result.Count(DeclarationEnum))
	assert.Equal(t, 2, result.Count(DeclarationStruct))
}

func TestConvertFileDeclarationsAfterSkippedBlocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"function", "function f() {} interface Out { n: string }", "struct Out\n"},
		{"class", `class K {} enum E { A = "a" }`, "enum E\n"},
		{"namespace", "namespace N { export interface Inner { a: string } } interface Out { n: string }", "struct Out\n"},
		{"one line file", "export function f() {} export enum A { X } class C {} export interface B {}", "enum A\n\nstruct B\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertSource(t, tt.src).Content)
		})
	}
}

func TestConvertFileNothingToConvert(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"functions only", "export function f(a: string): number { return 1 }"},
		{"aliases only", "type A = string;\ntype B = A[];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertSource(t, tt.src)
			assert.Empty(t, result.Content)
			assert.Empty(t, result.Declarations)
		})
	}
}

func TestConvertFileSingleBlock(t *testing.T) {
	prog, err := checker.NewProgram("one.ts", checker.NewMapHost(map[string]string{"one.ts": "enum Only {}"}), checker.Options{})
	require.NoError(t, err)
	assert.Equal(t, "enum Only\n", ConvertFile(prog.Root(), prog.Checker(), recordingGenerator{}))
}
