package render

import "github.com/iancoleman/strcase"

// toPascal, toSnake and toKebab back the pascal_case/snake_case/kebab_case
// template helpers and the component-model target's kebab-case naming
// convention (spec.md 4J: "target C ... kebab-case names").
func toPascal(s string) string { return strcase.ToCamel(s) }
func toSnake(s string) string  { return strcase.ToSnake(s) }
func toKebab(s string) string  { return strcase.ToKebab(s) }
func toUpper(s string) string  { return strcase.ToScreamingSnake(s) }
func toLower(s string) string  { return strcase.ToSnake(s) }
