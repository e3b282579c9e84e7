// Package fuzztests houses Go fuzz harnesses for the front half of capfmt
// (source -> lexer -> call scanner) and for the format-string core
// (fmtstr -> binding -> rewrite). They guard against panics and broken span
// invariants on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через лексер и сканер вызовов,
// а произвольные строки формата через парсер и инлайнер.
//
// Зависимости: internal/source, internal/lexer, internal/frontend,
// internal/fmtstr, internal/inliner, internal/testkit.

package fuzztests
