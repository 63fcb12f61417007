// Package fuzztests houses Go fuzz harnesses that exercise the snapshot
// pipeline (bytes -> document -> tree -> detectors -> fixes). Its goal is to
// smoke test robustness and guard against panics or hangs on arbitrary input.
//
// Назначение: прогонять произвольные JSON-снапшоты через декодер, сборку
// дерева, детекторы и применение исправлений.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/snapshot, internal/rules, internal/analysis,
// internal/fix, internal/testkit.

package fuzztests
