// Package export содержит экспортёры графа потока данных.
//
// Включает:
//   - registry.go — реестр экспортёров по имени формата
//   - json.go     — машиночитаемый JSON (nodes/edges)
//   - dot.go      — Graphviz DOT с кластеризацией по группам
//   - mermaid.go  — Mermaid flowchart для встраивания в Markdown
//
// Экспортёры — тонкие сериализаторы поверх готового графа:
// они никогда не изменяют узлы и рёбра.
package export
