// Package engine содержит движок проверки pipeline.
//
// Включает:
//   - parser.go    — парсинг и статическая валидация PipelineSpec из JSON
//   - pool.go      — пул ресурсов: токены, сопоставление, режимы Flat/Expanded
//   - processor.go — прогон стадий через пул и сборка графа потока данных
//
// Engine не выполняет стадии: он симулирует движение типизированных
// экземпляров через объявленные контракты и строит проверенный граф.
package engine
