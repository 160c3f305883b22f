// Package worker содержит обработчик проверок pipeline.
//
// Worker — stateless компонент системы, который:
//   - Получает запросы на проверку из очереди validations.requested
//   - Валидирует спецификацию и выполняет прогон процессора
//   - Публикует результат в validations.completed
//
// Workers масштабируются горизонтально — несколько экземпляров
// могут потреблять из одной очереди. Каждый запрос обрабатывается
// свежесозданным процессором с собственным пулом.
package worker
