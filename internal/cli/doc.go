// Package cli содержит команды консольного клиента.
//
// Структура:
//   - client.go     — HTTP-клиент для Flowlens API
//   - output.go     — табличный и JSON-вывод
//   - validate.go   — локальная проверка спецификации (без сервера)
//   - validation.go — команды для работы с проверками через API
//
// Команда validate работает полностью офлайн: парсит файл спецификации,
// выполняет прогон и печатает граф или findings.
package cli
