// Package api содержит HTTP API сервиса проверки pipeline.
//
// Структура:
//   - handler.go            — Handler с зависимостями
//   - routes.go             — регистрация маршрутов
//   - validation_handler.go — обработчики /api/v1/validations
//   - dto.go                — request/response структуры
//   - response.go           — JSON-хелперы и коды ошибок
//   - middleware.go         — logging и recovery
//
// Проверка выполняется синхронно прямо в обработчике; при настроенном
// publisher запрос вместо этого уходит в очередь, а статус обновляет
// consumer событий validation.completed.
package api
