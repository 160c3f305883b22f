package domain

// PipelineSpec — декларативное описание pipeline.
//
// Это единственный обязательный вход системы: упорядоченный список
// объявлений стадий. Flowlens не выполняет стадии — он прослеживает
// их типовые контракты через симуляцию пула ресурсов.
type PipelineSpec struct {
	// Version — версия формата спецификации (для обратной совместимости).
	Version string `json:"version,omitempty"`

	// Name — имя pipeline (например, "site-publish").
	Name string `json:"name,omitempty"`

	// Description — описание назначения pipeline.
	Description string `json:"description,omitempty"`

	// Stages — упорядоченный список стадий. Порядок значим:
	// стадии анализируются строго в порядке объявления.
	Stages []StageDef `json:"stages"`
}

// StageDef — объявление одной стадии обработки.
//
// Стадия декларирует, какие виды ресурсов ей нужны (Consumes)
// и какие она производит (Produces). После объявления стадия
// неизменяема: процессор мутирует только состояние пула вокруг неё.
type StageDef struct {
	// Name — имя стадии. Уникально в рамках pipeline.
	Name string `json:"name"`

	// Group — логическая группа стадии (для кластеризации в экспортёрах).
	Group string `json:"group,omitempty"`

	// Documentation — описание стадии, переносится в узел графа.
	Documentation string `json:"documentation,omitempty"`

	// Consumes — требуемые входы: пары (вид, кратность).
	Consumes []PortDef `json:"consumes,omitempty"`

	// Produces — производимые выходы: пары (вид, кратность).
	Produces []PortDef `json:"produces,omitempty"`
}

// PortDef — один вход или выход стадии в том виде,
// в каком он записан во входном документе.
type PortDef struct {
	// Kind — имя вида ресурса.
	Kind string `json:"kind"`

	// Exclusive — эксклюзивность вида (см. Kind.Exclusive).
	Exclusive bool `json:"exclusive,omitempty"`

	// Category — категория вида. Пустая строка трактуется как CategoryData.
	Category KindCategory `json:"category,omitempty"`

	// Cardinality — кратность: "1" или "*". Пустая трактуется как "1".
	Cardinality Cardinality `json:"cardinality,omitempty"`
}

// ResolveKind собирает Kind из полей порта с учётом значений по умолчанию.
func (p PortDef) ResolveKind() Kind {
	category := p.Category
	if category == "" {
		category = CategoryData
	}
	return Kind{
		Name:      p.Kind,
		Exclusive: p.Exclusive,
		Category:  category,
	}
}

// ResolveCardinality возвращает кратность порта с учётом значения по умолчанию.
func (p PortDef) ResolveCardinality() Cardinality {
	if p.Cardinality == "" {
		return CardinalityOne
	}
	return p.Cardinality
}
