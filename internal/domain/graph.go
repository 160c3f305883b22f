package domain

// NodeRole — роль узла в графе потока данных.
type NodeRole string

const (
	// RoleStart — синтетический источник внешних входов pipeline.
	RoleStart NodeRole = "START"

	// RoleStage — объявленная пользователем стадия.
	RoleStage NodeRole = "STAGE"

	// RoleEnd — синтетический сток для непотреблённых обычных данных.
	RoleEnd NodeRole = "END"

	// RoleErrorTerminal — синтетический сток для непотреблённых ошибок
	// одного вида. Создаётся лениво, по одному на имя вида.
	RoleErrorTerminal NodeRole = "ERROR_TERMINAL"
)

// Node — узел результирующего графа.
type Node struct {
	// ID — идентификатор узла, уникален в рамках одного прогона.
	ID int `json:"id"`

	// Name — имя узла: имя стадии либо синтетическое ("Start", "End", "Error: X").
	Name string `json:"name"`

	// Role — роль узла.
	Role NodeRole `json:"role"`

	// KindName — имя вида ошибки. Заполняется только для RoleErrorTerminal.
	KindName string `json:"kind_name,omitempty"`

	// Group — логическая группа стадии (пустая для синтетических узлов).
	Group string `json:"group,omitempty"`

	// Documentation — описание стадии из объявления.
	Documentation string `json:"documentation,omitempty"`
}

// Edge — реализованная связь потока данных между двумя узлами.
//
// Рёбра производятся только процессором как побочный продукт
// потребления из пула и после создания не изменяются.
type Edge struct {
	// KindName — имя вида ресурса, переносимого ребром.
	KindName string `json:"kind_name"`

	// Exclusive — эксклюзивность вида.
	Exclusive bool `json:"is_exclusive"`

	// Collection — является ли переносимый экземпляр коллекцией.
	Collection bool `json:"is_collection"`

	// OriginID — узел-производитель.
	OriginID int `json:"origin_id"`

	// DestinationID — узел-потребитель (или терминал).
	DestinationID int `json:"destination_id"`
}

// Graph — полный граф потока данных: результат одного прогона процессора.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID возвращает узел по идентификатору.
func (g *Graph) NodeByID(id int) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Finding — обнаруженная проблема: стадия требует вид,
// для которого в пуле нет подходящего экземпляра.
//
// Finding — не ошибка прогона: обход продолжается, а полный список
// findings возвращается вместе с графом.
type Finding struct {
	// StageName — имя стадии с неудовлетворённым требованием.
	StageName string `json:"stage_name"`

	// MissingKindName — имя отсутствующего вида.
	MissingKindName string `json:"missing_kind_name"`
}

// Result — полный результат проверки pipeline: граф плюс findings.
//
// Непустой список Findings означает "pipeline противоречив",
// но граф при этом всегда доступен для инспекции.
type Result struct {
	Graph    Graph     `json:"graph"`
	Findings []Finding `json:"findings"`
}

// IsConsistent возвращает true, если проблем не обнаружено.
func (r *Result) IsConsistent() bool {
	return len(r.Findings) == 0
}
