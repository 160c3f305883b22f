package engine

import "github.com/shaiso/Flowlens/internal/domain"

// Имена синтетических узлов.
const (
	startNodeName       = "Start"
	endNodeName         = "End"
	errorNodeNamePrefix = "Error: "
)

// Processor прогоняет упорядоченную последовательность стадий через пул
// ресурсов и собирает полный граф потока данных.
//
// Processor владеет собственным пулом и счётчиками идентификаторов:
// никакого общего состояния между прогонами нет, параллельные проверки
// не пересекаются. Один Processor — один прогон.
type Processor struct {
	policy MatchPolicy
}

// ProcessorOption настраивает процессор при создании.
type ProcessorOption func(*Processor)

// WithPolicy задаёт политику сопоставления разделяемых видов.
func WithPolicy(policy MatchPolicy) ProcessorOption {
	return func(p *Processor) {
		p.policy = policy
	}
}

// NewProcessor создаёт процессор с политикой MatchAllProducers по умолчанию.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{policy: MatchAllProducers}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process выполняет один прогон по списку стадий.
//
// Алгоритм:
//  1. Создать синтетические узлы Start и End.
//  2. Засеять пул: каждое требование первой стадии считается
//     произведённым узлом Start (внешние входы pipeline).
//  3. Для каждой стадии в порядке объявления: потребить требования
//     (нулевой результат — finding, прогон продолжается), затем
//     добавить производимое.
//  4. Непотреблённые экземпляры направить в терминалы: ошибки — в
//     ленивые error-терминалы по имени вида, остальное — в End.
//
// Рёбра идут в порядке стадий (потребление внутри стадии — в порядке
// объявления портов), терминальные рёбра — в порядке добавления
// экземпляров в пул. Пустой список стадий — фатальная ошибка.
func (p *Processor) Process(stages []domain.StageDef) (*domain.Result, error) {
	if len(stages) == 0 {
		return nil, ErrEmptyPipeline
	}

	pool := NewPool(WithMatchPolicy(p.policy))

	// Идентификаторы: Start=0, стадии 1..N, End=N+1, error-терминалы дальше.
	const startID = 0
	endID := len(stages) + 1
	nextTerminalID := endID + 1

	startNode := domain.Node{ID: startID, Name: startNodeName, Role: domain.RoleStart}
	endNode := domain.Node{ID: endID, Name: endNodeName, Role: domain.RoleEnd}

	nodes := make([]domain.Node, 0, len(stages)+2)
	nodes = append(nodes, startNode)
	for i := range stages {
		stage := &stages[i]
		nodes = append(nodes, domain.Node{
			ID:            startID + 1 + i,
			Name:          stage.Name,
			Role:          domain.RoleStage,
			Group:         stage.Group,
			Documentation: stage.Documentation,
		})
	}

	// Внешние входы: требования первой стадии производит Start.
	for _, port := range stages[0].Consumes {
		pool.Add(port.ResolveKind(), port.ResolveCardinality(), startID)
	}

	var edges []domain.Edge
	var findings []domain.Finding

	for i := range stages {
		stage := &stages[i]
		stageID := startID + 1 + i

		for _, port := range stage.Consumes {
			kind := port.ResolveKind()
			matched := pool.Consume(kind, port.ResolveCardinality(), stageID)

			if len(matched) == 0 {
				findings = append(findings, domain.Finding{
					StageName:       stage.Name,
					MissingKindName: kind.Name,
				})
				continue
			}

			for _, inst := range matched {
				edges = append(edges, domain.Edge{
					KindName:      inst.Kind.Name,
					Exclusive:     inst.Kind.Exclusive,
					Collection:    inst.Collection,
					OriginID:      inst.OriginID,
					DestinationID: stageID,
				})
			}
		}

		for _, port := range stage.Produces {
			pool.Add(port.ResolveKind(), port.ResolveCardinality(), stageID)
		}
	}

	// Маршрутизация остатков. Error-терминал создаётся лениво,
	// по одному на имя вида.
	errorTerminals := make(map[string]int)
	var terminalNodes []domain.Node

	for _, inst := range pool.Unconsumed() {
		destID := endID

		// Неизвестная категория трактуется как обычные данные:
		// остаток уходит в End, а не теряется.
		if inst.Kind.Category == domain.CategoryError {
			id, ok := errorTerminals[inst.Kind.Name]
			if !ok {
				id = nextTerminalID
				nextTerminalID++
				errorTerminals[inst.Kind.Name] = id
				terminalNodes = append(terminalNodes, domain.Node{
					ID:       id,
					Name:     errorNodeNamePrefix + inst.Kind.Name,
					Role:     domain.RoleErrorTerminal,
					KindName: inst.Kind.Name,
				})
			}
			destID = id
		}

		edges = append(edges, domain.Edge{
			KindName:      inst.Kind.Name,
			Exclusive:     inst.Kind.Exclusive,
			Collection:    inst.Collection,
			OriginID:      inst.OriginID,
			DestinationID: destID,
		})
	}

	nodes = append(nodes, terminalNodes...)
	nodes = append(nodes, endNode)

	return &domain.Result{
		Graph:    domain.Graph{Nodes: nodes, Edges: edges},
		Findings: findings,
	}, nil
}
