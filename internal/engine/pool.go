package engine

import "github.com/shaiso/Flowlens/internal/domain"

// Mode — режим кратности пула.
//
// Режим общий для всего пула и переключается потреблением:
// требование-коллекция схлопывает пул в Flat, потребление экземпляра-коллекции
// одиночным требованием разворачивает пул в Expanded.
type Mode string

const (
	// ModeFlat — обычный режим: кратность экземпляра определяется
	// кратностью производящего порта.
	ModeFlat Mode = "FLAT"

	// ModeExpanded — режим разворота: каждый производимый экземпляр
	// считается коллекцией (стадия логически выполняется по одному
	// разу на элемент).
	ModeExpanded Mode = "EXPANDED"
)

// MatchPolicy — политика сопоставления разделяемых видов.
type MatchPolicy int

const (
	// MatchAllProducers — разделяемое требование сопоставляется со всеми
	// подходящими экземплярами: по ребру от каждого производителя.
	MatchAllProducers MatchPolicy = iota

	// MatchFirstProducer — разделяемое требование сопоставляется только
	// с самым ранним подходящим экземпляром.
	MatchFirstProducer
)

// Instance — один экземпляр ресурса в пуле.
type Instance struct {
	// UID — порядковый номер экземпляра в рамках пула. Определяет
	// FIFO-порядок сопоставления и порядок терминальных рёбер.
	UID uint64

	// Kind — вид экземпляра.
	Kind domain.Kind

	// Collection — является ли экземпляр коллекцией.
	Collection bool

	// OriginID — узел-производитель.
	OriginID int

	// DestinationID — узел-потребитель. Заполняется при потреблении.
	DestinationID int

	consumed bool
	removed  bool
}

// Pool — пул ресурсов одного прогона.
//
// Пул создаётся заново для каждого прогона и никогда не разделяется
// между прогонами. Pool не потокобезопасен: один прогон — одна горутина.
type Pool struct {
	instances []*Instance
	mode      Mode
	policy    MatchPolicy
	nextUID   uint64
}

// PoolOption настраивает пул при создании.
type PoolOption func(*Pool)

// WithMatchPolicy задаёт политику сопоставления разделяемых видов.
func WithMatchPolicy(policy MatchPolicy) PoolOption {
	return func(p *Pool) {
		p.policy = policy
	}
}

// NewPool создаёт пустой пул в режиме Flat.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		mode:   ModeFlat,
		policy: MatchAllProducers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode возвращает текущий режим пула.
func (p *Pool) Mode() Mode {
	return p.mode
}

// Add добавляет в пул экземпляр вида kind, произведённый узлом originID.
//
// В режиме Expanded каждый добавляемый экземпляр — коллекция независимо
// от кратности производящего порта.
func (p *Pool) Add(kind domain.Kind, cardinality domain.Cardinality, originID int) *Instance {
	inst := &Instance{
		UID:        p.nextUID,
		Kind:       kind,
		Collection: cardinality.IsCollection() || p.mode == ModeExpanded,
		OriginID:   originID,
	}
	p.nextUID++
	p.instances = append(p.instances, inst)
	return inst
}

// Consume сопоставляет требование (kind, cardinality) узла consumerID
// с экземплярами пула и возвращает сопоставленные экземпляры — по одному
// на будущее ребро.
//
// Эксклюзивный вид: самый ранний подходящий экземпляр; он удаляется
// из пула. Разделяемый вид: все подходящие экземпляры (или самый ранний
// при MatchFirstProducer); они остаются в пуле для других читателей.
//
// Пустой результат означает неудовлетворённое требование; пул при этом
// не изменяется, кроме переключения режима требованием-коллекцией.
func (p *Pool) Consume(kind domain.Kind, cardinality domain.Cardinality, consumerID int) []*Instance {
	// Требование-коллекция схлопывает пул: дальше по одной коллекции на вид.
	if cardinality.IsCollection() {
		p.mode = ModeFlat
	}

	var matched []*Instance

	for _, inst := range p.instances {
		if inst.removed || !inst.Kind.Matches(kind) {
			continue
		}

		inst.consumed = true
		inst.DestinationID = consumerID
		matched = append(matched, inst)

		if kind.Exclusive {
			inst.removed = true
			break
		}
		if p.policy == MatchFirstProducer {
			break
		}
	}

	// Одиночное требование, съевшее коллекцию, разворачивает пул:
	// стадия выполняется по одному разу на элемент, и всё, что она
	// произведёт, — тоже коллекции.
	if !cardinality.IsCollection() {
		for _, inst := range matched {
			if inst.Collection {
				p.mode = ModeExpanded
				break
			}
		}
	}

	return matched
}

// Unconsumed возвращает экземпляры, которые ни разу не были сопоставлены
// ни с одним требованием, в порядке добавления.
func (p *Pool) Unconsumed() []*Instance {
	var leftovers []*Instance
	for _, inst := range p.instances {
		if !inst.consumed && !inst.removed {
			leftovers = append(leftovers, inst)
		}
	}
	return leftovers
}
