package domain

// KindCategory — категория вида ресурса.
//
// Вместо иерархии типов (Data/Error как подклассы) используется
// явный тег, проверяемый по значению.
type KindCategory string

const (
	// CategoryData — обычные данные, направляются в End при отсутствии потребителя.
	CategoryData KindCategory = "data"

	// CategoryError — ошибки, направляются в отдельный error-терминал по имени вида.
	CategoryError KindCategory = "error"
)

// IsValid возвращает true, если категория известна.
func (c KindCategory) IsValid() bool {
	return c == CategoryData || c == CategoryError
}

// Kind — вид ресурса, протекающего через pipeline.
//
// Идентичность вида — пара (Name, Exclusive): два вида с одинаковым
// именем, но разной эксклюзивностью — это разные виды.
// Kind неизменяем после объявления.
type Kind struct {
	// Name — имя вида (например, "Config", "SourceFile").
	Name string `json:"name"`

	// Exclusive — семантика потребления.
	// true  — экземпляр потребляется ровно одним потребителем и удаляется из пула;
	// false — экземпляр разделяемый: читается любым числом потребителей и не удаляется.
	Exclusive bool `json:"exclusive"`

	// Category — обычные данные или ошибка. Влияет только на маршрутизацию
	// непотреблённых экземпляров в терминалы.
	Category KindCategory `json:"category"`
}

// Matches возвращает true, если other — тот же самый вид.
// Категория в идентичность не входит.
func (k Kind) Matches(other Kind) bool {
	return k.Name == other.Name && k.Exclusive == other.Exclusive
}

// Cardinality — кратность потребления или производства.
type Cardinality string

const (
	// CardinalityOne — одиночное значение.
	CardinalityOne Cardinality = "1"

	// CardinalityCollection — коллекция значений (fan-out/fan-in).
	CardinalityCollection Cardinality = "*"
)

// IsValid возвращает true, если кратность известна.
func (c Cardinality) IsValid() bool {
	return c == CardinalityOne || c == CardinalityCollection
}

// IsCollection возвращает true для кратности-коллекции.
func (c Cardinality) IsCollection() bool {
	return c == CardinalityCollection
}
