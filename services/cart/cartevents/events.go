package cartevents

const (
	TopicName       = "cart"
	cartChangedName = TopicName + ".changed"
)

type CartChanged struct {
	TotalItems int
	TotalPrice string
}

func (e CartChanged) GetEventTypeName() string {
	return cartChangedName
}

func (e CartChanged) GetAggregateName() string {
	return "cart"
}
