package authevents

const (
	TopicName            = "session"
	sessionCreatedName   = TopicName + ".created"
	sessionDestroyedName = TopicName + ".destroyed"
)

// Destruction reasons.
const (
	ReasonLogout       = "logout"
	ReasonExpired      = "expired"
	ReasonUnauthorized = "unauthorized"
)

type SessionCreated struct {
	UserUID  string
	Username string
	Role     string
}

func (e SessionCreated) GetEventTypeName() string {
	return sessionCreatedName
}

func (e SessionCreated) GetAggregateName() string {
	return e.UserUID
}

type SessionDestroyed struct {
	Reason string
}

func (e SessionDestroyed) GetEventTypeName() string {
	return sessionDestroyedName
}

func (e SessionDestroyed) GetAggregateName() string {
	return "currentSession"
}
