package context

type Key string

const (
	Identity Key = "identity"
	User     Key = "user"
	Params   Key = "params"
)
