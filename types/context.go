package types

// CallContext carries the host-supplied identity of the account invoking an
// operation. It is passed explicitly into every mutating call; contracts never
// read ambient caller state.
type CallContext struct {
	Caller Address
}

// AsCaller builds a CallContext for the given account.
func AsCaller(a Address) CallContext {
	return CallContext{Caller: a}
}
