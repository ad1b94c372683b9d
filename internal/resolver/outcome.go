package resolver

import "context"

type Kind int

const (
	NotFound Kind = iota
	Found
	TimedOut
	NoNameservers
	OtherFailure
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case TimedOut:
		return "timeout"
	case NoNameservers:
		return "no_nameservers"
	default:
		return "error"
	}
}

// Outcome is the classified result of one lookup. Negative outcomes are
// values; only OtherFailure carries an error.
type Outcome struct {
	Kind      Kind
	Addresses []string
	Err       error
}

func (o Outcome) Found() bool { return o.Kind == Found }

type Resolver interface {
	Resolve(ctx context.Context, fqdn string) Outcome
}

// Func adapts a plain function to Resolver.
type Func func(ctx context.Context, fqdn string) Outcome

func (f Func) Resolve(ctx context.Context, fqdn string) Outcome { return f(ctx, fqdn) }
