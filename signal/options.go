package signal

// CallOption configures Send and CallPlugin
type CallOption func(*callOptions)

type callOptions struct {
	log    Logger
	sender any
	kwargs Kwargs
}

func newCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.kwargs == nil {
		o.kwargs = Kwargs{}
	}
	return o
}

// WithLogger reports missing or ambiguous receivers to log
func WithLogger(log Logger) CallOption {
	return func(o *callOptions) {
		o.log = log
	}
}

// WithSender passes sender to the receivers
func WithSender(sender any) CallOption {
	return func(o *callOptions) {
		o.sender = sender
	}
}

// WithKwargs passes kw to the receivers
func WithKwargs(kw Kwargs) CallOption {
	return func(o *callOptions) {
		o.kwargs = kw
	}
}
