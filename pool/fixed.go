package pool

// fixed is a Pool bounded at a fixed capacity: once that many tokens exist,
// Get blocks until one is returned via Put. Use it to bound how many
// callables an Executor runs concurrently.
type fixed struct {
	available chan interface{}
	all       chan interface{}
	buf       chan interface{}
	newFn     func() interface{}
}

// NewFixed returns a Pool that creates at most capacity tokens via newFn,
// blocking Get beyond that until a token is returned.
func NewFixed(capacity uint, newFn func() interface{}) Pool {
	return &fixed{
		available: make(chan interface{}, capacity),
		all:       make(chan interface{}, capacity),
		buf:       make(chan interface{}, 1024),
		newFn:     newFn,
	}
}

func (p *fixed) Get() interface{} {
	select {
	case el := <-p.available:
		return el

	case el := <-p.buf:
		return el

	default:
		var el interface{}

		select {
		case p.all <- struct{}{}:
			el = p.newFn()
		default:
			el = <-p.available
		}
		return el
	}
}

func (p *fixed) Put(el interface{}) {
	select {
	case p.available <- el:
	default:
	}
}
