package future

import (
	"sync"
	"sync/atomic"

	"github.com/amlm-go/future/metrics"
)

// sharedState is the ref-counted block referenced by every Future[T] handle
// for one logical asynchronous operation (spec §3.1). A *sharedState[T] is
// never copied; Future[T] handles share a pointer to it.
type sharedState[T any] struct {
	id   uint64
	name string

	mu   sync.Mutex
	cond *sync.Cond

	status atomic.Uint32 // mirrors the bits under mu, readable lock-free

	results []T
	err     error // stored exception, if any

	progress progressState

	listeners []*listener[T]

	metrics metrics.Provider
}

func newSharedState[T any](name string, mp metrics.Provider) *sharedState[T] {
	if mp == nil {
		mp = metrics.NewNoopProvider()
	}
	s := &sharedState[T]{
		id:       nextID(),
		name:     name,
		progress: newProgressState(),
		metrics:  mp,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *sharedState[T]) statusLocked() Status { return Status(s.status.Load()) }

// setStatus ORs flag into the status bits. Must be called with mu held.
func (s *sharedState[T]) setStatus(flag Status) {
	s.status.Store(uint32(Status(s.status.Load()) | flag))
}

func (s *sharedState[T]) clearStatus(flag Status) {
	s.status.Store(uint32(Status(s.status.Load()) &^ flag))
}

func (s *sharedState[T]) isTerminal() bool {
	return s.statusLocked().Has(StatusFinished)
}

// --- producer facet -------------------------------------------------------

func (s *sharedState[T]) reportStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusLocked().Any(StatusStarted | StatusCanceled | StatusFinished) {
		return
	}
	s.setStatus(StatusStarted | StatusRunning)
	s.cond.Broadcast()
}

func (s *sharedState[T]) warnIgnored(op string) {
	log().Warn().Uint64("future_id", s.id).Str("future_name", s.name).
		Str("op", op).Str("status", s.statusLocked().String()).
		Msg("future: ignoring producer call on terminal state")
	s.metrics.Counter("future_already_satisfied_total").Add(1)
}

func (s *sharedState[T]) reportResult(v T, i int) {
	s.mu.Lock()
	if s.isTerminal() || s.statusLocked().Has(StatusCanceled) {
		s.mu.Unlock()
		s.warnIgnored("report_result")
		return
	}
	count := len(s.results)
	if i < 0 {
		i = count
	}
	if i != count {
		s.mu.Unlock()
		log().Warn().Uint64("future_id", s.id).Int("index", i).Int("count", count).
			Msg("future: report_result index is not an append position, ignored")
		return
	}
	s.results = append(s.results, v)
	begin, end := i, i+1
	listeners := append([]*listener[T](nil), s.listeners...)
	s.cond.Broadcast()
	s.mu.Unlock()

	s.metrics.Counter("future_results_total").Add(1)
	for _, l := range listeners {
		l.fireResultRange(begin, end)
	}
}

func (s *sharedState[T]) reportResults(vs []T) {
	if len(vs) == 0 {
		return
	}
	s.mu.Lock()
	if s.isTerminal() || s.statusLocked().Has(StatusCanceled) {
		s.mu.Unlock()
		s.warnIgnored("report_results")
		return
	}
	begin := len(s.results)
	s.results = append(s.results, vs...)
	end := len(s.results)
	listeners := append([]*listener[T](nil), s.listeners...)
	s.cond.Broadcast()
	s.mu.Unlock()

	s.metrics.Counter("future_results_total").Add(int64(len(vs)))
	for _, l := range listeners {
		l.fireResultRange(begin, end)
	}
}

func (s *sharedState[T]) reportProgress(min, max, value int, text string, haveText bool) {
	s.mu.Lock()
	if s.isTerminal() {
		s.mu.Unlock()
		return
	}
	rangeChanged := s.progress.Min != min || s.progress.Max != max
	// Idempotent per field: a value update whose integer value hasn't
	// changed is suppressed (spec §4.A throttling policy, §9 open question
	// resolved in favor of preserving the source's throttling behavior).
	valueChanged := s.progress.Value != value
	textChanged := haveText && s.progress.Text != text

	s.progress.Min, s.progress.Max = min, max
	if valueChanged {
		s.progress.Value = value
	}
	if textChanged {
		s.progress.Text = text
	}
	listeners := append([]*listener[T](nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		if rangeChanged {
			l.fireProgressRange(min, max)
		}
		if valueChanged {
			l.fireProgressValue(value)
		}
		if textChanged {
			l.fireProgressText(text)
		}
	}
}

func (s *sharedState[T]) reportProgressInfo(key, value string) {
	s.mu.Lock()
	if s.isTerminal() {
		s.mu.Unlock()
		return
	}
	s.progress.info[key] = value
	listeners := append([]*listener[T](nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fireProgressInfo(key, value)
	}
}

func (s *sharedState[T]) reportException(err error) {
	s.mu.Lock()
	if s.isTerminal() {
		s.mu.Unlock()
		s.warnIgnored("report_exception")
		return
	}
	if s.err != nil {
		s.mu.Unlock()
		return // AlreadySatisfied: at most one exception (spec §3.1 invariant)
	}
	s.err = &StateError{ID: s.id, Name: s.name, Err: err}
	s.setStatus(StatusCanceled)
	listeners := append([]*listener[T](nil), s.listeners...)
	s.cond.Broadcast()
	s.mu.Unlock()

	s.metrics.Counter("future_exceptions_total").Add(1)
	for _, l := range listeners {
		l.fireCanceled()
	}
}

func (s *sharedState[T]) reportCanceled() {
	s.mu.Lock()
	if s.isTerminal() {
		s.mu.Unlock()
		return
	}
	alreadyCanceled := s.statusLocked().Has(StatusCanceled)
	s.setStatus(StatusCanceled)
	listeners := append([]*listener[T](nil), s.listeners...)
	s.cond.Broadcast()
	s.mu.Unlock()

	if alreadyCanceled {
		return
	}
	s.metrics.Counter("future_canceled_total").Add(1)
	for _, l := range listeners {
		l.fireCanceled()
	}
}

func (s *sharedState[T]) reportFinished() {
	s.mu.Lock()
	if s.isTerminal() {
		s.mu.Unlock()
		return
	}
	s.setStatus(StatusFinished)
	s.clearStatus(StatusRunning)
	listeners := append([]*listener[T](nil), s.listeners...)
	s.cond.Broadcast()
	s.mu.Unlock()

	s.metrics.Counter("future_finished_total").Add(1)
	for _, l := range listeners {
		l.fireFinished()
	}
}

func (s *sharedState[T]) reportPaused() {
	s.mu.Lock()
	if s.isTerminal() || s.statusLocked().Has(StatusPaused) {
		s.mu.Unlock()
		return
	}
	s.setStatus(StatusPaused)
	listeners := append([]*listener[T](nil), s.listeners...)
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, l := range listeners {
		l.firePaused()
	}
}

func (s *sharedState[T]) reportResumed() {
	s.mu.Lock()
	if !s.statusLocked().Has(StatusPaused) {
		s.mu.Unlock()
		return
	}
	s.clearStatus(StatusPaused)
	listeners := append([]*listener[T](nil), s.listeners...)
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, l := range listeners {
		l.fireResumed()
	}
}

// suspendIfRequested blocks while Paused, returning promptly once resumed or
// canceled (spec §4.D cooperative cancellation contract).
func (s *sharedState[T]) suspendIfRequested() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.statusLocked().Has(StatusPaused) && !s.statusLocked().Any(StatusCanceled|StatusFinished) {
		s.cond.Wait()
	}
}

// --- consumer facet --------------------------------------------------------

func (s *sharedState[T]) isReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results) > 0 || s.isTerminal()
}

func (s *sharedState[T]) isCanceled() bool { return s.statusLocked().Has(StatusCanceled) }
func (s *sharedState[T]) isFinished() bool { return s.statusLocked().Has(StatusFinished) }
func (s *sharedState[T]) isPaused() bool   { return s.statusLocked().Has(StatusPaused) }

func (s *sharedState[T]) hasException() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err != nil
}

func (s *sharedState[T]) resultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// wait blocks until result count exceeds i, or the state finishes, or it is
// canceled with a stored exception (which is then returned).
func (s *sharedState[T]) wait(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.results) <= i && !s.isTerminal() {
		if s.err != nil {
			break
		}
		s.cond.Wait()
	}
	return s.err
}

func (s *sharedState[T]) waitForFinished() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.isTerminal() {
		s.cond.Wait()
	}
	return s.err
}

func (s *sharedState[T]) resultAt(i int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.results) <= i && !s.isTerminal() && s.err == nil {
		s.cond.Wait()
	}
	var zero T
	if s.err != nil {
		return zero, s.err
	}
	if i < 0 || i >= len(s.results) {
		return zero, ErrBrokenChain
	}
	return s.results[i], nil
}

func (s *sharedState[T]) resultsSnapshot() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.isTerminal() && s.err == nil {
		s.cond.Wait()
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]T, len(s.results))
	copy(out, s.results)
	return out, nil
}

func (s *sharedState[T]) progressSnapshot() (Progress, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Progress, s.progress.snapshotInfo()
}

// --- watcher attachment ----------------------------------------------------

// attach appends l to the listener list in attachment order, replaying any
// results already produced and the current terminal condition so a
// late-attaching Watcher still observes every result exactly once and any
// canceled/finished edge exactly once (spec §8). The result count is
// snapshotted in the same critical section as the append: reportResult and
// reportResults always append under s.mu and only notify listeners present
// at that time, so any result reported after this unlock starts at an index
// no lower than count, and the replay below can never overlap it.
func (s *sharedState[T]) attach(l *listener[T]) {
	s.mu.Lock()
	count := len(s.results)
	canceled := s.statusLocked().Has(StatusCanceled)
	finished := s.statusLocked().Has(StatusFinished)
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	if count > 0 {
		l.fireResultRange(0, count)
	}
	if canceled {
		l.fireCanceled()
	}
	if finished {
		l.fireFinished()
	}
}

func (s *sharedState[T]) detach(l *listener[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.listeners {
		if x == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}
