package dispatcher

import "github.com/dshills/aditor/internal/logging"

// PreDispatchHook is called before a request is dispatched.
// It may modify the request. Returning false cancels the dispatch.
type PreDispatchHook interface {
	PreDispatch(req *Request) bool
}

// PostDispatchHook is called after a dispatch completes, committed or not.
type PostDispatchHook interface {
	PostDispatch(req Request, res *Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(req *Request) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(req *Request) bool {
	return f(req)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(req Request, res *Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(req Request, res *Result) {
	f(req, res)
}

// LoggingHook logs every request and its outcome at debug level.
type LoggingHook struct {
	Logger *logging.Logger
}

// PreDispatch logs the request.
func (h LoggingHook) PreDispatch(req *Request) bool {
	h.Logger.Debug("dispatching %s (%d selections)", req.Action, len(req.Selections))
	return true
}

// PostDispatch logs the result.
func (h LoggingHook) PostDispatch(req Request, res *Result) {
	h.Logger.Debug("dispatch complete: %s -> %s in %s", req.Action, res.Status, res.Duration)
}

// SelectionLimitHook cancels requests carrying more than Max selections.
type SelectionLimitHook struct {
	Max int
}

// PreDispatch enforces the limit.
func (h SelectionLimitHook) PreDispatch(req *Request) bool {
	return h.Max <= 0 || len(req.Selections) <= h.Max
}
