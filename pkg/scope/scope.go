// Package scope tracks which names are declared while walking a program.
//
// Design: A stack of function scopes, each a stack of block levels. Only the
// current scope and, on request, the one directly enclosing it are consulted.
package scope

// level is one lexical block's set of declared names.
type level map[string]struct{}

// frame is the scope of one function body (or the module body).
type frame struct {
	levels []level
}

// Tracker maintains nested name visibility for a single translation run.
type Tracker struct {
	frames []*frame
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// EnterFunction opens a new scope with one empty block level.
func (t *Tracker) EnterFunction() {
	t.frames = append(t.frames, &frame{levels: []level{{}}})
}

// ExitFunction closes the current scope.
func (t *Tracker) ExitFunction() {
	if len(t.frames) > 0 {
		t.frames = t.frames[:len(t.frames)-1]
	}
}

// EnterBlock opens a block level inside the current scope.
func (t *Tracker) EnterBlock() {
	f := t.current()
	if f == nil {
		t.EnterFunction()
		return
	}
	f.levels = append(f.levels, level{})
}

// ExitBlock closes the innermost block level of the current scope.
func (t *Tracker) ExitBlock() {
	f := t.current()
	if f == nil || len(f.levels) == 0 {
		return
	}
	f.levels = f.levels[:len(f.levels)-1]
}

// Define declares name in the innermost open block level.
func (t *Tracker) Define(name string) {
	f := t.current()
	if f == nil {
		t.EnterFunction()
		f = t.current()
	}
	if len(f.levels) == 0 {
		f.levels = append(f.levels, level{})
	}
	f.levels[len(f.levels)-1][name] = struct{}{}
}

// IsDefined reports whether name is declared in any block level of the
// current scope. With alsoCheckEnclosing, the directly enclosing scope is
// searched as well; scopes further out are not.
func (t *Tracker) IsDefined(name string, alsoCheckEnclosing bool) bool {
	n := len(t.frames)
	if n == 0 {
		return false
	}
	if t.frames[n-1].has(name) {
		return true
	}
	return alsoCheckEnclosing && n > 1 && t.frames[n-2].has(name)
}

// Depth returns the number of open scopes.
func (t *Tracker) Depth() int {
	return len(t.frames)
}

func (t *Tracker) current() *frame {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1]
}

func (f *frame) has(name string) bool {
	for i := len(f.levels) - 1; i >= 0; i-- {
		if _, ok := f.levels[i][name]; ok {
			return true
		}
	}
	return false
}
