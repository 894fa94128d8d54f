// Package async lowers async/generator function bodies into an explicit
// state-machine description, per spec §4.4. Grounded conceptually on
// escalier's codegen, which instead emits native JS async/await directly
// (internal/codegen/builder.go's Async/AwaitExpr handling) with no
// intermediate state-machine IR; since spec §4.4 requires that IR, this
// package is new, built in escalier's declarative-pass style (one
// struct-returning analysis function per concern, matching how
// dep_graph.go's FindModuleBindings/DependencyVisitor separate concerns).
package async

import "github.com/ts-forge/tsforge/internal/ast"

// Shape selects which of the four lowering targets a function needs.
type Shape int

const (
	ShapePlain Shape = iota
	ShapeAsync
	ShapeGenerator
	ShapeAsyncGenerator
)

func ShapeOf(fn *ast.ArrowFunctionExpr) Shape {
	switch {
	case fn.IsAsync && fn.IsGenerator:
		return ShapeAsyncGenerator
	case fn.IsAsync:
		return ShapeAsync
	case fn.IsGenerator:
		return ShapeGenerator
	default:
		return ShapePlain
	}
}

// TryRole identifies which part of a try/catch/finally construct a state
// belongs to, needed so the step routine knows where to route a thrown
// exception or a propagating return.
type TryRole int

const (
	TryRoleNone TryRole = iota
	TryRoleTry
	TryRoleCatch
	TryRoleFinally
)

// TryRegion describes one try/catch/finally construct's state ranges, so
// the step routine can dispatch a runtime exception to the right catch (or
// propagate it to the enclosing region/caller) and always run Finally.
type TryRegion struct {
	ID          int
	TryStates   []int
	CatchStates []int
	CatchParam  string // bound name of the caught value, "" if none
	FinallyStates []int
	Parent      *TryRegion // enclosing region, nil at the top level
}

// SuspensionPoint is one await/yield expression, tagged with the state id
// the step routine resumes into after the awaited/yielded value settles.
// LiveVars names the locals declared at or before this point that are still
// referenced somewhere after it: exactly the Frame fields the step routine
// must restore on resume, rather than every local the function ever binds.
type SuspensionPoint struct {
	StateID   int
	Kind      SuspensionKind
	Enclosing *TryRegion
	Expr      ast.Expr // the AwaitExpr's or YieldExpr's argument
	LiveVars  []string
}

type SuspensionKind int

const (
	SuspendAwait SuspensionKind = iota
	SuspendYield
	SuspendYieldDelegate // `yield*`
)

// Frame is the lowered function's per-invocation state: hoisted locals (so
// they survive across suspension points, which a native stack frame
// couldn't), the current state id, and the try-region stack active when
// suspended.
type Frame struct {
	HoistedVars    []string
	State          int
	ActiveTryStack []int // TryRegion IDs, outermost first
}

// Lowering is the complete state-machine description for one function
// body, the input to a code generator (not part of this module's scope;
// spec §4.4 stops at "describes the shape", see SPEC_FULL.md §4).
type Lowering struct {
	Shape       Shape
	Suspensions []SuspensionPoint
	TryRegions  []*TryRegion
	Hoisted     []string
	ResultChannel ResultChannelKind
	// CapturesThis is set when the function body (or a nested arrow it
	// encloses, since an arrow's `this` is lexical) references `this`. The
	// step routine then needs to close over the defining `this` explicitly,
	// the way it already closes over hoisted locals.
	CapturesThis bool
}

// ResultChannelKind selects what the lowered function hands back to its
// caller to observe progress/completion.
type ResultChannelKind int

const (
	ResultPromise ResultChannelKind = iota
	ResultAsyncIterator
	ResultSyncIterator
)

// Lower analyzes fn and produces its state-machine description. Plain
// (non-async, non-generator) functions still produce a Lowering with zero
// suspension points, for a uniform caller contract.
func Lower(fn *ast.ArrowFunctionExpr) *Lowering {
	shape := ShapeOf(fn)
	l := &Lowering{Shape: shape, ResultChannel: resultChannelFor(shape)}
	if shape == ShapePlain {
		return l
	}

	b := newLowerer()
	b.walkStmts(fn.Body, nil)
	b.finalizeLiveVars()
	l.Suspensions = b.suspensions
	l.TryRegions = b.regions
	l.Hoisted = b.hoistedVars()
	l.CapturesThis = b.capturesThis
	return l
}

func resultChannelFor(shape Shape) ResultChannelKind {
	switch shape {
	case ShapeAsync:
		return ResultPromise
	case ShapeAsyncGenerator:
		return ResultAsyncIterator
	case ShapeGenerator:
		return ResultSyncIterator
	default:
		return ResultPromise
	}
}

// lowerer tracks a sequence counter alongside the existing state/region
// counters: every statement, variable read and suspension point ticks it on
// visit, giving
// declarations, references and suspension points a total order cheap
// enough to compute liveness from without a real control-flow graph (the
// same straight-line approximation the existing hoistedVars walk already
// made; this just makes it precise about *which* locals need hoisting).
type lowerer struct {
	nextState   int
	nextRegion  int
	suspensions []SuspensionPoint
	suspSeqs    []int // b.seq at each suspension, aligned with suspensions
	regions     []*TryRegion

	seq          int
	declSeq      map[string]int
	useSeqs      map[string][]int
	capturesThis bool
}

func newLowerer() *lowerer {
	return &lowerer{
		nextState: 1, // state 0 is the entry state
		declSeq:   map[string]int{},
		useSeqs:   map[string][]int{},
	}
}

func (b *lowerer) newState() int {
	id := b.nextState
	b.nextState++
	return id
}

func (b *lowerer) tick() int {
	b.seq++
	return b.seq
}

func (b *lowerer) declare(name string, seq int) {
	if _, ok := b.declSeq[name]; !ok {
		b.declSeq[name] = seq
	}
}

func (b *lowerer) use(name string) {
	b.useSeqs[name] = append(b.useSeqs[name], b.tick())
}

func (b *lowerer) walkStmts(stmts []ast.Stmt, enclosing *TryRegion) {
	for _, s := range stmts {
		b.walkStmt(s, enclosing)
	}
}

func (b *lowerer) walkStmt(s ast.Stmt, enclosing *TryRegion) {
	seq := b.tick()
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		b.walkExpr(s.Expr, enclosing)
	case *ast.VarStmt:
		for _, name := range ast.FindBindings(s.Pattern) {
			b.declare(name, seq)
		}
		if s.Init != nil {
			b.walkExpr(s.Init, enclosing)
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			b.walkExpr(s.Value, enclosing)
		}
	case *ast.ThrowStmt:
		b.walkExpr(s.Value, enclosing)
	case *ast.BlockStmt:
		b.walkStmts(s.Stmts, enclosing)
	case *ast.IfStmt:
		b.walkExpr(s.Cond, enclosing)
		b.walkStmt(s.Then, enclosing)
		if s.Else != nil {
			b.walkStmt(s.Else, enclosing)
		}
	case *ast.WhileStmt:
		b.walkExpr(s.Cond, enclosing)
		b.walkStmt(s.Body, enclosing)
	case *ast.ForStmt:
		if initStmt, ok := s.Init.(ast.Stmt); ok && initStmt != nil {
			b.walkStmt(initStmt, enclosing)
		}
		b.walkStmt(s.Body, enclosing)
	case *ast.ForOfStmt:
		for _, name := range ast.FindBindings(s.Decl) {
			b.declare(name, seq)
		}
		b.walkExpr(s.Right, enclosing)
		b.walkStmt(s.Body, enclosing)
	case *ast.TryCatchStmt:
		b.walkTryCatch(s, enclosing)
	}
}

func (b *lowerer) walkTryCatch(s *ast.TryCatchStmt, parent *TryRegion) {
	region := &TryRegion{ID: b.nextRegion, Parent: parent}
	b.nextRegion++
	if s.CatchParam != nil {
		if ident, ok := s.CatchParam.(*ast.IdentPat); ok {
			region.CatchParam = ident.Name
		}
	}
	b.regions = append(b.regions, region)

	before := len(b.suspensions)
	b.walkStmts(s.Try.Stmts, region)
	for i := before; i < len(b.suspensions); i++ {
		region.TryStates = append(region.TryStates, b.suspensions[i].StateID)
	}

	if s.Catch != nil {
		if region.CatchParam != "" {
			b.declare(region.CatchParam, b.tick())
		}
		before = len(b.suspensions)
		b.walkStmts(s.Catch.Stmts, region)
		for i := before; i < len(b.suspensions); i++ {
			region.CatchStates = append(region.CatchStates, b.suspensions[i].StateID)
		}
	}
	if s.Finally != nil {
		before = len(b.suspensions)
		b.walkStmts(s.Finally.Stmts, region)
		for i := before; i < len(b.suspensions); i++ {
			region.FinallyStates = append(region.FinallyStates, b.suspensions[i].StateID)
		}
	}
}

func (b *lowerer) walkExpr(e ast.Expr, enclosing *TryRegion) {
	switch e := e.(type) {
	case *ast.VariableExpr:
		b.use(e.Name)
	case *ast.ThisExpr:
		b.capturesThis = true
	case *ast.GetExpr:
		b.walkExpr(e.Object, enclosing)
	case *ast.AwaitExpr:
		b.walkExpr(e.Arg, enclosing)
		b.suspensions = append(b.suspensions, SuspensionPoint{
			StateID: b.newState(), Kind: SuspendAwait, Enclosing: enclosing, Expr: e.Arg,
		})
		b.suspSeqs = append(b.suspSeqs, b.tick())
	case *ast.YieldExpr:
		if e.Arg != nil {
			b.walkExpr(e.Arg, enclosing)
		}
		kind := SuspendYield
		if e.Delegate {
			kind = SuspendYieldDelegate
		}
		b.suspensions = append(b.suspensions, SuspensionPoint{
			StateID: b.newState(), Kind: kind, Enclosing: enclosing, Expr: e.Arg,
		})
		b.suspSeqs = append(b.suspSeqs, b.tick())
	case *ast.BinaryExpr:
		b.walkExpr(e.Left, enclosing)
		b.walkExpr(e.Right, enclosing)
	case *ast.LogicalExpr:
		b.walkExpr(e.Left, enclosing)
		b.walkExpr(e.Right, enclosing)
	case *ast.CallExpr:
		b.walkExpr(e.Callee, enclosing)
		for _, a := range e.Args {
			b.walkExpr(a, enclosing)
		}
	case *ast.TernaryExpr:
		b.walkExpr(e.Cond, enclosing)
		b.walkExpr(e.Then, enclosing)
		b.walkExpr(e.Else, enclosing)
	case *ast.AssignExpr:
		b.walkExpr(e.Value, enclosing)
	case *ast.ArrowFunctionExpr:
		b.walkNestedFunction(e)
	}
}

// walkNestedFunction analyzes a nested async arrow/function expression with
// its own lowerer rather than folding its statements into the enclosing
// walk: its own suspension points belong to its own Lowering, produced
// separately whenever that inner function is itself lowered. What the
// outer function's Frame still needs to know about is which of its own
// locals the closure captures, since those must stay alive (and therefore
// hoisted, if read after a suspension) for as long as the closure can still
// run. An arrow's `this` is lexical, so a captures-this finding inside also
// propagates to the enclosing function; a plain nested function expression
// would rebind `this` on call and shouldn't, but this AST has one node for
// both shapes, so the distinction isn't represented here.
func (b *lowerer) walkNestedFunction(fn *ast.ArrowFunctionExpr) {
	inner := newLowerer()
	inner.walkStmts(fn.Body, nil)

	bound := map[string]bool{}
	for _, p := range fn.Params {
		for _, name := range ast.FindBindings(p.Pattern) {
			bound[name] = true
		}
	}
	for name := range inner.declSeq {
		bound[name] = true
	}

	for name, uses := range inner.useSeqs {
		if bound[name] {
			continue
		}
		for range uses {
			b.use(name)
		}
	}
	if inner.capturesThis {
		b.capturesThis = true
	}
}

// hoistedVars returns the locals that must become Frame fields: those
// referenced somewhere after at least one suspension point, not every
// local the function binds. A variable only ever read before its
// function's first await/yield lives on the Go stack frame that runs up to
// that suspension and needs no hoisting.
func (b *lowerer) hoistedVars() []string {
	if len(b.suspSeqs) == 0 {
		return nil
	}
	firstSusp := b.suspSeqs[0]
	for _, s := range b.suspSeqs[1:] {
		if s < firstSusp {
			firstSusp = s
		}
	}
	var names []string
	for name, uses := range b.useSeqs {
		for _, u := range uses {
			if u > firstSusp {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// finalizeLiveVars fills in each recorded suspension's LiveVars: the
// locals declared at or before that point that are still read afterward.
func (b *lowerer) finalizeLiveVars() {
	for i, suspSeq := range b.suspSeqs {
		var live []string
		for name, declaredAt := range b.declSeq {
			if declaredAt > suspSeq {
				continue
			}
			for _, u := range b.useSeqs[name] {
				if u > suspSeq {
					live = append(live, name)
					break
				}
			}
		}
		b.suspensions[i].LiveVars = live
	}
}
