package checker

import "github.com/ts-forge/tsforge/internal/ast"

// EdgeKind classifies a control-flow edge, per spec §4.3's flow-narrowing
// contract: the edge kind determines what a Condition narrows along it.
type EdgeKind int

const (
	EdgeUnconditional EdgeKind = iota
	EdgeConditionalTrue
	EdgeConditionalFalse
	EdgeLoopBack
	EdgeBreak
	EdgeContinue
	EdgeReturn
	EdgeThrow
)

// Block is one basic block: a straight-line run of statements with no
// internal branching, plus its outgoing edges. Condition is set only when
// the block ends in an if/while/do-while/for branch (ternary and logical
// operators do not split blocks),
// and is consulted by the narrowing pass to compute each successor's
// entering refinement.
type Block struct {
	ID        int
	Stmts     []ast.Stmt
	Condition ast.Expr
	Succs     []Edge
	Preds     []int
}

type Edge struct {
	To   int
	Kind EdgeKind
}

// Graph is one function body's control-flow graph. Counter is per-instance
// (no package-level global), unlike a shared mutable block-id counter,
// per the Design Notes' "eliminate global mutable counters" direction.
type Graph struct {
	Blocks []*Block
	Entry  int
	nextID int
	// StmtBlock maps each leaf statement to the block it was appended to,
	// so a caller holding a NarrowResult can look up "what's the narrowing
	// context in effect for this exact statement" without re-walking the
	// tree in parallel with the CFG build.
	StmtBlock map[ast.Stmt]int
}

func NewGraph() *Graph { return &Graph{StmtBlock: map[ast.Stmt]int{}} }

func (g *Graph) newBlock() *Block {
	b := &Block{ID: g.nextID}
	g.nextID++
	g.Blocks = append(g.Blocks, b)
	return b
}

func (g *Graph) link(from *Block, to *Block, kind EdgeKind) {
	from.Succs = append(from.Succs, Edge{To: to.ID, Kind: kind})
	to.Preds = append(to.Preds, from.ID)
}

// loopTargets tracks the current innermost loop's break/continue
// destinations (and an optional label), for resolving labeled break/continue.
type loopTarget struct {
	label        string
	breakBlock   *Block
	continueBlock *Block
}

// builder constructs a Graph from a function body by walking statements in
// order, threading "current block" forward and splicing in new blocks at
// every branch point — the standard structured-CFG-from-AST algorithm.
type builder struct {
	g      *Graph
	loops  []loopTarget
}

// Build constructs the control-flow graph for a function body.
func Build(body []ast.Stmt) *Graph {
	g := NewGraph()
	entry := g.newBlock()
	g.Entry = entry.ID
	b := &builder{g: g}
	exit := b.stmts(entry, body)
	_ = exit // final block with no successors is an implicit fallthrough-return
	return g
}

func (b *builder) stmts(cur *Block, stmts []ast.Stmt) *Block {
	for _, s := range stmts {
		if cur == nil {
			return nil // unreachable tail: a prior statement always exits the block
		}
		cur = b.stmt(cur, s)
	}
	return cur
}

func (b *builder) stmt(cur *Block, s ast.Stmt) *Block {
	switch s := s.(type) {
	case *ast.IfStmt:
		return b.ifStmt(cur, s)
	case *ast.WhileStmt:
		return b.whileStmt(cur, s)
	case *ast.DoWhileStmt:
		return b.doWhileStmt(cur, s)
	case *ast.ForStmt:
		return b.forStmt(cur, s)
	case *ast.ForOfStmt:
		return b.forOfStmt(cur, s)
	case *ast.ForInStmt:
		return b.forOfStmt(cur, &ast.ForOfStmt{Decl: s.Decl, Kind: s.Kind, Right: s.Right, Body: s.Body})
	case *ast.BlockStmt:
		return b.stmts(cur, s.Stmts)
	case *ast.ReturnStmt:
		cur.Stmts = append(cur.Stmts, s)
		b.g.StmtBlock[s] = cur.ID
		return nil
	case *ast.ThrowStmt:
		cur.Stmts = append(cur.Stmts, s)
		b.g.StmtBlock[s] = cur.ID
		return nil
	case *ast.BreakStmt:
		target := b.findLoop(s.Label)
		if target != nil {
			b.g.link(cur, target.breakBlock, EdgeBreak)
		}
		return nil
	case *ast.ContinueStmt:
		target := b.findLoop(s.Label)
		if target != nil {
			b.g.link(cur, target.continueBlock, EdgeContinue)
		}
		return nil
	case *ast.TryCatchStmt:
		return b.tryCatch(cur, s)
	case *ast.SwitchStmt:
		return b.switchStmt(cur, s)
	default:
		cur.Stmts = append(cur.Stmts, s)
		b.g.StmtBlock[s] = cur.ID
		return cur
	}
}

func (b *builder) findLoop(label string) *loopTarget {
	for i := len(b.loops) - 1; i >= 0; i-- {
		if label == "" || b.loops[i].label == label {
			return &b.loops[i]
		}
	}
	return nil
}

func (b *builder) ifStmt(cur *Block, s *ast.IfStmt) *Block {
	cur.Condition = s.Cond
	b.g.StmtBlock[s] = cur.ID
	thenBlock := b.g.newBlock()
	b.g.link(cur, thenBlock, EdgeConditionalTrue)
	thenExit := b.stmt(thenBlock, s.Then)

	var elseExit *Block
	if s.Else != nil {
		elseBlock := b.g.newBlock()
		b.g.link(cur, elseBlock, EdgeConditionalFalse)
		elseExit = b.stmt(elseBlock, s.Else)
	} else {
		elseExit = cur // falls through directly when the condition is false
	}

	if thenExit == nil && elseExit == nil {
		return nil
	}
	join := b.g.newBlock()
	if thenExit != nil {
		b.g.link(thenExit, join, EdgeUnconditional)
	}
	if elseExit != nil && elseExit != cur {
		b.g.link(elseExit, join, EdgeUnconditional)
	} else if elseExit == cur {
		b.g.link(cur, join, EdgeConditionalFalse)
	}
	return join
}

func (b *builder) whileStmt(cur *Block, s *ast.WhileStmt) *Block {
	header := b.g.newBlock()
	b.g.link(cur, header, EdgeUnconditional)
	header.Condition = s.Cond
	b.g.StmtBlock[s] = header.ID

	after := b.g.newBlock()
	b.loops = append(b.loops, loopTarget{breakBlock: after, continueBlock: header})
	defer func() { b.loops = b.loops[:len(b.loops)-1] }()

	body := b.g.newBlock()
	b.g.link(header, body, EdgeConditionalTrue)
	b.g.link(header, after, EdgeConditionalFalse)
	bodyExit := b.stmt(body, s.Body)
	if bodyExit != nil {
		b.g.link(bodyExit, header, EdgeLoopBack)
	}
	return after
}

func (b *builder) doWhileStmt(cur *Block, s *ast.DoWhileStmt) *Block {
	body := b.g.newBlock()
	b.g.link(cur, body, EdgeUnconditional)
	after := b.g.newBlock()
	b.loops = append(b.loops, loopTarget{breakBlock: after, continueBlock: body})
	defer func() { b.loops = b.loops[:len(b.loops)-1] }()

	bodyExit := b.stmt(body, s.Body)
	if bodyExit != nil {
		bodyExit.Condition = s.Cond
		b.g.StmtBlock[s] = bodyExit.ID
		b.g.link(bodyExit, body, EdgeConditionalTrue)
		b.g.link(bodyExit, after, EdgeConditionalFalse)
	}
	return after
}

func (b *builder) forStmt(cur *Block, s *ast.ForStmt) *Block {
	if initStmt, ok := s.Init.(ast.Stmt); ok && initStmt != nil {
		cur = b.stmt(cur, initStmt)
	}
	header := b.g.newBlock()
	b.g.link(cur, header, EdgeUnconditional)
	if condExpr, ok := s.Cond.(ast.Expr); ok && condExpr != nil {
		header.Condition = condExpr
	}
	b.g.StmtBlock[s] = header.ID

	after := b.g.newBlock()
	incr := b.g.newBlock()
	b.loops = append(b.loops, loopTarget{breakBlock: after, continueBlock: incr})
	defer func() { b.loops = b.loops[:len(b.loops)-1] }()

	body := b.g.newBlock()
	b.g.link(header, body, EdgeConditionalTrue)
	b.g.link(header, after, EdgeConditionalFalse)
	bodyExit := b.stmt(body, s.Body)
	if bodyExit != nil {
		b.g.link(bodyExit, incr, EdgeUnconditional)
	}
	if incrStmt, ok := s.Incr.(ast.Stmt); ok && incrStmt != nil {
		b.stmt(incr, incrStmt)
	}
	b.g.link(incr, header, EdgeLoopBack)
	return after
}

func (b *builder) forOfStmt(cur *Block, s *ast.ForOfStmt) *Block {
	header := b.g.newBlock()
	b.g.link(cur, header, EdgeUnconditional)
	b.g.StmtBlock[s] = header.ID
	after := b.g.newBlock()
	b.loops = append(b.loops, loopTarget{breakBlock: after, continueBlock: header})
	defer func() { b.loops = b.loops[:len(b.loops)-1] }()

	body := b.g.newBlock()
	b.g.link(header, body, EdgeConditionalTrue) // "has next element"
	b.g.link(header, after, EdgeConditionalFalse)
	bodyExit := b.stmt(body, s.Body)
	if bodyExit != nil {
		b.g.link(bodyExit, header, EdgeLoopBack)
	}
	return after
}

func (b *builder) tryCatch(cur *Block, s *ast.TryCatchStmt) *Block {
	tryBlock := b.g.newBlock()
	b.g.StmtBlock[s] = tryBlock.ID
	b.g.link(cur, tryBlock, EdgeUnconditional)
	tryExit := b.stmts(tryBlock, s.Try.Stmts)

	var catchExit *Block
	if s.Catch != nil {
		catchBlock := b.g.newBlock()
		b.g.link(tryBlock, catchBlock, EdgeThrow)
		catchExit = b.stmts(catchBlock, s.Catch.Stmts)
	}

	join := b.g.newBlock()
	if tryExit != nil {
		b.g.link(tryExit, join, EdgeUnconditional)
	}
	if catchExit != nil {
		b.g.link(catchExit, join, EdgeUnconditional)
	}
	if s.Finally != nil {
		return b.stmts(join, s.Finally.Stmts)
	}
	return join
}

func (b *builder) switchStmt(cur *Block, s *ast.SwitchStmt) *Block {
	join := b.g.newBlock()
	b.g.StmtBlock[s] = cur.ID
	b.loops = append(b.loops, loopTarget{breakBlock: join})
	defer func() { b.loops = b.loops[:len(b.loops)-1] }()

	fallthroughBlock := cur
	for _, c := range s.Cases {
		caseBlock := b.g.newBlock()
		kind := EdgeConditionalFalse
		if c.Value == nil {
			kind = EdgeUnconditional // default case
		}
		b.g.link(fallthroughBlock, caseBlock, kind)
		exit := b.stmts(caseBlock, c.Body)
		if exit != nil {
			b.g.link(exit, join, EdgeUnconditional)
		}
		fallthroughBlock = caseBlock
	}
	b.g.link(fallthroughBlock, join, EdgeUnconditional)
	return join
}
