package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/async"
	"github.com/ts-forge/tsforge/internal/checker"
	"github.com/ts-forge/tsforge/internal/diag"
	"github.com/ts-forge/tsforge/internal/types"
)

// newDemoCmd exercises the checker, flow-sensitive narrowing, and async
// lowering end to end against a syntax tree built directly with the
// ast.NewXxx constructors, standing in for the parser this core doesn't
// own (spec §1/§6). The tree is equivalent to:
//
//	async function describe(x: unknown) {
//	  if (typeof x === "string") {
//	    return x.length;
//	  } else if (typeof x === "number") {
//	    const doubled = await computeSquare(x);
//	    return doubled;
//	  }
//	  return 0;
//	}
func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "run the checker and async lowering against a built-in example function",
		RunE: func(cmd *cobra.Command, args []string) error {
			fn := buildDemoFunction()

			c := checker.New()
			globals := checker.NewScope()
			globals.Declare("computeSquare", &checker.Binding{
				Type: &types.FunctionType{
					Params:   []types.Param{{Name: "n", Type: types.Number}},
					MinArity: 1,
					Return:   types.Number,
				},
			})

			sig := c.CheckFunction(globals, fn)

			reports := diag.FromCheckerDiagnostics(c.Diagnostics)
			reports = append(reports, diag.New("TSF0000", diag.PhaseType, diag.SeverityWarning, nil,
				fmt.Sprintf("inferred signature: %s", sig.String())))

			lowering := async.Lower(fn)
			reports = append(reports, diag.New("TSF0000", diag.PhaseAsync, diag.SeverityWarning, nil,
				fmt.Sprintf("lowering: shape=%d suspensions=%d hoisted=%v resultChannel=%d capturesThis=%v",
					lowering.Shape, len(lowering.Suspensions), lowering.Hoisted, lowering.ResultChannel, lowering.CapturesThis)))
			for _, susp := range lowering.Suspensions {
				reports = append(reports, diag.New("TSF0000", diag.PhaseAsync, diag.SeverityWarning, nil,
					fmt.Sprintf("suspension state=%d liveVars=%v", susp.StateID, susp.LiveVars)))
			}

			if traceNarrowing {
				graph := checker.Build(fn.Body)
				narrowed := checker.Narrow(graph, checker.Context{"x": types.Unknown})
				reports = append(reports, diag.New("TSF0000", diag.PhaseType, diag.SeverityWarning, nil,
					fmt.Sprintf("cfg blocks: %d narrowed names: %s", len(graph.Blocks), narrowed.NarrowedNames().String())))
			}

			if err := renderReports(reports); err != nil {
				return err
			}
			exitIfErrors(reports)
			return nil
		},
	}
}

func buildDemoFunction() *ast.ArrowFunctionExpr {
	sp := ast.NoSpan

	xParam := &ast.Param{
		Pattern: ast.NewIdentPat("x", nil, sp),
		TypeAnn: ast.NewNameTypeAnn("unknown", nil, sp),
	}

	typeofX := ast.NewUnaryExpr(ast.UnaryTypeof, ast.NewVariableExpr("x", sp), sp)

	stringLit := ast.NewLiteralExpr(ast.LitString, sp)
	stringLit.Str = "string"
	numberLit := ast.NewLiteralExpr(ast.LitString, sp)
	numberLit.Str = "number"

	isString := ast.NewBinaryExpr(ast.BinStrictEq, typeofX, stringLit, sp)
	isNumber := ast.NewBinaryExpr(ast.BinStrictEq, typeofX, numberLit, sp)

	returnLength := ast.NewReturnStmt(
		ast.NewGetExpr(ast.NewVariableExpr("x", sp), "length", sp), sp)

	awaitSquare := ast.NewAwaitExpr(
		ast.NewCallExpr(ast.NewVariableExpr("computeSquare", sp),
			[]ast.Expr{ast.NewVariableExpr("x", sp)}, sp), sp)
	declDoubled := ast.NewVarStmt(ast.VarConst, ast.NewIdentPat("doubled", nil, sp), nil, awaitSquare, sp)
	returnDoubled := ast.NewReturnStmt(ast.NewVariableExpr("doubled", sp), sp)

	zeroLit := ast.NewLiteralExpr(ast.LitNumber, sp)
	zeroLit.Num = 0
	returnZero := ast.NewReturnStmt(zeroLit, sp)

	innerIf := ast.NewIfStmt(isNumber,
		ast.NewBlockStmt([]ast.Stmt{declDoubled, returnDoubled}, sp),
		nil, sp)

	outerIf := ast.NewIfStmt(isString,
		ast.NewBlockStmt([]ast.Stmt{returnLength}, sp),
		innerIf, sp)

	return ast.NewArrowFunctionExpr(
		[]*ast.Param{xParam},
		[]ast.Stmt{outerIf, returnZero},
		true,  // isAsync
		false, // isGenerator
		sp,
	)
}
