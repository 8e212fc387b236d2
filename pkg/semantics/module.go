package semantics

import (
	"github.com/vylang/vylang/pkg/ast"
	"github.com/vylang/vylang/pkg/types"
)

// runPhase1 is the module visitor of spec.md §4.C: a fixed-point pass
// over every module-level declaration (so a struct field referencing a
// struct declared later in the file still resolves), followed by
// selector-uniqueness enforcement, call-graph construction, and cyclic
// internal-call detection via DFS.
func (a *Analyzer) runPhase1(mod *ast.Module) []error {
	pending := make([]ast.Stmt, len(mod.Body))
	copy(pending, mod.Body)

	var final []error
	for {
		var next []ast.Stmt
		progressed := false
		for _, stmt := range pending {
			err := a.declareOne(stmt)
			switch {
			case err == nil:
				progressed = true
			case isForwardReference(err):
				next = append(next, stmt) // retry next round
			default:
				final = append(final, err)
				progressed = true
			}
		}
		if len(next) == 0 || !progressed {
			for _, stmt := range next {
				final = append(final, a.declareOne(stmt)) // surface the final unresolved error
			}
			break
		}
		pending = next
	}

	final = append(final, a.checkSelectorUniqueness()...)
	final = append(final, a.buildCallGraph(mod)...)
	final = append(final, a.checkImplements(mod)...)
	return final
}

func isForwardReference(err error) bool {
	verr, ok := err.(*types.Error)
	return ok && verr.Kind == types.KindUnknownType
}

func (a *Analyzer) declareOne(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.StructDef:
		fields, err := a.resolveFields(s.Fields)
		if err != nil {
			return err
		}
		return a.NS.Declare(s.Name, types.Struct(s.Name, fields), s.NodePos())

	case *ast.EnumDef:
		if len(s.Members) > 256 {
			return kindErr(KindVariableDeclarationException, s.NodePos(), "enum %s has more than 256 members", s.Name)
		}
		return a.NS.Declare(s.Name, types.Enum(s.Name, s.Members), s.NodePos())

	case *ast.EventDef:
		fields, err := a.resolveFields(s.Fields)
		if err != nil {
			return err
		}
		if err := a.NS.Declare(s.Name, types.Struct(s.Name, fields), s.NodePos()); err != nil {
			return kindErr(KindEventDeclarationException, s.NodePos(), "%s", err)
		}
		return nil

	case *ast.InterfaceDef:
		funcs := make([]types.FuncSig, len(s.Functions))
		for i, f := range s.Functions {
			args, err := a.resolveFields(f.Args)
			if err != nil {
				return err
			}
			var ret *types.Type
			if f.Return != nil {
				ret, err = types.FromAnnotation(f.Return, types.LocUnset, false, false, a.NS)
				if err != nil {
					return err
				}
			}
			funcs[i] = types.FuncSig{Name: f.Name, Args: args, Return: ret, Mutability: parseMutability(f.Mutability)}
		}
		return a.NS.Declare(s.Name, types.Interface(s.Name, funcs), s.NodePos())

	case *ast.VarDecl:
		loc := types.LocStorage
		if s.IsImmutable {
			loc = types.LocCodeImmutable
		}
		t, err := types.FromAnnotation(s.Type, loc, s.IsImmutable, s.IsPublic, a.NS)
		if err != nil {
			return err
		}
		t.IsConstant = s.IsConstant
		return a.NS.Declare(s.Name, t, s.NodePos())

	case *ast.FunctionDef:
		return a.declareFunction(s)

	default:
		return nil // ImplementsDecl and non-declaration statements are handled separately
	}
}

func (a *Analyzer) resolveFields(fields []ast.Field) ([]types.Field, error) {
	out := make([]types.Field, len(fields))
	for i, f := range fields {
		t, err := types.FromAnnotation(f.Type, types.LocUnset, false, false, a.NS)
		if err != nil {
			return nil, err
		}
		out[i] = types.Field{Name: f.Name, Type: t}
	}
	return out, nil
}

func parseMutability(s string) types.Mutability {
	switch s {
	case "pure":
		return types.MutPure
	case "view":
		return types.MutView
	case "payable":
		return types.MutPayable
	default:
		return types.MutNonpayable
	}
}

func (a *Analyzer) declareFunction(fn *ast.FunctionDef) error {
	args, err := a.resolveFields(fn.Args)
	if err != nil {
		return err
	}
	var ret *types.Type
	if fn.Return != nil {
		ret, err = types.FromAnnotation(fn.Return, types.LocUnset, false, false, a.NS)
		if err != nil {
			return err
		}
	}

	vis := types.VisInternal
	mut := types.MutNonpayable
	nonreentrant := ""
	for _, d := range fn.Decorators {
		switch d.Name {
		case "external":
			vis = types.VisExternal
		case "internal":
			vis = types.VisInternal
		case "pure":
			mut = types.MutPure
		case "view":
			mut = types.MutView
		case "payable":
			mut = types.MutPayable
		case "nonreentrant":
			nonreentrant = d.ReentrancyKey
		}
	}

	numDefaults := 0
	for _, d := range fn.Defaults {
		if d != nil {
			numDefaults++
		}
	}

	sig := &types.FuncSig{
		Name: fn.Name, Args: args, NumDefaults: numDefaults, Return: ret,
		Visibility: vis, Mutability: mut, Nonreentrant: nonreentrant,
	}
	if vis == types.VisExternal {
		sig.MethodID = types.MethodID(canonicalSignature(fn.Name, args))
	}

	if err := a.NS.Declare(fn.Name, types.Function(sig), fn.NodePos()); err != nil {
		return kindErr(KindFunctionDeclarationException, fn.NodePos(), "%s", err)
	}
	a.Funcs[fn.Name] = &FuncInfo{Decl: fn, Sig: sig, Calls: map[string]bool{}, Writes: map[string]bool{}}
	return nil
}

func canonicalSignature(name string, args []types.Field) string {
	sig := name + "("
	for i, a := range args {
		if i > 0 {
			sig += ","
		}
		sig += a.Type.ABI().SelectorName
	}
	return sig + ")"
}

// checkSelectorUniqueness enforces spec.md §4.C "4-byte selector
// uniqueness is enforced across all functions" after every function has
// been declared and its MethodID computed.
func (a *Analyzer) checkSelectorUniqueness() []error {
	var errs []error
	seen := map[[4]byte]string{}
	for name, fi := range a.Funcs {
		if fi.Sig.Visibility != types.VisExternal {
			continue
		}
		if prev, ok := seen[fi.Sig.MethodID]; ok {
			errs = append(errs, kindErr(KindFunctionDeclarationException, fi.Decl.NodePos(),
				"method selector collision between %s and %s", prev, name))
			continue
		}
		seen[fi.Sig.MethodID] = name
	}
	return errs
}

// buildCallGraph records each function's direct internal calls ((ii) of
// spec.md §4.C), detects cycles by DFS ((iii): raises CallViolation
// naming the cycle), and stores the transitive closure ((iv), consumed
// by Phase 2's iteration-safety check).
func (a *Analyzer) buildCallGraph(mod *ast.Module) []error {
	for _, stmt := range mod.Body {
		fn, ok := stmt.(*ast.FunctionDef)
		if !ok {
			continue
		}
		fi := a.Funcs[fn.Name]
		if fi == nil {
			continue
		}
		for _, s := range fn.Body {
			collectInternalCalls(s, a.Funcs, fi.Calls)
			walkStmts(s, func(st ast.Stmt) {
				if name, ok := writeTarget(st); ok {
					fi.Writes[name] = true
				}
			})
		}
	}

	var errs []error
	visiting := map[string]bool{}
	done := map[string]bool{}
	var stack []string
	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if visiting[name] {
			return kindErr(KindCallViolation, a.Funcs[name].Decl.NodePos(),
				"cyclic internal call involving %v", append(append([]string{}, stack...), name))
		}
		visiting[name] = true
		stack = append(stack, name)
		for callee := range a.Funcs[name].Calls {
			if _, ok := a.Funcs[callee]; !ok {
				continue
			}
			if err := visit(callee); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		visiting[name] = false
		done[name] = true
		return nil
	}
	for name := range a.Funcs {
		if err := visit(name); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}

	a.transitive = map[string]map[string]bool{}
	for name := range a.Funcs {
		reach := map[string]bool{}
		collectReachable(name, a.Funcs, reach)
		a.transitive[name] = reach
	}
	return nil
}

func collectReachable(name string, funcs map[string]*FuncInfo, reach map[string]bool) {
	fi, ok := funcs[name]
	if !ok {
		return
	}
	for callee := range fi.Calls {
		if reach[callee] {
			continue
		}
		reach[callee] = true
		collectReachable(callee, funcs, reach)
	}
}

// collectInternalCalls walks a statement for `self.foo(...)` calls,
// recording foo as a direct call when it names a known function.
func collectInternalCalls(s ast.Stmt, funcs map[string]*FuncInfo, into map[string]bool) {
	walkExprsInStmt(s, func(e ast.Expr) {
		call, ok := e.(*ast.Call)
		if !ok {
			return
		}
		attr, ok := call.Func.(*ast.Attribute)
		if !ok {
			return
		}
		name, ok := attr.X.(*ast.Name)
		if !ok || name.Ident != "self" {
			return
		}
		if _, known := funcs[attr.Attr]; known {
			into[attr.Attr] = true
		}
	})
}

// checkImplements validates `implements: IFace` declarations (spec.md
// §4.C point 8 via S-series scenarios): every function of IFace must
// exist in self with identical argument types, return type, and
// compatible mutability.
func (a *Analyzer) checkImplements(mod *ast.Module) []error {
	var errs []error
	for _, stmt := range mod.Body {
		decl, ok := stmt.(*ast.ImplementsDecl)
		if !ok {
			continue
		}
		ifaceT, found := a.NS.Lookup(decl.Interface)
		if !found || ifaceT.Kind != types.KindInterface {
			errs = append(errs, kindErr(KindInterfaceViolation, decl.NodePos(), "unknown interface %q", decl.Interface))
			continue
		}
		var missing []string
		for _, want := range ifaceT.Functions {
			fi, ok := a.Funcs[want.Name]
			if !ok || fi.Sig.Visibility != types.VisExternal || !sigCompatible(fi.Sig, &want) {
				missing = append(missing, want.Name)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, kindErr(KindInterfaceViolation, decl.NodePos(),
				"%s does not implement %s: missing %v", mod.Name, decl.Interface, missing))
		}
	}
	return errs
}

func sigCompatible(have, want *types.FuncSig) bool {
	if len(have.Args) != len(want.Args) {
		return false
	}
	for i := range have.Args {
		if !have.Args[i].Type.Compare(want.Args[i].Type) {
			return false
		}
	}
	if (have.Return == nil) != (want.Return == nil) {
		return false
	}
	if have.Return != nil && !have.Return.Compare(want.Return) {
		return false
	}
	return have.Mutability <= want.Mutability
}
