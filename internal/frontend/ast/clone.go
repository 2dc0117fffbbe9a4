package ast

// Clone returns a deep copy of e. Identifiers in the copy are fresh nodes,
// so anything keyed by node identity (recorded types, uses) starts empty.
func Clone(e Expression) Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *IdentifierExpr:
		return cloneIdent(n)
	case *BasicLit:
		c := *n
		return &c
	case *UndefLit:
		c := *n
		return &c
	case *Invalid:
		c := *n
		return &c
	case *BinaryExpr:
		c := *n
		c.X, c.Y = Clone(n.X), Clone(n.Y)
		return &c
	case *UnaryExpr:
		c := *n
		c.X = Clone(n.X)
		return &c
	case *ParenExpr:
		c := *n
		c.X = Clone(n.X)
		return &c
	case *TernaryExpr:
		c := *n
		c.Cond, c.Then, c.Else = Clone(n.Cond), Clone(n.Then), Clone(n.Else)
		return &c
	case *CallExpr:
		c := *n
		c.Fun = Clone(n.Fun)
		c.Args = cloneExprs(n.Args)
		return &c
	case *FieldValue:
		c := *n
		c.Field, c.Value = Clone(n.Field), Clone(n.Value)
		return &c
	case *SelectorExpr:
		c := *n
		c.X = Clone(n.X)
		c.Field = cloneIdent(n.Field)
		return &c
	case *ImplicitSelectorExpr:
		c := *n
		c.Field = cloneIdent(n.Field)
		return &c
	case *IndexExpr:
		c := *n
		c.X, c.Index = Clone(n.X), Clone(n.Index)
		return &c
	case *SliceExpr:
		c := *n
		c.X, c.Low, c.High = Clone(n.X), Clone(n.Low), Clone(n.High)
		return &c
	case *DerefExpr:
		c := *n
		c.X = Clone(n.X)
		return &c
	case *TypeAssertExpr:
		c := *n
		c.X, c.Type = Clone(n.X), Clone(n.Type)
		return &c
	case *CastExpr:
		c := *n
		c.Type, c.X = Clone(n.Type), Clone(n.X)
		return &c
	case *AutoCastExpr:
		c := *n
		c.X = Clone(n.X)
		return &c
	case *ProcGroupExpr:
		c := *n
		c.Procs = cloneExprs(n.Procs)
		return &c
	case *CompositeLit:
		c := *n
		c.Type = Clone(n.Type)
		c.Elts = cloneExprs(n.Elts)
		return &c
	case *ProcLit:
		c := *n
		c.Type = CloneProcType(n.Type)
		c.Body = CloneBlock(n.Body)
		return &c
	case *PointerType:
		c := *n
		c.Elem = Clone(n.Elem)
		return &c
	case *ArrayType:
		c := *n
		c.Len, c.Elem = Clone(n.Len), Clone(n.Elem)
		return &c
	case *DynamicArrayType:
		c := *n
		c.Elem = Clone(n.Elem)
		return &c
	case *MapType:
		c := *n
		c.Key, c.Value = Clone(n.Key), Clone(n.Value)
		return &c
	case *StructType:
		c := *n
		c.PolyParams = CloneParams(n.PolyParams)
		c.Fields = make([]*StructField, len(n.Fields))
		for i, f := range n.Fields {
			fc := *f
			fc.Name = cloneIdent(f.Name)
			fc.Type = Clone(f.Type)
			c.Fields[i] = &fc
		}
		return &c
	case *UnionType:
		c := *n
		c.PolyParams = CloneParams(n.PolyParams)
		c.Variants = cloneExprs(n.Variants)
		return &c
	case *EnumType:
		c := *n
		c.Base = Clone(n.Base)
		c.Fields = make([]*EnumValue, len(n.Fields))
		for i, f := range n.Fields {
			fc := *f
			fc.Name = cloneIdent(f.Name)
			fc.Value = Clone(f.Value)
			c.Fields[i] = &fc
		}
		return &c
	case *BitSetType:
		c := *n
		c.Elem, c.Underlying = Clone(n.Elem), Clone(n.Underlying)
		return &c
	case *ProcType:
		return CloneProcType(n)
	case *EllipsisType:
		c := *n
		c.Elem = Clone(n.Elem)
		return &c
	case *PolyType:
		c := *n
		c.Name = cloneIdent(n.Name)
		c.Specialization = Clone(n.Specialization)
		return &c
	case *DistinctType:
		c := *n
		c.Type = Clone(n.Type)
		return &c
	case *OpaqueType:
		c := *n
		c.Type = Clone(n.Type)
		return &c
	}
	panic("internal error: ast.Clone: unhandled node " + ExprString(e))
}

func cloneIdent(n *IdentifierExpr) *IdentifierExpr {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

func cloneExprs(list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	for i, e := range list {
		out[i] = Clone(e)
	}
	return out
}

func CloneParams(params []*Param) []*Param {
	if params == nil {
		return nil
	}
	out := make([]*Param, len(params))
	for i, p := range params {
		c := *p
		c.Name = cloneIdent(p.Name)
		c.Type = Clone(p.Type)
		c.Default = Clone(p.Default)
		out[i] = &c
	}
	return out
}

func CloneProcType(n *ProcType) *ProcType {
	if n == nil {
		return nil
	}
	c := *n
	c.Params = CloneParams(n.Params)
	c.Results = CloneParams(n.Results)
	return &c
}

func CloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Stmts = make([]Statement, len(b.Stmts))
	for i, s := range b.Stmts {
		c.Stmts[i] = CloneStmt(s)
	}
	return &c
}

func CloneStmt(s Statement) Statement {
	switch n := s.(type) {
	case *ExprStmt:
		c := *n
		c.X = Clone(n.X)
		return &c
	case *ReturnStmt:
		c := *n
		c.Results = cloneExprs(n.Results)
		return &c
	case *ValueDecl:
		return CloneValueDecl(n)
	case *Block:
		return CloneBlock(n)
	case nil:
		return nil
	}
	panic("internal error: ast.CloneStmt: unhandled statement")
}

func CloneValueDecl(n *ValueDecl) *ValueDecl {
	c := *n
	c.Names = make([]*IdentifierExpr, len(n.Names))
	for i, id := range n.Names {
		c.Names[i] = cloneIdent(id)
	}
	c.Type = Clone(n.Type)
	c.Values = cloneExprs(n.Values)
	return &c
}
