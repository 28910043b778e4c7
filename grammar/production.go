package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/tsirbas/wisent/symbol"
)

type ProductionID [32]byte

func (id ProductionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) ProductionID {
	seq := lhs.Byte()
	for _, sym := range rhs {
		seq = append(seq, sym.Byte()...)
	}
	return ProductionID(sha256.Sum256(seq))
}

type ProductionNum uint16

const (
	ProductionNumNil   = ProductionNum(0)
	ProductionNumStart = ProductionNum(1)
	ProductionNumMin   = ProductionNum(2)
)

func (n ProductionNum) Int() int {
	return int(n)
}

type Production struct {
	id     ProductionID
	num    ProductionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int
}

func NewProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*Production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &Production{
		id:     genProductionID(lhs, rhs),
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *Production) Empty() bool {
	return p.rhsLen == 0
}

func (p *Production) ID() ProductionID {
	return p.id
}

func (p *Production) Num() ProductionNum {
	return p.num
}

func (p *Production) LHS() symbol.Symbol {
	return p.lhs
}

func (p *Production) RHS() []symbol.Symbol {
	return p.rhs
}

func (p *Production) RHSLen() int {
	return p.rhsLen
}

type ProductionSet struct {
	lhs2Prods map[symbol.Symbol][]*Production
	id2Prod   map[ProductionID]*Production
	num       ProductionNum
}

func NewProductionSet() *ProductionSet {
	return &ProductionSet{
		lhs2Prods: map[symbol.Symbol][]*Production{},
		id2Prod:   map[ProductionID]*Production{},
		num:       ProductionNumMin,
	}
}

func (ps *ProductionSet) append(prod *Production) {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return
	}

	if prod.lhs.IsStart() {
		prod.num = ProductionNumStart
	} else {
		prod.num = ps.num
		ps.num++
	}

	if prods, ok := ps.lhs2Prods[prod.lhs]; ok {
		ps.lhs2Prods[prod.lhs] = append(prods, prod)
	} else {
		ps.lhs2Prods[prod.lhs] = []*Production{prod}
	}
	ps.id2Prod[prod.id] = prod
}

func (ps *ProductionSet) ByID(id ProductionID) (*Production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *ProductionSet) ByLHS(lhs symbol.Symbol) ([]*Production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *ProductionSet) AllProductions() map[ProductionID]*Production {
	return ps.id2Prod
}

// removeLHS discards every production headed by lhs. Used by cleanup to
// drop rules that mention a symbol outside the set reachable from the
// start symbol, rather than treating them as a grammar error.
func (ps *ProductionSet) removeLHS(lhs symbol.Symbol) {
	for _, prod := range ps.lhs2Prods[lhs] {
		delete(ps.id2Prod, prod.id)
	}
	delete(ps.lhs2Prods, lhs)
}
