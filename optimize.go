package rame

import (
	"errors"
	"sort"
)

// ErrIndirectJumpsUnsupported is returned by Optimize when the input
// Code contains a register-valued jump address. An indirect jump
// target cannot be a static entry-point, so the optimizer's delta
// vector cannot account for it.
var ErrIndirectJumpsUnsupported = errors.New("optimizer cannot process code containing indirect jumps")

type woState int

const (
	woPristine woState = iota
	woEdited
	woDeleted
)

type woEntry[T Int] struct {
	state woState
	edit  Instruction[T]
}

type entrypoint struct {
	ep    Ir
	delta int
}

// woCode is a write-only view over an immutable Code: it tracks
// per-source-Ir deletions and edits, plus a sorted vector of
// jump-entry-point indices with cumulative index deltas.
type woCode[T Int] struct {
	src         Code[T]
	state       []woEntry[T]
	entrypoints []entrypoint
}

func newWoCode[T Int](src Code[T]) *woCode[T] {
	return &woCode[T]{
		src:         src,
		state:       make([]woEntry[T], src.Len()),
		entrypoints: collectEntrypoints(src),
	}
}

func collectEntrypoints[T Int](src Code[T]) []entrypoint {
	set := make(map[Ir]bool)
	for _, inst := range src.Instructions() {
		if target, ok := inst.JumpTarget(); ok && target.Kind == AddressConstant {
			set[target.Ir] = true
		}
	}
	eps := make([]entrypoint, 0, len(set)+1)
	for ep := range set {
		eps = append(eps, entrypoint{ep: ep})
	}
	sort.Slice(eps, func(i, j int) bool { return eps[i].ep < eps[j].ep })
	eps = append(eps, entrypoint{ep: Ir(src.Len())})
	return eps
}

// get returns the current content of a source Ir: its edit if one was
// set, the original instruction otherwise; ok is false if deleted.
func (w *woCode[T]) get(ir Ir) (Instruction[T], bool) {
	st := w.state[ir]
	if st.state == woDeleted {
		return Instruction[T]{}, false
	}
	if st.state == woEdited {
		return st.edit, true
	}
	inst, _ := w.src.Get(ir)
	return inst, true
}

// deleteIr marks a source Ir deleted, a terminal state: any later
// deleteIr or setIr on it is a programmer error. Every entry-point
// strictly beyond ir has its delta decremented, since one fewer
// instruction now precedes it.
func (w *woCode[T]) deleteIr(ir Ir) {
	if w.state[ir].state == woEdited {
		panic("rame: deleteIr on an already-edited Ir")
	}
	w.state[ir] = woEntry[T]{state: woDeleted}
	for i := range w.entrypoints {
		if w.entrypoints[i].ep > ir {
			w.entrypoints[i].delta--
		}
	}
}

// setIr records a replacement instruction for a source Ir, a
// terminal state: deleting it afterward is a programmer error.
func (w *woCode[T]) setIr(ir Ir, inst Instruction[T]) {
	if w.state[ir].state == woDeleted {
		panic("rame: setIr on an already-deleted Ir")
	}
	w.state[ir] = woEntry[T]{state: woEdited, edit: inst}
}

// canCombine reports whether no jump entry-point falls in (ir0, ir1],
// i.e. whether instructions at ir0 and ir1 may be fused without
// crossing a jump-landing boundary.
func (w *woCode[T]) canCombine(ir0, ir1 Ir) bool {
	for _, e := range w.entrypoints {
		if e.ep > ir0 && e.ep <= ir1 {
			return false
		}
	}
	return true
}

func (w *woCode[T]) deltaAt(target Ir) int {
	for _, e := range w.entrypoints {
		if e.ep >= target {
			return e.delta
		}
	}
	return 0
}

// materialize produces the rewritten Code: drop deletions, apply
// edits, remap jump targets by the delta of their nearest enclosing
// entry-point. If every instruction would be removed, the singleton
// [Stop] is emitted instead, per the failure-semantics invariant.
func (w *woCode[T]) materialize() Code[T] {
	out := make([]Instruction[T], 0, len(w.state))
	for ir := 0; ir < len(w.state); ir++ {
		inst, ok := w.get(Ir(ir))
		if !ok {
			continue
		}
		if target, isJump := inst.JumpTarget(); isJump && target.Kind == AddressConstant {
			newTarget := int(target.Ir) + w.deltaAt(target.Ir)
			if newTarget < 0 {
				newTarget = 0
			}
			inst = inst.WithJumpTarget(ConstantAddress(Ir(newTarget)))
		}
		out = append(out, inst)
	}
	if len(out) == 0 {
		out = []Instruction[T]{{Op: OpStop}}
	}
	return NewCode(out)
}

func hasIndirectJump[T Int](c Code[T]) bool {
	for _, inst := range c.Instructions() {
		if target, ok := inst.JumpTarget(); ok && target.Kind == AddressRegister {
			return true
		}
	}
	return false
}

// RemoveNops deletes every Nop instruction.
func RemoveNops[T Int](c Code[T]) Code[T] {
	w := newWoCode(c)
	for ir, inst := range c.Instructions() {
		if inst.IsNop() {
			w.deleteIr(Ir(ir))
		}
	}
	return w.materialize()
}

// SimplifyJumps rewrites each jump's target to the end of the chain
// of unconditional Jump instructions starting at that target,
// preserving the rewritten instruction's own kind (conditional jumps
// still test ACC; only the landing address changes). A cycle in the
// chain aborts the rewrite for that instruction, leaving it pointing
// at its original target.
func SimplifyJumps[T Int](c Code[T]) Code[T] {
	w := newWoCode(c)
	for ir := 0; ir < c.Len(); ir++ {
		inst, _ := w.get(Ir(ir))
		target, ok := inst.JumpTarget()
		if !ok || target.Kind != AddressConstant {
			continue
		}
		final, abandon := followJumpChain(c, target.Ir)
		if !abandon && final != target.Ir {
			w.setIr(Ir(ir), inst.WithJumpTarget(ConstantAddress(final)))
		}
	}
	return w.materialize()
}

func followJumpChain[T Int](c Code[T], start Ir) (final Ir, abandon bool) {
	visited := map[Ir]bool{start: true}
	cur := start
	for {
		inst, ok := c.Get(cur)
		if !ok || inst.Op != OpJump {
			return cur, false
		}
		target, _ := inst.JumpTarget()
		if target.Kind != AddressConstant {
			return cur, false
		}
		next := target.Ir
		if visited[next] {
			return start, true
		}
		visited[next] = true
		cur = next
	}
}

// RemoveUnreachableCode deletes every instruction not reachable by a
// depth-first walk from Ir 0: an unconditional Jump or Stop ends the
// current path (the jump's target is itself visited); a conditional
// jump recurses into its target and continues linearly.
func RemoveUnreachableCode[T Int](c Code[T]) Code[T] {
	w := newWoCode(c)
	reached := reachableIrs(c)
	for ir := 0; ir < c.Len(); ir++ {
		if !reached[Ir(ir)] {
			w.deleteIr(Ir(ir))
		}
	}
	return w.materialize()
}

func reachableIrs[T Int](c Code[T]) map[Ir]bool {
	visited := make(map[Ir]bool)
	var visit func(Ir)
	visit = func(ir Ir) {
		for {
			if visited[ir] {
				return
			}
			visited[ir] = true
			inst, ok := c.Get(ir)
			if !ok {
				return
			}
			if inst.Op == OpStop {
				return
			}
			if inst.Op == OpJump {
				target, _ := inst.JumpTarget()
				if target.Kind != AddressConstant {
					return
				}
				ir = target.Ir
				continue
			}
			if inst.IsJump() {
				target, _ := inst.JumpTarget()
				if target.Kind == AddressConstant {
					visit(target.Ir)
				}
				ir = ir + 1
				continue
			}
			ir = ir + 1
		}
	}
	visit(0)
	return visited
}

// CombineJumps deletes unconditional jumps whose target is exactly
// the next instruction index. It is exposed standalone rather than
// folded into Optimize: running it unconditionally would change the
// shape of dead-code-only programs (a trailing "jump to next" is
// sometimes exactly what a caller wants to inspect before further
// passes), so callers opt in explicitly.
func CombineJumps[T Int](c Code[T]) Code[T] {
	w := newWoCode(c)
	for ir := 0; ir < c.Len(); ir++ {
		inst, ok := w.get(Ir(ir))
		if !ok || inst.Op != OpJump {
			continue
		}
		target, _ := inst.JumpTarget()
		if target.Kind == AddressConstant && int(target.Ir) == ir+1 {
			w.deleteIr(Ir(ir))
		}
	}
	return w.materialize()
}

func numToInt64[T Int](v T) int64 {
	if isSigned[T]() {
		return int64(v)
	}
	return int64(uint64(v))
}

func fromInt64[T Int](s int64) T {
	if isSigned[T]() {
		return T(s)
	}
	return T(uint64(s))
}

func fitsWord[T Int](s int64) bool {
	lo := numToInt64(minValue[T]())
	hi := numToInt64(maxValue[T]())
	return s >= lo && s <= hi
}

func sameInstruction[T Int](a, b Instruction[T]) bool {
	if a.Op != b.Op {
		return false
	}
	if a.Value.Kind != b.Value.Kind {
		return false
	}
	if a.Value.Kind == ValueConstant {
		return a.Value.Num == b.Value.Num
	}
	return true
}

func addDelta[T Int](inst Instruction[T]) (int64, bool) {
	if inst.Value.Kind != ValueConstant {
		return 0, false
	}
	switch inst.Op {
	case OpAdd:
		return numToInt64(inst.Value.Num), true
	case OpSub:
		return -numToInt64(inst.Value.Num), true
	case OpMul:
		if numToInt64(inst.Value.Num) == 1 {
			return 0, true
		}
	case OpDiv:
		if numToInt64(inst.Value.Num) == 1 {
			return 0, true
		}
	}
	return 0, false
}

// foldAdds coalesces a run of Add #k / Sub #k / Mul #1 / Div #1
// starting at ir0 into a single Add or Sub (or deletes the run
// entirely if the net delta is zero).
func foldAdds[T Int](w *woCode[T], ir0 Ir) bool {
	inst0, ok := w.get(ir0)
	if !ok {
		return false
	}
	k0, accepted := addDelta(inst0)
	if !accepted {
		return false
	}
	s := k0
	ir1 := ir0
	count := 1
	for {
		next := ir1 + 1
		if int(next) >= w.src.Len() || !w.canCombine(ir0, next) {
			break
		}
		inst, ok := w.get(next)
		if !ok {
			break
		}
		k, accepted := addDelta(inst)
		if !accepted || !fitsWord[T](s+k) {
			break
		}
		s += k
		ir1 = next
		count++
	}

	var want Instruction[T]
	deleteAll := s == 0
	if !deleteAll {
		if s > 0 {
			want = Instruction[T]{Op: OpAdd, Value: ConstantValue[T](fromInt64[T](s))}
		} else {
			want = Instruction[T]{Op: OpSub, Value: ConstantValue[T](fromInt64[T](-s))}
		}
	}
	if count == 1 && !deleteAll && sameInstruction(inst0, want) {
		return false
	}
	if deleteAll {
		for i := ir0; i <= ir1; i++ {
			w.deleteIr(i)
		}
	} else {
		w.setIr(ir0, want)
		for i := ir0 + 1; i <= ir1; i++ {
			w.deleteIr(i)
		}
	}
	return true
}

func mulFactor[T Int](inst Instruction[T]) (int64, bool) {
	if inst.Op == OpMul && inst.Value.Kind == ValueConstant {
		return numToInt64(inst.Value.Num), true
	}
	return 0, false
}

// foldMuls coalesces a run of Mul #k starting at ir0 into a single
// Mul (or Load #0 if any factor is zero, or a deletion if the product
// is one).
func foldMuls[T Int](w *woCode[T], ir0 Ir) bool {
	inst0, ok := w.get(ir0)
	if !ok {
		return false
	}
	k0, accepted := mulFactor(inst0)
	if !accepted {
		return false
	}
	p := k0
	ir1 := ir0
	count := 1
	zero := p == 0
	if !zero {
		for {
			next := ir1 + 1
			if int(next) >= w.src.Len() || !w.canCombine(ir0, next) {
				break
			}
			inst, ok := w.get(next)
			if !ok {
				break
			}
			k, accepted := mulFactor(inst)
			if !accepted {
				break
			}
			if k == 0 {
				p, ir1, count, zero = 0, next, count+1, true
				break
			}
			np := p * k
			if !fitsWord[T](np) {
				break
			}
			p, ir1, count = np, next, count+1
		}
	}

	var want Instruction[T]
	deleteAll := false
	switch {
	case zero:
		want = Instruction[T]{Op: OpLoad, Value: ConstantValue[T](0)}
	case p == 1:
		deleteAll = true
	default:
		want = Instruction[T]{Op: OpMul, Value: ConstantValue[T](fromInt64[T](p))}
	}
	if count == 1 && !deleteAll && sameInstruction(inst0, want) {
		return false
	}
	if deleteAll {
		for i := ir0; i <= ir1; i++ {
			w.deleteIr(i)
		}
	} else {
		w.setIr(ir0, want)
		for i := ir0 + 1; i <= ir1; i++ {
			w.deleteIr(i)
		}
	}
	return true
}

func divFactor[T Int](inst Instruction[T]) (int64, bool) {
	if inst.Op == OpDiv && inst.Value.Kind == ValueConstant {
		return numToInt64(inst.Value.Num), true
	}
	return 0, false
}

// foldDivs coalesces a run of Div #k starting at ir0: successive
// divisions compose multiplicatively on the divisor.
func foldDivs[T Int](w *woCode[T], ir0 Ir) bool {
	inst0, ok := w.get(ir0)
	if !ok {
		return false
	}
	k0, accepted := divFactor(inst0)
	if !accepted {
		return false
	}
	p := k0
	ir1 := ir0
	count := 1
	for {
		next := ir1 + 1
		if int(next) >= w.src.Len() || !w.canCombine(ir0, next) {
			break
		}
		inst, ok := w.get(next)
		if !ok {
			break
		}
		k, accepted := divFactor(inst)
		if !accepted {
			break
		}
		np := p * k
		if k != 0 && !fitsWord[T](np) {
			break
		}
		p, ir1, count = np, next, count+1
	}

	var want Instruction[T]
	deleteAll := p == 1
	if !deleteAll {
		want = Instruction[T]{Op: OpDiv, Value: ConstantValue[T](fromInt64[T](p))}
	}
	if count == 1 && !deleteAll && sameInstruction(inst0, want) {
		return false
	}
	if deleteAll {
		for i := ir0; i <= ir1; i++ {
			w.deleteIr(i)
		}
	} else {
		w.setIr(ir0, want)
		for i := ir0 + 1; i <= ir1; i++ {
			w.deleteIr(i)
		}
	}
	return true
}

// FoldConsts walks the code coalescing runs of compatible constant
// arithmetic, trying fold_adds, fold_muls, fold_divs at each cursor in
// turn and only advancing once none of them progress.
func FoldConsts[T Int](c Code[T]) Code[T] {
	w := newWoCode(c)
	for ir := Ir(0); int(ir) < c.Len(); {
		if _, ok := w.get(ir); !ok {
			ir++
			continue
		}
		if foldAdds(w, ir) || foldMuls(w, ir) || foldDivs(w, ir) {
			continue
		}
		ir++
	}
	return w.materialize()
}

// Optimize runs the four-pass pipeline: RemoveNops, SimplifyJumps,
// RemoveUnreachableCode, FoldConsts. It rejects input containing
// indirect jumps (see ErrIndirectJumpsUnsupported) since those defeat
// the static jump-entry-point invariant the passes rely on.
func Optimize[T Int](c Code[T]) (Code[T], error) {
	if hasIndirectJump(c) {
		return Code[T]{}, ErrIndirectJumpsUnsupported
	}
	c = RemoveNops(c)
	c = SimplifyJumps(c)
	c = RemoveUnreachableCode(c)
	c = FoldConsts(c)
	return c, nil
}
