package rame

import "testing"

func TestParseInstructionRoundTrip(t *testing.T) {
	cases := []string{
		"READ", "WRITE", "STOP", "NOP",
		"LOAD #5", "LOAD 3", "LOAD @3",
		"STORE 2", "STORE @2",
		"INC 0", "DEC @1",
		"ADD #-7", "SUB 1", "MUL #2", "DIV #3", "MOD #4",
		"JUMP 9", "JUMZ 0", "JUML 1", "JUMG 2",
	}
	opts := ParseOptions{AllowIndirectJumps: true}
	for _, s := range cases {
		inst, err := ParseInstruction[int32](s, opts)
		assert(t, err == nil, "parsing %q failed: %s", s, err)
		assert(t, inst.String() == s, "round trip mismatch: %q -> %q", s, inst.String())
	}
}

func TestParseInstructionUnknownMnemonic(t *testing.T) {
	_, err := ParseInstruction[int32]("FROB 1", DefaultParseOptions())
	assert(t, err != nil, "unknown mnemonic should fail")
	var ue *UnknownInstructionError
	assert(t, asUnknownInstructionError(err, &ue), "error should be UnknownInstructionError, got %T", err)
}

func asUnknownInstructionError(err error, target **UnknownInstructionError) bool {
	if ue, ok := err.(*UnknownInstructionError); ok {
		*target = ue
		return true
	}
	return false
}

func TestIndirectJumpDisabledByDefault(t *testing.T) {
	_, err := ParseInstruction[int32]("JUMP @0", DefaultParseOptions())
	assert(t, err == ErrDisabledIndirect, "expected ErrDisabledIndirect, got %v", err)
}

func TestIndirectJumpAllowed(t *testing.T) {
	inst, err := ParseInstruction[int32]("JUMP @0", ParseOptions{AllowIndirectJumps: true})
	assert(t, err == nil, "indirect jump should parse when allowed: %s", err)
	addr, ok := inst.JumpTarget()
	assert(t, ok && addr.Kind == AddressRegister, "expected register address")
}

func TestIsJumpAndUnconditional(t *testing.T) {
	jump, _ := ParseInstruction[int32]("JUMP 3", DefaultParseOptions())
	jumz, _ := ParseInstruction[int32]("JUMZ 3", DefaultParseOptions())
	load, _ := ParseInstruction[int32]("LOAD #1", DefaultParseOptions())

	assert(t, jump.IsJump() && jump.IsUnconditionalJump(), "JUMP should be an unconditional jump")
	assert(t, jumz.IsJump() && !jumz.IsUnconditionalJump(), "JUMZ should be a conditional jump")
	assert(t, !load.IsJump(), "LOAD should not be a jump")
}

func TestWithJumpTargetPanicsOnNonJump(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling WithJumpTarget on a non-jump instruction")
		}
	}()
	load, _ := ParseInstruction[int32]("LOAD #1", DefaultParseOptions())
	load.WithJumpTarget(ConstantAddress(0))
}

func TestDowngradeRegister(t *testing.T) {
	w := DirectRegister[woLoc](4)
	ro := Downgrade(w)
	assert(t, ro.Loc() == 4 && !ro.Indirect(), "downgrade should preserve loc/indirect")
}
