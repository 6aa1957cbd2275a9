package hostiface

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func (h *HostInterface) buildControl(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(h.beginPublicCall).Export("begin_public_call")
	b.NewFunctionBuilder().WithFunc(h.beginReadOnlyCall).Export("begin_read_only_call")
	b.NewFunctionBuilder().WithFunc(h.commitCall).Export("commit_call")
	b.NewFunctionBuilder().WithFunc(h.rollBackCall).Export("roll_back_call")
	b.NewFunctionBuilder().WithFunc(h.enterAsContract).Export("enter_as_contract")
	b.NewFunctionBuilder().WithFunc(h.exitAsContract).Export("exit_as_contract")
	b.NewFunctionBuilder().WithFunc(h.enterAtBlock).Export("enter_at_block")
	b.NewFunctionBuilder().WithFunc(h.exitAtBlock).Export("exit_at_block")
	b.NewFunctionBuilder().WithFunc(h.contractCall).Export("contract_call")
}

// roStack remembers, per open begin_public_call/begin_read_only_call
// bracket, whether it was read-only — commit_call/roll_back_call take no
// arguments, so the host must track that itself rather than
// have the module pass it back.
func (h *HostInterface) beginPublicCall(_ context.Context) {
	h.Store.BeginPublicCall()
	h.roStack = append(h.roStack, false)
}

func (h *HostInterface) beginReadOnlyCall(_ context.Context) {
	h.Store.BeginReadOnlyCall()
	h.roStack = append(h.roStack, true)
}

func (h *HostInterface) popRO() bool {
	n := len(h.roStack)
	if n == 0 {
		fatal("commit_call/roll_back_call", "unbalanced call bracket")
	}
	ro := h.roStack[n-1]
	h.roStack = h.roStack[:n-1]
	return ro
}

func (h *HostInterface) commitCall(_ context.Context) {
	h.Store.CommitCall(h.popRO())
}

func (h *HostInterface) rollBackCall(_ context.Context) {
	h.Store.RollBackCall(h.popRO())
}

func (h *HostInterface) enterAsContract(_ context.Context) {
	h.Store.EnterAsContract()
}

func (h *HostInterface) exitAsContract(_ context.Context) {
	h.Store.ExitAsContract()
}

func (h *HostInterface) enterAtBlock(_ context.Context, mod api.Module, hashPtr, hashLen uint32) {
	_ = readBytes(mod, hashPtr, hashLen)
	h.Store.BeginReadOnlyCall()
}

func (h *HostInterface) exitAtBlock(_ context.Context) {
	h.Store.RollBackCall(true)
}

// RegisterContract makes another instantiated module reachable by
// contract-call? under name.
func (h *HostInterface) RegisterContract(name string, mod api.Module) {
	if h.contracts == nil {
		h.contracts = map[string]api.Module{}
	}
	h.contracts[name] = mod
}

// contractCall invokes another module's exported function. This
// reference host supports the direct-call convention only (trait_len ==
// 0): the callee's exported function is called with a single i32
// args_offset pointing at a pre-marshalled argument region whose layout
// the callee's statically-known signature determines, and is expected to
// return (result_offset, result_length); the result bytes are copied
// into the caller's out buffer. Dynamic (trait-typed) dispatch
// additionally needs trait-to-implementation resolution, which the
// compiler core does not exercise.
func (h *HostInterface) contractCall(_ context.Context, mod api.Module, traitPtr, traitLen, contractPtr, contractLen, fnPtr, fnLen, argsPtr, outPtr, outCap uint32) {
	if traitLen != 0 {
		fatal("contract_call", "dynamic trait dispatch is not supported by this reference host")
	}
	contract := readString(mod, contractPtr, contractLen)
	fn := readString(mod, fnPtr, fnLen)
	target, ok := h.contracts[contract]
	if !ok {
		fatal("contract_call", "no such contract: "+contract)
	}
	callee := target.ExportedFunction(fn)
	if callee == nil {
		fatal("contract_call", "no such function "+fn+" on "+contract)
	}
	results, err := callee.Call(context.Background(), uint64(argsPtr))
	if err != nil {
		fatal("contract_call", err.Error())
	}
	resOff, resLen := uint32(results[0]), uint32(results[1])
	writeBytes(mod, outPtr, readBytes(target, resOff, resLen)[:minU32(resLen, outCap)])
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
