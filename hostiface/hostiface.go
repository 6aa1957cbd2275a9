// Package hostiface implements the Host Interface (HI): the set of
// imported functions under the "clarity" namespace that give an emitted
// module access to persistent state, tokens, chain metadata, control
// transfers, events and cryptography. This package is the reference host
// side of that boundary — an in-memory backing store plus wazero
// bindings — so the compiler's output is testable end-to-end
// without a real blockchain node behind it.
package hostiface

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const namespace = "clarity"

// Event is one emitted `print` event, recorded for test assertions.
type Event struct {
	Value   []byte
	TypeSig string
}

// HostInterface is the reference Host Interface implementation for a
// single deployed contract. It owns the backing Store plus the chain
// metadata and event log a test harness inspects.
type HostInterface struct {
	Store *HIStore

	events      []Event
	memoryUsed  uint64
	memoryLimit uint64

	traits    map[string]bool
	functions map[string]int32

	roStack   []bool
	contracts map[string]api.Module
}

// NewHostInterface creates a Host Interface bound to a contract deployed
// at principal, with the given per-transaction memory budget.
func NewHostInterface(principal string, memoryLimit uint64) *HostInterface {
	return &HostInterface{
		Store:       NewStore(principal),
		memoryLimit: memoryLimit,
		traits:      map[string]bool{},
		functions:   map[string]int32{},
	}
}

// Events returns every value emitted via `print` since construction.
func (h *HostInterface) Events() []Event { return h.events }

// HIStore aliases the reference Store so this package's doc focuses on
// the HI surface; the transactional semantics live in store.go.
type HIStore = Store

// Build registers every HI function against r under the fixed "clarity"
// namespace and returns the instantiated host module.
func (h *HostInterface) Build(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	b := r.NewHostModuleBuilder(namespace)

	h.buildDefinitions(b)
	h.buildStateAccess(b)
	h.buildTokens(b)
	h.buildChain(b)
	h.buildControl(b)
	h.buildEvents(b)
	h.buildCrypto(b)

	return b.Instantiate(ctx)
}

func (h *HostInterface) buildDefinitions(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(h.defineVariable).Export("define_variable")
	b.NewFunctionBuilder().WithFunc(h.defineFT).Export("define_ft")
	b.NewFunctionBuilder().WithFunc(h.defineNFT).Export("define_nft")
	b.NewFunctionBuilder().WithFunc(h.defineMap).Export("define_map")
	b.NewFunctionBuilder().WithFunc(h.defineTrait).Export("define_trait")
	b.NewFunctionBuilder().WithFunc(h.implTrait).Export("impl_trait")
	b.NewFunctionBuilder().WithFunc(h.defineFunction).Export("define_function")
}

func (h *HostInterface) defineVariable(_ context.Context, mod api.Module, namePtr, nameLen, initPtr, initLen uint32) {
	name := readString(mod, namePtr, nameLen)
	h.Store.DefineVariable(name, readBytes(mod, initPtr, initLen))
}

func (h *HostInterface) defineFT(_ context.Context, mod api.Module, namePtr, nameLen uint32, supplyIndicator uint32, supplyLo, supplyHi uint64) {
	name := readString(mod, namePtr, nameLen)
	hasCap := supplyIndicator != 0
	h.Store.DefineFT(name, hasCap, toUint128(supplyLo, supplyHi))
}

func (h *HostInterface) defineNFT(_ context.Context, mod api.Module, namePtr, nameLen uint32) {
	h.Store.DefineNFT(readString(mod, namePtr, nameLen))
}

func (h *HostInterface) defineMap(_ context.Context, mod api.Module, namePtr, nameLen uint32) {
	h.Store.DefineMap(readString(mod, namePtr, nameLen))
}

func (h *HostInterface) defineTrait(_ context.Context, mod api.Module, namePtr, nameLen uint32) {
	h.traits[readString(mod, namePtr, nameLen)] = true
}

func (h *HostInterface) implTrait(_ context.Context, mod api.Module, fqnPtr, fqnLen uint32) {
	h.traits[readString(mod, fqnPtr, fqnLen)] = true
}

func (h *HostInterface) defineFunction(_ context.Context, mod api.Module, kind int32, namePtr, nameLen uint32) {
	h.functions[readString(mod, namePtr, nameLen)] = kind
}

func (h *HostInterface) buildStateAccess(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(h.getVariable).Export("get_variable")
	b.NewFunctionBuilder().WithFunc(h.setVariable).Export("set_variable")
	b.NewFunctionBuilder().WithFunc(h.mapGet).Export("map_get")
	b.NewFunctionBuilder().WithFunc(h.mapSet).Export("map_set")
	b.NewFunctionBuilder().WithFunc(h.mapInsert).Export("map_insert")
	b.NewFunctionBuilder().WithFunc(h.mapDelete).Export("map_delete")
}

func (h *HostInterface) getVariable(_ context.Context, mod api.Module, namePtr, nameLen, outPtr, outCap uint32) {
	name := readString(mod, namePtr, nameLen)
	v, ok := h.Store.GetVariable(name)
	if !ok {
		fatal("get_variable", "no such variable: "+name)
	}
	writeValue(mod, outPtr, outCap, v)
}

func (h *HostInterface) setVariable(_ context.Context, mod api.Module, namePtr, nameLen, valuePtr, valueLen uint32) {
	name := readString(mod, namePtr, nameLen)
	if err := h.Store.SetVariable(name, readBytes(mod, valuePtr, valueLen)); err != nil {
		fatal("set_variable", err.Error())
	}
}

func (h *HostInterface) mapGet(_ context.Context, mod api.Module, namePtr, nameLen, keyPtr, keyLen, outPtr, outCap uint32) {
	name := readString(mod, namePtr, nameLen)
	key := readString(mod, keyPtr, keyLen)
	v, ok := h.Store.MapGet(name, key)
	if !ok {
		writeOptional(mod, outPtr, outCap, nil)
		return
	}
	writeOptional(mod, outPtr, outCap, v)
}

func (h *HostInterface) mapSet(_ context.Context, mod api.Module, namePtr, nameLen, keyPtr, keyLen, valuePtr, valueLen uint32) uint32 {
	name := readString(mod, namePtr, nameLen)
	key := readString(mod, keyPtr, keyLen)
	if err := h.Store.MapSet(name, key, readBytes(mod, valuePtr, valueLen)); err != nil {
		fatal("map_set", err.Error())
	}
	return 1
}

func (h *HostInterface) mapInsert(_ context.Context, mod api.Module, namePtr, nameLen, keyPtr, keyLen, valuePtr, valueLen uint32) uint32 {
	name := readString(mod, namePtr, nameLen)
	key := readString(mod, keyPtr, keyLen)
	ok, err := h.Store.MapInsert(name, key, readBytes(mod, valuePtr, valueLen))
	if err != nil {
		fatal("map_insert", err.Error())
	}
	return boolToI32(ok)
}

func (h *HostInterface) mapDelete(_ context.Context, mod api.Module, namePtr, nameLen, keyPtr, keyLen uint32) uint32 {
	name := readString(mod, namePtr, nameLen)
	key := readString(mod, keyPtr, keyLen)
	ok, err := h.Store.MapDelete(name, key)
	if err != nil {
		fatal("map_delete", err.Error())
	}
	return boolToI32(ok)
}

func boolToI32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func (h *HostInterface) buildEvents(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(h.print).Export("print")
	b.NewFunctionBuilder().WithFunc(h.addMemory).Export("add_memory")
	b.NewFunctionBuilder().WithFunc(h.log).Export("log")
	b.NewFunctionBuilder().WithFunc(h.debugMsg).Export("debug_msg")
}

func (h *HostInterface) print(_ context.Context, mod api.Module, valuePtr, valueLen, typeSigPtr, typeSigLen uint32) {
	h.events = append(h.events, Event{
		Value:   readBytes(mod, valuePtr, valueLen),
		TypeSig: readString(mod, typeSigPtr, typeSigLen),
	})
}

// addMemory reports an intended allocation of n bytes against the
// per-transaction budget. Exceeding the budget is a fatal failure,
// failure returns trap the module.
func (h *HostInterface) addMemory(_ context.Context, n uint64) {
	h.memoryUsed += n
	if h.memoryLimit > 0 && h.memoryUsed > h.memoryLimit {
		fatal("add_memory", "memory budget exceeded")
	}
}

func (h *HostInterface) log(_ context.Context, mod api.Module, ptr, length uint32) {
	_ = readString(mod, ptr, length)
}

func (h *HostInterface) debugMsg(_ context.Context, mod api.Module, ptr, length uint32) {
	_ = readString(mod, ptr, length)
}
