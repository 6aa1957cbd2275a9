package codegen

import "github.com/stacks-network/clarity-wasm-sub001/wasmbin"

// hiFuncs holds the resolved import indices for the subset of the Host
// Interface this code generator emits calls to. Only that subset is
// imported, under the fixed "clarity" namespace — the host module built
// by hostiface.Build exports the full set, so an emitted module importing
// a subset is still a valid, loadable module against that host.
type hiFuncs struct {
	defineVariable, getVariable, setVariable                     uint32
	defineMap, mapGet, mapSet, mapInsert, mapDelete              uint32
	defineFT, ftTransfer, ftGetBalance, ftGetSupply              uint32
	defineNFT, nftTransfer, nftGetOwner                          uint32
	defineFunction                                                uint32
	beginPublicCall, beginReadOnlyCall, commitCall, rollBackCall uint32
	print         uint32
	contractCall uint32
}

const hiNamespace = "clarity"

var (
	tyNameInit    = wasmbin.FuncType{Params: i32x(4)}
	tyName        = wasmbin.FuncType{Params: i32x(2)}
	tyGetOut      = wasmbin.FuncType{Params: i32x(4)}
	tySetVal      = wasmbin.FuncType{Params: i32x(4)}
	tyMapGet      = wasmbin.FuncType{Params: i32x(6)}
	tyMapSet      = wasmbin.FuncType{Params: i32x(6), Results: []wasmbin.ValueType{wasmbin.ValueTypeI32}}
	tyMapDelete   = wasmbin.FuncType{Params: i32x(4), Results: []wasmbin.ValueType{wasmbin.ValueTypeI32}}
	tyDefineFT    = wasmbin.FuncType{Params: append(i32x(2), wasmbin.ValueTypeI32, wasmbin.ValueTypeI64, wasmbin.ValueTypeI64)}
	tyFtTransfer  = wasmbin.FuncType{
		Params:  append(i32x(2), wasmbin.ValueTypeI64, wasmbin.ValueTypeI64, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32),
		Results: []wasmbin.ValueType{wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI64, wasmbin.ValueTypeI64},
	}
	tyFtGetBalance = wasmbin.FuncType{Params: i32x(4), Results: []wasmbin.ValueType{wasmbin.ValueTypeI64, wasmbin.ValueTypeI64}}
	tyFtGetSupply  = wasmbin.FuncType{Params: i32x(2), Results: []wasmbin.ValueType{wasmbin.ValueTypeI64, wasmbin.ValueTypeI64}}
	tyNftTransfer  = wasmbin.FuncType{
		Params:  i32x(8),
		Results: []wasmbin.ValueType{wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI64, wasmbin.ValueTypeI64},
	}
	tyNftGetOwner = wasmbin.FuncType{Params: i32x(6)}
	tyNoArgs      = wasmbin.FuncType{}
	tyPrint       = wasmbin.FuncType{Params: i32x(4)}
	tyDefineFunction = wasmbin.FuncType{Params: []wasmbin.ValueType{wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32}}
	// tyContractCall: trait_ptr, trait_len, contract_ptr, contract_len,
	// fn_ptr, fn_len, args_ptr, out_ptr, out_cap.
	tyContractCall = wasmbin.FuncType{Params: i32x(9)}
)

func i32x(n int) []wasmbin.ValueType {
	s := make([]wasmbin.ValueType, n)
	for i := range s {
		s[i] = wasmbin.ValueTypeI32
	}
	return s
}

// buildHI imports every HI function category this generator can emit
// calls to.
func buildHI(m *wasmbin.Module) *hiFuncs {
	h := &hiFuncs{}
	h.defineVariable = m.AddImportFunc(hiNamespace, "define_variable", tyNameInit)
	h.getVariable = m.AddImportFunc(hiNamespace, "get_variable", tyGetOut)
	h.setVariable = m.AddImportFunc(hiNamespace, "set_variable", tySetVal)

	h.defineMap = m.AddImportFunc(hiNamespace, "define_map", tyName)
	h.mapGet = m.AddImportFunc(hiNamespace, "map_get", tyMapGet)
	h.mapSet = m.AddImportFunc(hiNamespace, "map_set", tyMapSet)
	h.mapInsert = m.AddImportFunc(hiNamespace, "map_insert", tyMapSet)
	h.mapDelete = m.AddImportFunc(hiNamespace, "map_delete", tyMapDelete)

	h.defineFT = m.AddImportFunc(hiNamespace, "define_ft", tyDefineFT)
	h.ftTransfer = m.AddImportFunc(hiNamespace, "ft_transfer", tyFtTransfer)
	h.ftGetBalance = m.AddImportFunc(hiNamespace, "ft_get_balance", tyFtGetBalance)
	h.ftGetSupply = m.AddImportFunc(hiNamespace, "ft_get_supply", tyFtGetSupply)

	h.defineNFT = m.AddImportFunc(hiNamespace, "define_nft", tyName)
	h.nftTransfer = m.AddImportFunc(hiNamespace, "nft_transfer", tyNftTransfer)
	h.nftGetOwner = m.AddImportFunc(hiNamespace, "nft_get_owner", tyNftGetOwner)

	h.beginPublicCall = m.AddImportFunc(hiNamespace, "begin_public_call", tyNoArgs)
	h.beginReadOnlyCall = m.AddImportFunc(hiNamespace, "begin_read_only_call", tyNoArgs)
	h.commitCall = m.AddImportFunc(hiNamespace, "commit_call", tyNoArgs)
	h.rollBackCall = m.AddImportFunc(hiNamespace, "roll_back_call", tyNoArgs)

	h.print = m.AddImportFunc(hiNamespace, "print", tyPrint)

	h.defineFunction = m.AddImportFunc(hiNamespace, "define_function", tyDefineFunction)

	h.contractCall = m.AddImportFunc(hiNamespace, "contract_call", tyContractCall)
	return h
}
