package hostiface

import "math/big"

// FungibleToken is the host-side bookkeeping for one `define_ft`.
type FungibleToken struct {
	HasCap   bool
	Cap      *big.Int
	Supply   *big.Int
	Balances map[string]*big.Int
}

func newFungibleToken() *FungibleToken {
	return &FungibleToken{Supply: big.NewInt(0), Balances: map[string]*big.Int{}}
}

func (t *FungibleToken) balanceOf(principal string) *big.Int {
	if b, ok := t.Balances[principal]; ok {
		return b
	}
	return big.NewInt(0)
}

// NonFungibleToken is the host-side bookkeeping for one `define_nft`.
type NonFungibleToken struct {
	Owners map[string]string // encoded asset identifier -> owning principal
}

func newNonFungibleToken() *NonFungibleToken {
	return &NonFungibleToken{Owners: map[string]string{}}
}

// Store is a reference, in-memory implementation of the persistent state
// the Host Interface reads and writes: contract variables, maps, and
// fungible/non-fungible tokens. It exists to make HI semantics testable
// end-to-end; it is not the production persistence layer, which is
// explicitly out of scope.
type Store struct {
	principal string // this contract's own principal, for enter/exit_as_contract

	vars map[string][]byte
	maps map[string]map[string][]byte

	ft  map[string]*FungibleToken
	nft map[string]*NonFungibleToken

	stxBalances map[string]*big.Int
	stxLiquidSupply *big.Int

	blockHeight       uint64
	burnBlockHeight   uint64
	stacksBlockHeight uint64
	tenureHeight      uint64
	chainID           uint32
	mainnet           bool

	callerStack []string // tx-sender/contract-caller stack for enter/exit_as_contract
	txSender    string

	readOnlyDepth int // >0 means writes must fail

	checkpoints []checkpoint

	// info holds historical chain-info properties keyed by category
	// ("block", "burn_block", "stacks_block", "tenure"), then height,
	// then property name. A real host answers these from chain state;
	// this reference store answers from whatever a test populates via
	// SetInfo.
	info map[string]map[uint64]map[string][]byte
}

type checkpoint struct {
	vars        map[string][]byte
	maps        map[string]map[string][]byte
	ft          map[string]*FungibleToken
	nft         map[string]*NonFungibleToken
	stxBalances map[string]*big.Int
}

// NewStore creates an empty reference store for the contract deployed at
// principal.
func NewStore(principal string) *Store {
	return &Store{
		principal:       principal,
		vars:            map[string][]byte{},
		maps:            map[string]map[string][]byte{},
		ft:              map[string]*FungibleToken{},
		nft:             map[string]*NonFungibleToken{},
		stxBalances:     map[string]*big.Int{},
		stxLiquidSupply: big.NewInt(0),
		txSender:        principal,
		mainnet:         false,
		chainID:         1,
		info:            map[string]map[uint64]map[string][]byte{},
	}
}

// SetInfo records the value of property at height within category, for a
// test to populate before exercising a get_{category}_info_*_property HI
// call.
func (s *Store) SetInfo(category string, height uint64, property string, value []byte) {
	byHeight, ok := s.info[category]
	if !ok {
		byHeight = map[uint64]map[string][]byte{}
		s.info[category] = byHeight
	}
	byProperty, ok := byHeight[height]
	if !ok {
		byProperty = map[string][]byte{}
		byHeight[height] = byProperty
	}
	byProperty[property] = value
}

// GetInfo looks up property at height within category.
func (s *Store) GetInfo(category string, height uint64, property string) ([]byte, bool) {
	byHeight, ok := s.info[category]
	if !ok {
		return nil, false
	}
	byProperty, ok := byHeight[height]
	if !ok {
		return nil, false
	}
	v, ok := byProperty[property]
	return v, ok
}

// CurrentHeight returns the height counter associated with category.
func (s *Store) CurrentHeight(category string) uint64 {
	switch category {
	case "block":
		return s.blockHeight
	case "burn_block":
		return s.burnBlockHeight
	case "stacks_block":
		return s.stacksBlockHeight
	case "tenure":
		return s.tenureHeight
	default:
		return 0
	}
}

// SetHeights sets every chain-height counter at once, as a test fixture
// would when preparing a scenario.
func (s *Store) SetHeights(block, burnBlock, stacksBlock, tenure uint64) {
	s.blockHeight = block
	s.burnBlockHeight = burnBlock
	s.stacksBlockHeight = stacksBlock
	s.tenureHeight = tenure
}

// SetChainMeta configures chain_id/is_in_mainnet reporting.
func (s *Store) SetChainMeta(chainID uint32, mainnet bool) {
	s.chainID = chainID
	s.mainnet = mainnet
}

// CreditSTX adds amount to principal's STX balance and the liquid supply,
// a test fixture for scenarios exercising stx_get_balance/stx-transfer?.
func (s *Store) CreditSTX(principal string, amount *big.Int) {
	bal, ok := s.stxBalances[principal]
	if !ok {
		bal = big.NewInt(0)
	}
	s.stxBalances[principal] = new(big.Int).Add(bal, amount)
	s.stxLiquidSupply = new(big.Int).Add(s.stxLiquidSupply, amount)
}

func (s *Store) stxBalanceOf(principal string) *big.Int {
	if b, ok := s.stxBalances[principal]; ok {
		return b
	}
	return big.NewInt(0)
}

// DefineVariable creates a persistent cell if it does not already exist.
func (s *Store) DefineVariable(name string, initial []byte) {
	s.vars[name] = initial
}

func (s *Store) GetVariable(name string) ([]byte, bool) {
	v, ok := s.vars[name]
	return v, ok
}

func (s *Store) SetVariable(name string, value []byte) error {
	if s.readOnlyDepth > 0 {
		return errReadOnly
	}
	s.vars[name] = value
	return nil
}

func (s *Store) DefineMap(name string) {
	if _, ok := s.maps[name]; !ok {
		s.maps[name] = map[string][]byte{}
	}
}

func (s *Store) MapGet(name, key string) ([]byte, bool) {
	v, ok := s.maps[name][key]
	return v, ok
}

func (s *Store) MapSet(name, key string, value []byte) error {
	if s.readOnlyDepth > 0 {
		return errReadOnly
	}
	s.maps[name][key] = value
	return nil
}

// MapInsert writes key/value only if key is absent, reporting whether the
// insert took effect.
func (s *Store) MapInsert(name, key string, value []byte) (bool, error) {
	if s.readOnlyDepth > 0 {
		return false, errReadOnly
	}
	if _, exists := s.maps[name][key]; exists {
		return false, nil
	}
	s.maps[name][key] = value
	return true, nil
}

// MapDelete removes key, reporting whether it was present.
func (s *Store) MapDelete(name, key string) (bool, error) {
	if s.readOnlyDepth > 0 {
		return false, errReadOnly
	}
	if _, exists := s.maps[name][key]; !exists {
		return false, nil
	}
	delete(s.maps[name], key)
	return true, nil
}

func (s *Store) DefineFT(name string, hasCap bool, cap *big.Int) {
	t := newFungibleToken()
	t.HasCap = hasCap
	t.Cap = cap
	s.ft[name] = t
}

func (s *Store) DefineNFT(name string) {
	s.nft[name] = newNonFungibleToken()
}

type trapError struct{ msg string }

func (e *trapError) Error() string { return e.msg }

var errReadOnly = &trapError{msg: "clarity: write attempted in a read-only context"}

// BeginPublicCall pushes a checkpoint the call can later commit or roll
// back to.
func (s *Store) BeginPublicCall() {
	s.checkpoints = append(s.checkpoints, s.snapshot())
}

// BeginReadOnlyCall pushes a checkpoint and disables writes for its
// duration.
func (s *Store) BeginReadOnlyCall() {
	s.checkpoints = append(s.checkpoints, s.snapshot())
	s.readOnlyDepth++
}

// CommitCall discards the most recent checkpoint, keeping its effects.
func (s *Store) CommitCall(readOnly bool) {
	s.popCheckpoint()
	if readOnly {
		s.readOnlyDepth--
	}
}

// RollBackCall restores the most recent checkpoint, discarding its effects.
func (s *Store) RollBackCall(readOnly bool) {
	cp := s.popCheckpointValue()
	s.restore(cp)
	if readOnly {
		s.readOnlyDepth--
	}
}

func (s *Store) popCheckpoint() {
	s.checkpoints = s.checkpoints[:len(s.checkpoints)-1]
}

func (s *Store) popCheckpointValue() checkpoint {
	cp := s.checkpoints[len(s.checkpoints)-1]
	s.popCheckpoint()
	return cp
}

func (s *Store) snapshot() checkpoint {
	cp := checkpoint{
		vars:        make(map[string][]byte, len(s.vars)),
		maps:        make(map[string]map[string][]byte, len(s.maps)),
		ft:          make(map[string]*FungibleToken, len(s.ft)),
		nft:         make(map[string]*NonFungibleToken, len(s.nft)),
		stxBalances: make(map[string]*big.Int, len(s.stxBalances)),
	}
	for k, v := range s.vars {
		cp.vars[k] = append([]byte{}, v...)
	}
	for name, m := range s.maps {
		inner := make(map[string][]byte, len(m))
		for k, v := range m {
			inner[k] = append([]byte{}, v...)
		}
		cp.maps[name] = inner
	}
	for name, t := range s.ft {
		cp.ft[name] = t.clone()
	}
	for name, t := range s.nft {
		clone := newNonFungibleToken()
		for k, v := range t.Owners {
			clone.Owners[k] = v
		}
		cp.nft[name] = clone
	}
	for k, v := range s.stxBalances {
		cp.stxBalances[k] = new(big.Int).Set(v)
	}
	return cp
}

func (s *Store) restore(cp checkpoint) {
	s.vars = cp.vars
	s.maps = cp.maps
	s.ft = cp.ft
	s.nft = cp.nft
	s.stxBalances = cp.stxBalances
}

func (t *FungibleToken) clone() *FungibleToken {
	clone := newFungibleToken()
	clone.HasCap = t.HasCap
	if t.Cap != nil {
		clone.Cap = new(big.Int).Set(t.Cap)
	}
	clone.Supply = new(big.Int).Set(t.Supply)
	for k, v := range t.Balances {
		clone.Balances[k] = new(big.Int).Set(v)
	}
	return clone
}

// EnterAsContract pushes this contract's own principal as the tx-sender,
// matching `enter_as_contract`; ExitAsContract pops it. Unbalanced
// enter/exit is a hard invariant violation the caller must not produce.
func (s *Store) EnterAsContract() {
	s.callerStack = append(s.callerStack, s.txSender)
	s.txSender = s.principal
}

func (s *Store) ExitAsContract() {
	n := len(s.callerStack)
	s.txSender = s.callerStack[n-1]
	s.callerStack = s.callerStack[:n-1]
}

func (s *Store) TxSender() string { return s.txSender }
