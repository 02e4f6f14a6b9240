package tokens

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token describes an ERC20 token reachable through one of the routers.
// The native coin is represented with a zero address.
type Token struct {
	Symbol   string
	Address  common.Address
	Decimals uint8
}

// IsNative reports whether the token is the native coin
func (t Token) IsNative() bool {
	return t.Address == (common.Address{})
}

// Dust returns the smallest tradeable amount for the token,
// 0.0001 in the token's own units
func (t Token) Dust() *big.Int {
	d := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Decimals)), nil)
	return d.Div(d, big.NewInt(10000))
}

// Native is the chain's own coin
var Native = Token{Symbol: "MON", Decimals: 18}

// WrappedNative is WMON as a tradeable token, 1:1 with the native coin
var WrappedNative = Token{Symbol: "WMON", Address: WMON, Decimals: 18}

// Contract addresses on Monad testnet
var (
	// WMON is the wrapped native token
	WMON = common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701")

	// Staking contracts
	AprioriContract = common.HexToAddress("0xb2f82D0f38dc453D596Ad40A37799446Cc89274A")
	MagmaContract   = common.HexToAddress("0x2c9C959516e9AAEdB2C748224a41249202ca8BE7")
	KintsuContract  = common.HexToAddress("0x07AabD925866E8353407E67C1D157836f7Ad923e")

	// Shmonad liquid staking vault
	ShmonadContract = common.HexToAddress("0x3a98250F98Dd388C211206983453837C8365BDc1")

	// Swap routers
	BeanswapRouter = common.HexToAddress("0xCa810D095e90Daae6e867c19DF6D9A8C56db2c89")
	OctoswapRouter = common.HexToAddress("0xb6091233aAcACbA45225a2B2121BBaC807aF4255")
	MonorailRouter = common.HexToAddress("0xC995498c22a012353FAE7eCC701810D673E25794")
	AmbientRouter  = common.HexToAddress("0x88B96aF200c8a9c35442C8AC6cd3D22695AaE4F0")
)

// Beanswap lists the tokens traded against native on the beanswap router
var Beanswap = []Token{
	{Symbol: "USDC", Address: common.HexToAddress("0x62534E4bBD6D9ebAC0ac99aeaa0aa48E56372df0"), Decimals: 6},
	{Symbol: "BEAN", Address: common.HexToAddress("0x268E4E24E0051EC27b3D27A95977E71cE6875a05"), Decimals: 18},
	{Symbol: "JAI", Address: common.HexToAddress("0x70F893f65E3C1d7f82aad72f71615eb220b74D10"), Decimals: 6},
}

// Octoswap lists the tokens traded against native on the octoswap router
var Octoswap = []Token{
	{Symbol: "USDC", Address: common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea"), Decimals: 6},
	{Symbol: "USDT", Address: common.HexToAddress("0x88b8E2161DEDC77EF4ab7585569D2415a1C1055D"), Decimals: 6},
	{Symbol: "TEST1", Address: common.HexToAddress("0xe42cFeCD310d9be03d3F80D605251d8D0Bc5cDF3"), Decimals: 18},
	{Symbol: "TEST2", Address: common.HexToAddress("0x73c03bc8F8f094c61c668AE9833D7Ed6C04FDc21"), Decimals: 18},
	{Symbol: "DAK", Address: common.HexToAddress("0x0F0BDEbF0F83cD1EE3974779Bcb7315f9808c714"), Decimals: 18},
}

// Monorail lists the tokens routed through the monorail pathfinder.
// WMON is routed as an ordinary token here, not through the wrap contract.
var Monorail = []Token{
	WrappedNative,
	{Symbol: "USDC", Address: common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea"), Decimals: 6},
	{Symbol: "WETH", Address: common.HexToAddress("0xB5a30b0FDc5EA94A52fDc42e3E9760Cb8449Fb37"), Decimals: 18},
}

// Ambient lists the tokens traded on the ambient dex
var Ambient = []Token{
	{Symbol: "USDT", Address: common.HexToAddress("0x88b8E2161DEDC77EF4ab7585569D2415a1C1055D"), Decimals: 6},
}

// FindBySymbol returns the token with the given symbol from a token set
func FindBySymbol(set []Token, symbol string) (Token, bool) {
	for _, t := range set {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return Token{}, false
}
