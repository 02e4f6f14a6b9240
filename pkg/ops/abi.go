package ops

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// mustABI parses an ABI definition at package load time
func mustABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// mustType builds an ABI type at package load time
func mustType(t string) abi.Type {
	ty, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return ty
}

// packCall prepends a 4-byte selector to ABI-encoded arguments.
// Used for contracts where only the selector is known, not the full ABI.
func packCall(selector []byte, args abi.Arguments, values ...interface{}) ([]byte, error) {
	encoded, err := args.Pack(values...)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, selector...), encoded...), nil
}
